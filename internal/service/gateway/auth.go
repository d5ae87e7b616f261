package gateway

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"ordergateway/internal/config"
	"ordergateway/internal/entity"
)

var (
	errCredentialsMissing  = errors.New("credentials are required")
	errCredentialsInvalid  = errors.New("invalid credentials")
	errCredentialsInactive = errors.New("credentials are inactive")
	errCredentialsExpired  = errors.New("credentials are expired")
	errUserMismatch        = errors.New("credentials belong to a different user")
	errBrokerNotAllowed    = errors.New("credentials are not valid for this broker")
)

// AuthGate resolves request credentials into a Principal and decides
// whether the caller may act on the requested (broker, user_id) pair.
// Token material is fixed at start-up from config.
type AuthGate struct {
	tokens []config.AuthTokenConfig
}

func NewAuthGate(tokens []config.AuthTokenConfig) *AuthGate {
	return &AuthGate{tokens: tokens}
}

// Authorize matches the presented token against the configured set
// with constant-time comparison. Missing or unknown tokens report an
// authentication failure; a known token acting on another user or an
// out-of-scope broker reports an authorization failure.
func (g *AuthGate) Authorize(rawToken, brokerName string, userID int64) (entity.Principal, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return entity.Principal{}, errCredentialsMissing
	}

	now := time.Now().UTC()
	for _, candidate := range g.tokens {
		storedToken := strings.TrimSpace(candidate.Token)
		if storedToken == "" {
			continue
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(storedToken)) != 1 {
			continue
		}

		if !candidate.Active {
			return entity.Principal{}, errCredentialsInactive
		}

		expiredAt, hasExpiry, err := parseExpiry(candidate.ExpiredAt)
		if err != nil {
			return entity.Principal{}, errCredentialsInvalid
		}
		if hasExpiry && !now.Before(expiredAt) {
			return entity.Principal{}, errCredentialsExpired
		}

		if candidate.UserID != userID {
			return entity.Principal{}, errUserMismatch
		}

		if !brokerAllowed(candidate.Brokers, brokerName) {
			return entity.Principal{}, errBrokerNotAllowed
		}

		return entity.Principal{UserID: userID, Broker: brokerName}, nil
	}

	return entity.Principal{}, errCredentialsInvalid
}

func brokerAllowed(allowed []string, brokerName string) bool {
	if len(allowed) == 0 {
		return true
	}

	for _, name := range allowed {
		if strings.EqualFold(strings.TrimSpace(name), brokerName) {
			return true
		}
	}

	return false
}

func parseExpiry(value any) (time.Time, bool, error) {
	if value == nil {
		return time.Time{}, false, nil
	}

	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false, nil
		}
		return v.UTC(), true, nil
	case string:
		raw := strings.TrimSpace(v)
		if raw == "" {
			return time.Time{}, false, nil
		}

		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			return parsed.UTC(), true, nil
		}

		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, false, err
		}

		return parsed.UTC().Add(24 * time.Hour), true, nil
	default:
		return time.Time{}, false, errors.New("unsupported expiry type")
	}
}
