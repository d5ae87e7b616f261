package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ServiceName    = "order-gateway"
	ServiceVersion = ""
)

var (
	Env *EnvConfig
)

type EnvConfig struct {
	Env                     string                  `mapstructure:"env"`
	Log                     LogConfig               `mapstructure:"log"`
	GracefulShutdownTimeout time.Duration           `mapstructure:"graceful_shutdown_timeout"`
	Port                    map[string]string       `mapstructure:"port"`
	AuthTokens              []AuthTokenConfig       `mapstructure:"auth_tokens"`
	Brokers                 map[string]BrokerConfig `mapstructure:"brokers"`
	Cache                   CacheConfig             `mapstructure:"cache"`
	NatsJetstream           NatsJetstreamConfig     `mapstructure:"nats_jetstream"`
}

type LogConfig struct {
	ShowCaller bool   `mapstructure:"show_caller"`
	LogLevel   string `mapstructure:"log_level"`
}

// AuthTokenConfig binds one credential token to a user. An empty
// Brokers list entitles the token to every registered broker.
type AuthTokenConfig struct {
	Name      string   `mapstructure:"name"`
	Token     string   `mapstructure:"token"`
	UserID    int64    `mapstructure:"user_id"`
	Brokers   []string `mapstructure:"brokers"`
	Active    bool     `mapstructure:"active"`
	ExpiredAt any      `mapstructure:"expired_at"`
}

// BrokerConfig describes one brokerage backend. An empty BaseURL
// registers the in-process paper broker instead of a live connection.
type BrokerConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	AccessToken string        `mapstructure:"access_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // memory (default) or redis
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	CacheDSN string `mapstructure:"cache_dsn"`
}

type NatsJetstreamConfig struct {
	URL             string        `mapstructure:"url"`
	MaxRetries      int           `mapstructure:"max_retries"`
	ReconnectFactor float64       `mapstructure:"reconnect_factor"`
	MinJitter       time.Duration `mapstructure:"min_jitter"`
	MaxJitter       time.Duration `mapstructure:"max_jitter"`
}

func LoadConfig(configPath string) error {
	viper.Reset()

	configPath = strings.TrimSpace(configPath)
	if configPath == "" {
		viper.SetConfigName("config")
		viper.SetConfigType("yml")
		viper.AddConfigPath(".")
	} else {
		ext := strings.ToLower(filepath.Ext(configPath))
		if ext == ".yml" || ext == ".yaml" {
			viper.SetConfigFile(configPath)
		} else {
			viper.SetConfigName(filepath.Base(configPath))
			viper.SetConfigType("yml")
			configDir := filepath.Dir(configPath)
			if configDir == "." || configDir == "" {
				viper.AddConfigPath(".")
			} else {
				viper.AddConfigPath(configDir)
			}
		}
	}

	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	err = viper.Unmarshal(&Env)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	return nil
}
