package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ordergateway/internal/apierror"
	"ordergateway/internal/entity"
	"ordergateway/internal/service/broker"
	"ordergateway/internal/service/cache"
	"ordergateway/internal/service/events"
)

// Service orchestrates the request pipeline: auth gate, validation,
// cache lookup, adapter dispatch, cache write-through. All failures
// leave as *apierror.Error; nothing else crosses the handler boundary.
type Service struct {
	registry  *broker.Registry
	authGate  *AuthGate
	cache     cache.Store
	publisher events.Publisher
}

func NewService(registry *broker.Registry, authGate *AuthGate, cacheStore cache.Store, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &Service{
		registry:  registry,
		authGate:  authGate,
		cache:     cacheStore,
		publisher: publisher,
	}
}

// Brokers returns the registered broker directory.
func (s *Service) Brokers() []string {
	return s.registry.Names()
}

type PlaceOrderInput struct {
	Broker      string
	UserID      int64
	Credentials string
	Order       entity.OrderRequest
}

type ListOrdersInput struct {
	Broker      string
	UserID      int64
	Credentials string
	UseCache    bool
}

type GetOrderInput struct {
	Broker      string
	UserID      int64
	Credentials string
	OrderID     string
	UseCache    bool
}

func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*entity.Order, error) {
	principal, err := s.authGate.Authorize(in.Credentials, in.Broker, in.UserID)
	if err != nil {
		return nil, mapAuthError(err)
	}

	validated, err := ValidateOrder(in.Order)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return nil, apierror.Validation(vErr.Field, vErr.Rule)
		}

		return nil, s.internalError(err)
	}

	adapter, err := s.registry.Resolve(in.Broker)
	if err != nil {
		return nil, apierror.UnknownBroker(in.Broker)
	}

	// The placement must run to completion even if the client goes
	// away mid-flight; abandoning it could leave an unobservable
	// duplicate on the broker side. The write-through below keeps the
	// cache consistent for subsequent requests either way.
	dispatchCtx := context.WithoutCancel(ctx)

	record, err := adapter.PlaceOrder(dispatchCtx, validated, principal)
	if err != nil {
		return nil, s.mapBrokerError(err)
	}

	orderKey := cache.OrderKey(in.Broker, in.UserID, record.OrderID)
	if cacheErr := s.cache.Put(dispatchCtx, orderKey, record); cacheErr != nil {
		logrus.Warnf("cache write-through failed for %s: %v", orderKey, cacheErr)
	}

	listKey := cache.ListKey(in.Broker, in.UserID)
	if cacheErr := s.cache.Invalidate(dispatchCtx, listKey); cacheErr != nil {
		logrus.Warnf("cache invalidation failed for %s: %v", listKey, cacheErr)
	}

	s.publisher.OrderPlaced(dispatchCtx, entity.OrderPlacedEvent{
		Broker:        record.Broker,
		UserID:        record.UserID,
		OrderID:       record.OrderID,
		TradingSymbol: record.TradingSymbol,
		Quantity:      record.Quantity,
		Type:          record.Type,
		Status:        record.Status,
		PlacedAt:      time.Now().UTC().UnixMilli(),
	})

	return record, nil
}

func (s *Service) ListOrders(ctx context.Context, in ListOrdersInput) ([]entity.Order, error) {
	principal, err := s.authGate.Authorize(in.Credentials, in.Broker, in.UserID)
	if err != nil {
		return nil, mapAuthError(err)
	}

	adapter, err := s.registry.Resolve(in.Broker)
	if err != nil {
		return nil, apierror.UnknownBroker(in.Broker)
	}

	listKey := cache.ListKey(in.Broker, in.UserID)
	if in.UseCache {
		var cached []entity.Order
		hit, cacheErr := s.cache.Get(ctx, listKey, &cached)
		if cacheErr != nil {
			logrus.Warnf("cache lookup failed for %s: %v", listKey, cacheErr)
		} else if hit {
			return cached, nil
		}
	}

	orders, err := adapter.ListOrders(ctx, principal)
	if err != nil {
		return nil, s.mapBrokerError(err)
	}

	// A user with no orders is a valid empty result, never an error.
	if orders == nil {
		orders = []entity.Order{}
	}

	if cacheErr := s.cache.Put(ctx, listKey, orders); cacheErr != nil {
		logrus.Warnf("cache write-through failed for %s: %v", listKey, cacheErr)
	}

	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, in GetOrderInput) (*entity.Order, error) {
	principal, err := s.authGate.Authorize(in.Credentials, in.Broker, in.UserID)
	if err != nil {
		return nil, mapAuthError(err)
	}

	adapter, err := s.registry.Resolve(in.Broker)
	if err != nil {
		return nil, apierror.UnknownBroker(in.Broker)
	}

	orderKey := cache.OrderKey(in.Broker, in.UserID, in.OrderID)
	if in.UseCache {
		var cached entity.Order
		hit, cacheErr := s.cache.Get(ctx, orderKey, &cached)
		if cacheErr != nil {
			logrus.Warnf("cache lookup failed for %s: %v", orderKey, cacheErr)
		} else if hit {
			return &cached, nil
		}
	}

	record, err := adapter.GetOrder(ctx, principal, in.OrderID)
	if err != nil {
		return nil, s.mapBrokerError(err)
	}

	if cacheErr := s.cache.Put(ctx, orderKey, record); cacheErr != nil {
		logrus.Warnf("cache write-through failed for %s: %v", orderKey, cacheErr)
	}

	return record, nil
}

func mapAuthError(err error) *apierror.Error {
	switch {
	case errors.Is(err, errUserMismatch), errors.Is(err, errBrokerNotAllowed):
		return apierror.Forbidden(err.Error())
	default:
		return apierror.Unauthenticated(err.Error())
	}
}

func (s *Service) mapBrokerError(err error) *apierror.Error {
	var (
		rejection *broker.RejectionError
		transport *broker.TransportError
	)

	switch {
	case errors.Is(err, broker.ErrOrderNotFound):
		return apierror.NotFound(err.Error())
	case errors.Is(err, broker.ErrUnknownBroker):
		return apierror.UnknownBroker(err.Error())
	case errors.As(err, &rejection):
		return apierror.Rejected(rejection.Reason)
	case errors.As(err, &transport):
		return apierror.Upstream(transport.Error())
	default:
		return s.internalError(err)
	}
}

func (s *Service) internalError(err error) *apierror.Error {
	errorID := uuid.NewString()
	logrus.WithField("error_id", errorID).Errorf("unexpected gateway failure: %v", err)

	return apierror.Internal(errorID)
}
