package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordergateway/internal/apierror"
	"ordergateway/internal/config"
	"ordergateway/internal/entity"
	"ordergateway/internal/service/broker"
	"ordergateway/internal/service/cache"
)

type mockBroker struct {
	placeCalls int
	listCalls  int
	getCalls   int

	placeResult *entity.Order
	placeErr    error
	listResult  []entity.Order
	listErr     error
	getResult   *entity.Order
	getErr      error
}

func (m *mockBroker) PlaceOrder(ctx context.Context, order entity.ValidatedOrder, principal entity.Principal) (*entity.Order, error) {
	m.placeCalls++
	if m.placeErr != nil {
		return nil, m.placeErr
	}
	return m.placeResult, nil
}

func (m *mockBroker) ListOrders(ctx context.Context, principal entity.Principal) ([]entity.Order, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listResult, nil
}

func (m *mockBroker) GetOrder(ctx context.Context, principal entity.Principal, orderID string) (*entity.Order, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getResult, nil
}

func newTestService(t *testing.T, mock *mockBroker) *Service {
	t.Helper()

	registry := broker.NewRegistry()
	registry.Register(entity.BrokerUpstox, mock)

	gate := NewAuthGate([]config.AuthTokenConfig{
		{Name: "test", Token: "valid_upstox_token", UserID: 1, Active: true},
	})

	return NewService(registry, gate, cache.NewMemoryStore(time.Minute), nil)
}

func marketOrder() entity.OrderRequest {
	return entity.OrderRequest{
		TradingSymbol: "INFY",
		Quantity:      10,
		Type:          entity.OrderTypeMarket,
	}
}

func TestPlaceOrderAuthFailureSkipsDispatch(t *testing.T) {
	mock := &mockBroker{}
	svc := newTestService(t, mock)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "wrong",
		Order:       marketOrder(),
	})

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Zero(t, mock.placeCalls)
}

func TestPlaceOrderAuthFailureWinsOverBadPayload(t *testing.T) {
	mock := &mockBroker{}
	svc := newTestService(t, mock)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "",
		Order:       entity.OrderRequest{Quantity: -1},
	})

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindUnauthenticated, apiErr.Kind)
	assert.Zero(t, mock.placeCalls)
}

func TestPlaceOrderValidationFailureSkipsDispatch(t *testing.T) {
	mock := &mockBroker{}
	svc := newTestService(t, mock)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "valid_upstox_token",
		Order:       entity.OrderRequest{TradingSymbol: "INFY", Quantity: 10, Type: entity.OrderTypeLimit},
	})

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "price")
	assert.Zero(t, mock.placeCalls)
}

func TestPlaceOrderUnknownBroker(t *testing.T) {
	svc := newTestService(t, &mockBroker{})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Broker:      "doesnotexist",
		UserID:      1,
		Credentials: "valid_upstox_token",
		Order:       marketOrder(),
	})

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "doesnotexist")
}

func TestPlaceOrderDispatchesExactlyOnce(t *testing.T) {
	mock := &mockBroker{
		placeResult: &entity.Order{
			OrderID: "ord-1",
			UserID:  1,
			Broker:  "upstox",
			Status:  entity.OrderStatusSuccess,
		},
	}
	svc := newTestService(t, mock)

	record, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "valid_upstox_token",
		Order:       marketOrder(),
	})

	require.NoError(t, err)
	assert.Equal(t, "ord-1", record.OrderID)
	assert.Equal(t, 1, mock.placeCalls)
}

func TestPlaceOrderBusinessRejectionNotRetried(t *testing.T) {
	mock := &mockBroker{
		placeErr: &broker.RejectionError{Broker: "upstox", Reason: "insufficient funds"},
	}
	svc := newTestService(t, mock)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "valid_upstox_token",
		Order:       marketOrder(),
	})

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, apierror.KindRejected, apiErr.Kind)
	assert.Contains(t, apiErr.Detail, "insufficient funds")
	assert.Equal(t, 1, mock.placeCalls)
}

func TestPlaceOrderTransportFailureMapsToInternal(t *testing.T) {
	mock := &mockBroker{
		placeErr: &broker.TransportError{Broker: "upstox", Err: errors.New("connection reset")},
	}
	svc := newTestService(t, mock)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "valid_upstox_token",
		Order:       marketOrder(),
	})

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, apierror.KindUpstream, apiErr.Kind)
}

func TestGetOrderNotFound(t *testing.T) {
	mock := &mockBroker{
		getErr: broker.ErrOrderNotFound,
	}
	svc := newTestService(t, mock)

	_, err := svc.GetOrder(context.Background(), GetOrderInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "valid_upstox_token",
		OrderID:     "missing",
	})

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestListOrdersEmptyIsNotAnError(t *testing.T) {
	mock := &mockBroker{listResult: nil}
	svc := newTestService(t, mock)

	orders, err := svc.ListOrders(context.Background(), ListOrdersInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "valid_upstox_token",
	})

	require.NoError(t, err)
	require.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestListOrdersCacheHitSkipsAdapter(t *testing.T) {
	mock := &mockBroker{
		listResult: []entity.Order{{OrderID: "ord-1", UserID: 1, Broker: "upstox"}},
	}
	svc := newTestService(t, mock)

	in := ListOrdersInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "valid_upstox_token",
		UseCache:    true,
	}

	first, err := svc.ListOrders(context.Background(), in)
	require.NoError(t, err)

	second, err := svc.ListOrders(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, mock.listCalls)
}

func TestListOrdersOptOutStillWritesThrough(t *testing.T) {
	mock := &mockBroker{
		listResult: []entity.Order{{OrderID: "ord-1", UserID: 1, Broker: "upstox"}},
	}
	svc := newTestService(t, mock)

	optedOut := ListOrdersInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "valid_upstox_token",
		UseCache:    false,
	}

	_, err := svc.ListOrders(context.Background(), optedOut)
	require.NoError(t, err)
	_, err = svc.ListOrders(context.Background(), optedOut)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.listCalls)

	optedIn := optedOut
	optedIn.UseCache = true
	_, err = svc.ListOrders(context.Background(), optedIn)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.listCalls)
}

func TestPlaceOrderInvalidatesListCache(t *testing.T) {
	mock := &mockBroker{
		listResult: []entity.Order{},
		placeResult: &entity.Order{
			OrderID: "ord-new",
			UserID:  1,
			Broker:  "upstox",
			Status:  entity.OrderStatusSuccess,
		},
	}
	svc := newTestService(t, mock)

	listIn := ListOrdersInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "valid_upstox_token",
		UseCache:    true,
	}

	_, err := svc.ListOrders(context.Background(), listIn)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.listCalls)

	_, err = svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "valid_upstox_token",
		Order:       marketOrder(),
	})
	require.NoError(t, err)

	mock.listResult = []entity.Order{{OrderID: "ord-new", UserID: 1, Broker: "upstox"}}

	orders, err := svc.ListOrders(context.Background(), listIn)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.listCalls, "placement must invalidate the cached list")
	require.Len(t, orders, 1)
	assert.Equal(t, "ord-new", orders[0].OrderID)
}

func TestPlaceOrderWritesThroughOrderCache(t *testing.T) {
	mock := &mockBroker{
		placeResult: &entity.Order{
			OrderID: "ord-1",
			UserID:  1,
			Broker:  "upstox",
			Status:  entity.OrderStatusSuccess,
		},
	}
	svc := newTestService(t, mock)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "valid_upstox_token",
		Order:       marketOrder(),
	})
	require.NoError(t, err)

	record, err := svc.GetOrder(context.Background(), GetOrderInput{
		Broker:      "upstox",
		UserID:      1,
		Credentials: "valid_upstox_token",
		OrderID:     "ord-1",
		UseCache:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, "ord-1", record.OrderID)
	assert.Zero(t, mock.getCalls, "write-through should serve the read")
}
