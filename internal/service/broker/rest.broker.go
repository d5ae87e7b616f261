package broker

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ordergateway/internal/config"
	"ordergateway/internal/entity"
)

const (
	defaultBrokerTimeout    = 15 * time.Second
	defaultBrokerMaxRetries = 2
	brokerRetryBaseDelay    = 200 * time.Millisecond
	brokerRetryMaxBackoff   = 2 * time.Second
)

// RESTBroker talks to one brokerage backend over its REST bridge. The
// broker's session token is injected on every call; retries cover
// transport faults only, a response from the broker is always final.
type RESTBroker struct {
	name   string
	client *resty.Client
}

func NewRESTBroker(name string, cfg config.BrokerConfig) *RESTBroker {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultBrokerTimeout
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultBrokerMaxRetries
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(maxRetries).
		SetRetryWaitTime(brokerRetryBaseDelay).
		SetRetryMaxWaitTime(brokerRetryMaxBackoff).
		AddRetryCondition(isTransportFault).
		SetHeader("Authorization", "Bearer "+cfg.AccessToken)

	return &RESTBroker{
		name:   name,
		client: client,
	}
}

// isTransportFault keeps retries strictly at the transport level: a
// response from the broker, whatever its status, is never replayed
// because placement is not idempotent.
func isTransportFault(r *resty.Response, err error) bool {
	return err != nil
}

type wireOrder struct {
	OrderID       string           `json:"order_id"`
	TradingSymbol string           `json:"tradingsymbol"`
	Quantity      int64            `json:"quantity"`
	OrderType     string           `json:"order_type"`
	Price         *decimal.Decimal `json:"price"`
	TriggerPrice  *decimal.Decimal `json:"trigger_price"`
	Status        string           `json:"status"`
}

type wireOrderList struct {
	Orders []wireOrder `json:"orders"`
}

type wireError struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (e wireError) reason() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Message != "" {
		return e.Message
	}

	return "unknown error"
}

type wirePlaceOrder struct {
	TradingSymbol string           `json:"tradingsymbol"`
	Quantity      int64            `json:"quantity"`
	OrderType     string           `json:"order_type"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	TriggerPrice  *decimal.Decimal `json:"trigger_price,omitempty"`
}

func (b *RESTBroker) PlaceOrder(ctx context.Context, order entity.ValidatedOrder, principal entity.Principal) (*entity.Order, error) {
	body := wirePlaceOrder{
		TradingSymbol: order.TradingSymbol,
		Quantity:      order.Quantity,
		OrderType:     string(order.Type),
	}

	if order.Type == entity.OrderTypeLimit {
		price := order.Price
		body.Price = &price
	}
	if order.Type == entity.OrderTypeStopLoss {
		trigger := order.TriggerPrice
		body.TriggerPrice = &trigger
	}

	var (
		placed  wireOrder
		wireErr wireError
	)

	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParam("user_id", strconv.FormatInt(principal.UserID, 10)).
		SetBody(body).
		SetResult(&placed).
		SetError(&wireErr).
		Post("/orders")
	if err != nil {
		return nil, &TransportError{Broker: b.name, Err: err}
	}

	if resp.IsError() {
		logrus.WithFields(logrus.Fields{
			"broker":        b.name,
			"user_id":       principal.UserID,
			"tradingsymbol": order.TradingSymbol,
			"status_code":   resp.StatusCode(),
		}).Info("broker refused order placement")

		return nil, &RejectionError{Broker: b.name, Reason: wireErr.reason()}
	}

	record := mapWireOrder(placed, b.name, principal.UserID)
	if record.Status == "" {
		record.Status = entity.OrderStatusPending
	}

	logrus.WithFields(logrus.Fields{
		"broker":        b.name,
		"user_id":       principal.UserID,
		"order_id":      record.OrderID,
		"tradingsymbol": record.TradingSymbol,
		"order_status":  record.Status,
	}).Info("order placed")

	return &record, nil
}

func (b *RESTBroker) ListOrders(ctx context.Context, principal entity.Principal) ([]entity.Order, error) {
	var (
		list    wireOrderList
		wireErr wireError
	)

	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParam("user_id", strconv.FormatInt(principal.UserID, 10)).
		SetResult(&list).
		SetError(&wireErr).
		Get("/orders")
	if err != nil {
		return nil, &TransportError{Broker: b.name, Err: err}
	}

	if resp.IsError() {
		if resp.StatusCode() == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, wireErr.reason())
		}

		return nil, &RejectionError{Broker: b.name, Reason: wireErr.reason()}
	}

	orders := make([]entity.Order, 0, len(list.Orders))
	for _, raw := range list.Orders {
		orders = append(orders, mapWireOrder(raw, b.name, principal.UserID))
	}

	return orders, nil
}

func (b *RESTBroker) GetOrder(ctx context.Context, principal entity.Principal, orderID string) (*entity.Order, error) {
	var (
		raw     wireOrder
		wireErr wireError
	)

	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParam("user_id", strconv.FormatInt(principal.UserID, 10)).
		SetPathParam("order_id", orderID).
		SetResult(&raw).
		SetError(&wireErr).
		Get("/orders/{order_id}")
	if err != nil {
		return nil, &TransportError{Broker: b.name, Err: err}
	}

	if resp.IsError() {
		if resp.StatusCode() == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}

		return nil, &RejectionError{Broker: b.name, Reason: wireErr.reason()}
	}

	record := mapWireOrder(raw, b.name, principal.UserID)

	return &record, nil
}

func mapWireOrder(raw wireOrder, brokerName string, userID int64) entity.Order {
	return entity.Order{
		OrderID:       raw.OrderID,
		UserID:        userID,
		Broker:        brokerName,
		TradingSymbol: raw.TradingSymbol,
		Quantity:      raw.Quantity,
		Type:          entity.OrderType(raw.OrderType),
		Price:         raw.Price,
		TriggerPrice:  raw.TriggerPrice,
		Status:        entity.OrderStatus(raw.Status),
	}
}
