package entity

import (
	"github.com/shopspring/decimal"
)

type OrderType string
type OrderStatus string

const (
	OrderTypeMarket   OrderType = "MARKET"
	OrderTypeLimit    OrderType = "LIMIT"
	OrderTypeStopLoss OrderType = "SL"

	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusSuccess  OrderStatus = "SUCCESS"
	OrderStatusRejected OrderStatus = "REJECTED"
	OrderStatusError    OrderStatus = "ERROR"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeMarket, OrderTypeLimit, OrderTypeStopLoss:
		return true
	}

	return false
}

// OrderRequest is an inbound placement request before validation.
// Price and TriggerPrice stay nil when absent from the payload.
type OrderRequest struct {
	TradingSymbol string
	Quantity      int64
	Type          OrderType
	Price         *decimal.Decimal
	TriggerPrice  *decimal.Decimal
}

// ValidatedOrder is an OrderRequest that passed validation. It is not
// mutated after construction. Price is set only for LIMIT orders,
// TriggerPrice only for SL orders.
type ValidatedOrder struct {
	TradingSymbol string
	Quantity      int64
	Type          OrderType
	Price         decimal.Decimal
	TriggerPrice  decimal.Decimal
}

// Order is a snapshot of a broker-side order. The broker stays the
// source of truth; the gateway only holds transient cached copies.
type Order struct {
	OrderID       string           `json:"order_id"`
	UserID        int64            `json:"user_id"`
	Broker        string           `json:"broker"`
	TradingSymbol string           `json:"tradingsymbol"`
	Quantity      int64            `json:"quantity"`
	Type          OrderType        `json:"order_type"`
	Price         *decimal.Decimal `json:"price"`
	TriggerPrice  *decimal.Decimal `json:"trigger_price"`
	Status        OrderStatus      `json:"status"`
}

// Principal is the authenticated identity a request acts as. Derived
// from request credentials, never persisted.
type Principal struct {
	UserID int64
	Broker string
}
