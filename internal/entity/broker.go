package entity

import (
	"context"
)

type BrokerName string

const (
	BrokerUpstox   BrokerName = "upstox"
	BrokerZerodha  BrokerName = "zerodha"
	BrokerShoonya  BrokerName = "shoonya"
	BrokerGroww    BrokerName = "groww"
	BrokerAngelOne BrokerName = "angelone"
	BrokerFyers    BrokerName = "fyers"
)

// Broker is the gateway's abstraction over one brokerage backend. The
// broker's own session handling and wire format live entirely behind
// this interface. Implementations must be safe for concurrent use.
type Broker interface {
	PlaceOrder(ctx context.Context, order ValidatedOrder, principal Principal) (*Order, error)
	ListOrders(ctx context.Context, principal Principal) ([]Order, error)
	GetOrder(ctx context.Context, principal Principal, orderID string) (*Order, error)
}
