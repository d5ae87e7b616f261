package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"ordergateway/internal/entity"
)

// PaperBroker fills every order in-process. Registered for brokers
// configured without a base_url so the gateway can run all backends
// without live credentials.
type PaperBroker struct {
	name string

	mu    sync.RWMutex
	books map[int64][]entity.Order
}

func NewPaperBroker(name string) *PaperBroker {
	return &PaperBroker{
		name:  name,
		books: make(map[int64][]entity.Order),
	}
}

func (b *PaperBroker) PlaceOrder(ctx context.Context, order entity.ValidatedOrder, principal entity.Principal) (*entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record := entity.Order{
		OrderID:       fmt.Sprintf("%s-%s", b.name, uuid.NewString()),
		UserID:        principal.UserID,
		Broker:        b.name,
		TradingSymbol: order.TradingSymbol,
		Quantity:      order.Quantity,
		Type:          order.Type,
		Status:        entity.OrderStatusSuccess,
	}

	if order.Type == entity.OrderTypeLimit {
		price := order.Price
		record.Price = &price
	}
	if order.Type == entity.OrderTypeStopLoss {
		trigger := order.TriggerPrice
		record.TriggerPrice = &trigger
	}

	b.mu.Lock()
	b.books[principal.UserID] = append(b.books[principal.UserID], record)
	b.mu.Unlock()

	return &record, nil
}

func (b *PaperBroker) ListOrders(ctx context.Context, principal entity.Principal) ([]entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	orders := make([]entity.Order, len(b.books[principal.UserID]))
	copy(orders, b.books[principal.UserID])

	return orders, nil
}

func (b *PaperBroker) GetOrder(ctx context.Context, principal entity.Principal, orderID string) (*entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, record := range b.books[principal.UserID] {
		if record.OrderID == orderID {
			found := record
			return &found, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
}
