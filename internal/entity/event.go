package entity

type OrderPlacedEvent struct {
	Broker        string      `json:"broker"`
	UserID        int64       `json:"user_id"`
	OrderID       string      `json:"order_id"`
	TradingSymbol string      `json:"tradingsymbol"`
	Quantity      int64       `json:"quantity"`
	Type          OrderType   `json:"order_type"`
	Status        OrderStatus `json:"status"`
	PlacedAt      int64       `json:"placed_at"`
}
