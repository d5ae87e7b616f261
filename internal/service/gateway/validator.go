package gateway

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ordergateway/internal/entity"
)

type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Rule)
}

// ValidateOrder checks a placement request against order-type rules.
// Pure: no I/O, first failing rule wins, in this precedence:
// tradingsymbol, quantity, order_type, price (LIMIT), trigger_price (SL).
func ValidateOrder(req entity.OrderRequest) (entity.ValidatedOrder, error) {
	symbol := strings.TrimSpace(req.TradingSymbol)
	if symbol == "" {
		return entity.ValidatedOrder{}, &ValidationError{Field: "tradingsymbol", Rule: "field is required"}
	}

	if req.Quantity <= 0 {
		return entity.ValidatedOrder{}, &ValidationError{Field: "quantity", Rule: "must be a positive integer"}
	}

	if !req.Type.Valid() {
		return entity.ValidatedOrder{}, &ValidationError{Field: "order_type", Rule: "must be one of MARKET, LIMIT, SL"}
	}

	validated := entity.ValidatedOrder{
		TradingSymbol: symbol,
		Quantity:      req.Quantity,
		Type:          req.Type,
	}

	if req.Type == entity.OrderTypeLimit {
		if req.Price == nil || !req.Price.GreaterThan(decimal.Zero) {
			return entity.ValidatedOrder{}, &ValidationError{Field: "price", Rule: "required and must be > 0 for LIMIT orders"}
		}

		validated.Price = *req.Price
	}

	if req.Type == entity.OrderTypeStopLoss {
		if req.TriggerPrice == nil || !req.TriggerPrice.GreaterThan(decimal.Zero) {
			return entity.ValidatedOrder{}, &ValidationError{Field: "trigger_price", Rule: "required and must be > 0 for SL orders"}
		}

		validated.TriggerPrice = *req.TriggerPrice
	}

	return validated, nil
}
