package gateway

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordergateway/internal/entity"
)

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func TestValidateOrder(t *testing.T) {
	tests := []struct {
		name      string
		req       entity.OrderRequest
		wantField string
	}{
		{
			name: "valid market order",
			req: entity.OrderRequest{
				TradingSymbol: "INFY",
				Quantity:      10,
				Type:          entity.OrderTypeMarket,
			},
		},
		{
			name: "valid limit order",
			req: entity.OrderRequest{
				TradingSymbol: "INFY",
				Quantity:      10,
				Type:          entity.OrderTypeLimit,
				Price:         decimalPtr("1500"),
			},
		},
		{
			name: "valid stop loss order",
			req: entity.OrderRequest{
				TradingSymbol: "INFY",
				Quantity:      10,
				Type:          entity.OrderTypeStopLoss,
				TriggerPrice:  decimalPtr("1450.5"),
			},
		},
		{
			name: "missing tradingsymbol",
			req: entity.OrderRequest{
				Quantity: 10,
				Type:     entity.OrderTypeMarket,
			},
			wantField: "tradingsymbol",
		},
		{
			name: "blank tradingsymbol",
			req: entity.OrderRequest{
				TradingSymbol: "   ",
				Quantity:      10,
				Type:          entity.OrderTypeMarket,
			},
			wantField: "tradingsymbol",
		},
		{
			name: "zero quantity",
			req: entity.OrderRequest{
				TradingSymbol: "INFY",
				Quantity:      0,
				Type:          entity.OrderTypeLimit,
				Price:         decimalPtr("1500"),
			},
			wantField: "quantity",
		},
		{
			name: "negative quantity",
			req: entity.OrderRequest{
				TradingSymbol: "INFY",
				Quantity:      -5,
				Type:          entity.OrderTypeMarket,
			},
			wantField: "quantity",
		},
		{
			name: "unknown order type",
			req: entity.OrderRequest{
				TradingSymbol: "INFY",
				Quantity:      10,
				Type:          entity.OrderType("INVALID"),
			},
			wantField: "order_type",
		},
		{
			name: "limit order without price",
			req: entity.OrderRequest{
				TradingSymbol: "INFY",
				Quantity:      10,
				Type:          entity.OrderTypeLimit,
			},
			wantField: "price",
		},
		{
			name: "limit order with zero price",
			req: entity.OrderRequest{
				TradingSymbol: "INFY",
				Quantity:      10,
				Type:          entity.OrderTypeLimit,
				Price:         decimalPtr("0"),
			},
			wantField: "price",
		},
		{
			name: "limit order with negative price",
			req: entity.OrderRequest{
				TradingSymbol: "INFY",
				Quantity:      10,
				Type:          entity.OrderTypeLimit,
				Price:         decimalPtr("-1"),
			},
			wantField: "price",
		},
		{
			name: "stop loss without trigger price",
			req: entity.OrderRequest{
				TradingSymbol: "INFY",
				Quantity:      10,
				Type:          entity.OrderTypeStopLoss,
			},
			wantField: "trigger_price",
		},
		{
			name: "stop loss with zero trigger price",
			req: entity.OrderRequest{
				TradingSymbol: "INFY",
				Quantity:      10,
				Type:          entity.OrderTypeStopLoss,
				TriggerPrice:  decimalPtr("0"),
			},
			wantField: "trigger_price",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			validated, err := ValidateOrder(tc.req)

			if tc.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tc.req.Quantity, validated.Quantity)
				assert.Equal(t, tc.req.Type, validated.Type)
				return
			}

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.wantField, vErr.Field)
		})
	}
}

func TestValidateOrderPrecedence(t *testing.T) {
	// quantity outranks the missing price even though both are wrong
	req := entity.OrderRequest{
		TradingSymbol: "INFY",
		Quantity:      -5,
		Type:          entity.OrderTypeLimit,
	}

	var vErr *ValidationError
	_, err := ValidateOrder(req)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "quantity", vErr.Field)
}

func TestValidateOrderIgnoresIrrelevantPrices(t *testing.T) {
	validated, err := ValidateOrder(entity.OrderRequest{
		TradingSymbol: " INFY ",
		Quantity:      10,
		Type:          entity.OrderTypeMarket,
		Price:         decimalPtr("1500"),
	})

	require.NoError(t, err)
	assert.Equal(t, "INFY", validated.TradingSymbol)
	assert.True(t, validated.Price.IsZero())
	assert.True(t, validated.TriggerPrice.IsZero())
}
