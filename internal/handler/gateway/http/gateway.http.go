package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"ordergateway/internal/apierror"
	"ordergateway/internal/entity"
	"ordergateway/internal/service/gateway"
)

type PlaceOrderRequest struct {
	TradingSymbol string           `json:"tradingsymbol"`
	Quantity      int64            `json:"quantity"`
	OrderType     string           `json:"order_type"`
	Price         *decimal.Decimal `json:"price"`
	TriggerPrice  *decimal.Decimal `json:"trigger_price"`
}

type PlaceOrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type OrderResponse struct {
	OrderID       string      `json:"order_id"`
	UserID        int64       `json:"user_id"`
	Broker        string      `json:"broker"`
	TradingSymbol string      `json:"tradingsymbol"`
	Quantity      int64       `json:"quantity"`
	OrderType     string      `json:"order_type"`
	Price         null.String `json:"price"`
	TriggerPrice  null.String `json:"trigger_price"`
	Status        string      `json:"status"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type MetadataResponse struct {
	AvailableBrokers []string `json:"available_brokers"`
}

// ErrorResponse is the wire shape of every non-2xx body. Status
// mirrors the numeric HTTP status code.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Path    string `json:"path"`
}

type Handler struct {
	gatewayService *gateway.Service
}

func NewGatewayHTTPHandler(gatewayService *gateway.Service) *Handler {
	return &Handler{gatewayService: gatewayService}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Metadata)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /orders", h.PlaceOrder)
	mux.HandleFunc("GET /orders", h.ListOrders)
	mux.HandleFunc("GET /orders/{order_id}", h.GetOrder)
}

func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MetadataResponse{
		AvailableBrokers: h.gatewayService.Brokers(),
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	broker, userID, useCache, paramErr := targetParams(r)
	_ = useCache // placements always go live; the flag only matters for reads
	if paramErr != nil {
		writeError(w, r, paramErr)
		return
	}

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apierror.Validation("body", "invalid json payload"))
		return
	}

	record, err := h.gatewayService.PlaceOrder(r.Context(), gateway.PlaceOrderInput{
		Broker:      broker,
		UserID:      userID,
		Credentials: resolveCredentials(r),
		Order: entity.OrderRequest{
			TradingSymbol: req.TradingSymbol,
			Quantity:      req.Quantity,
			Type:          entity.OrderType(strings.ToUpper(strings.TrimSpace(req.OrderType))),
			Price:         req.Price,
			TriggerPrice:  req.TriggerPrice,
		},
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, PlaceOrderResponse{
		OrderID: record.OrderID,
		Status:  string(record.Status),
	})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	broker, userID, useCache, paramErr := targetParams(r)
	if paramErr != nil {
		writeError(w, r, paramErr)
		return
	}

	orders, err := h.gatewayService.ListOrders(r.Context(), gateway.ListOrdersInput{
		Broker:      broker,
		UserID:      userID,
		Credentials: resolveCredentials(r),
		UseCache:    useCache,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := ListOrdersResponse{Orders: make([]OrderResponse, 0, len(orders))}
	for _, record := range orders {
		resp.Orders = append(resp.Orders, mapOrderToResponse(record))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	broker, userID, useCache, paramErr := targetParams(r)
	if paramErr != nil {
		writeError(w, r, paramErr)
		return
	}

	record, err := h.gatewayService.GetOrder(r.Context(), gateway.GetOrderInput{
		Broker:      broker,
		UserID:      userID,
		Credentials: resolveCredentials(r),
		OrderID:     r.PathValue("order_id"),
		UseCache:    useCache,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(*record))
}

func mapOrderToResponse(record entity.Order) OrderResponse {
	price := null.String{}
	if record.Price != nil {
		price = null.StringFrom(record.Price.String())
	}

	triggerPrice := null.String{}
	if record.TriggerPrice != nil {
		triggerPrice = null.StringFrom(record.TriggerPrice.String())
	}

	return OrderResponse{
		OrderID:       record.OrderID,
		UserID:        record.UserID,
		Broker:        record.Broker,
		TradingSymbol: record.TradingSymbol,
		Quantity:      record.Quantity,
		OrderType:     string(record.Type),
		Price:         price,
		TriggerPrice:  triggerPrice,
		Status:        string(record.Status),
	}
}

// targetParams reads the broker/user/cache addressing shared by every
// order endpoint. Malformed addressing is a validation failure before
// anything else can run.
func targetParams(r *http.Request) (string, int64, bool, *apierror.Error) {
	query := r.URL.Query()

	broker := strings.TrimSpace(query.Get("broker"))
	if broker == "" {
		return "", 0, false, apierror.Validation("broker", "query parameter is required")
	}

	rawUserID := strings.TrimSpace(query.Get("user_id"))
	if rawUserID == "" {
		return "", 0, false, apierror.Validation("user_id", "query parameter is required")
	}

	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil {
		return "", 0, false, apierror.Validation("user_id", "must be an integer")
	}

	useCache := false
	if rawUseCache := strings.TrimSpace(query.Get("use_cache")); rawUseCache != "" {
		parsed, err := strconv.ParseBool(rawUseCache)
		if err != nil {
			return "", 0, false, apierror.Validation("use_cache", "must be a boolean")
		}
		useCache = parsed
	}

	return broker, userID, useCache, nil
}

func resolveCredentials(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get("X-Auth-Token")); token != "" {
		return token
	}

	authorization := strings.TrimSpace(r.Header.Get("Authorization"))
	if rest, ok := strings.CutPrefix(authorization, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}

	return ""
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apierror.Error
	if !errors.As(err, &apiErr) {
		apiErr = apierror.Internal(uuid.NewString())
	}

	writeError(w, r, apiErr)
}

func writeError(w http.ResponseWriter, r *http.Request, apiErr *apierror.Error) {
	writeJSON(w, apiErr.Status, ErrorResponse{
		Status:  apiErr.Status,
		Message: apiErr.Message,
		Detail:  apiErr.Detail,
		Path:    r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
