package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"mercadito/internal/middleware"
	"mercadito/internal/model"
	"mercadito/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order HTTP requests.
//
// Routes:
//
//	POST /api/orders                 create an order directly
//	POST /api/orders/checkout        create an order from a cart in checkout
//	GET  /api/orders                 list orders
//	GET  /api/orders/{id}            fetch an order
//	POST /api/orders/{id}/confirm    confirm a pending order
//	POST /api/orders/{id}/payment    record an approved payment
//	POST /api/orders/{id}/preparing  move into logistics preparation
//	POST /api/orders/{id}/ship       attach shipment info and dispatch
//	POST /api/orders/{id}/deliver    mark delivered
//	POST /api/orders/{id}/cancel     cancel with a reason
type OrderHandler struct {
	orders service.OrderService
	logger zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger.With().Str("handler", "order").Logger(),
	}
}

type confirmRequest struct {
	User string `json:"user"`
}

type paymentRequest struct {
	Reference string `json:"reference"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.orders.Create(r.Context(), &req)
	if err != nil {
		middleware.RecordOrderOperation("create", "error")
		writeError(w, err, h.logger)
		return
	}

	middleware.RecordOrderOperation("create", "success")
	writeJSON(w, http.StatusCreated, order)
}

// Checkout handles POST /api/orders/checkout requests.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.orders.CreateFromCart(r.Context(), &req)
	if err != nil {
		middleware.RecordOrderOperation("checkout", "error")
		writeError(w, err, h.logger)
		return
	}

	middleware.RecordOrderOperation("checkout", "success")
	writeJSON(w, http.StatusCreated, order)
}

// GetAll handles GET /api/orders requests.
func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetAll(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Confirm handles POST /api/orders/{id}/confirm requests.
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	// The body is optional; an omitted user defaults to "system".
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.User == "" {
		req.User = "system"
	}

	order, err := h.orders.Confirm(r.Context(), id, req.User)
	h.respondTransition(w, "confirm", order, err)
}

// ProcessPayment handles POST /api/orders/{id}/payment requests.
func (h *OrderHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.orders.ProcessPayment(r.Context(), id, req.Reference)
	h.respondTransition(w, "process_payment", order, err)
}

// MarkPreparing handles POST /api/orders/{id}/preparing requests.
func (h *OrderHandler) MarkPreparing(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.MarkPreparing(r.Context(), id)
	h.respondTransition(w, "mark_preparing", order, err)
}

// MarkShipped handles POST /api/orders/{id}/ship requests.
func (h *OrderHandler) MarkShipped(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req model.ShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	estimated, err := time.Parse(time.RFC3339, req.EstimatedDelivery)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidArgument,
			"estimatedDelivery must be RFC 3339", h.logger)
		return
	}

	info, err := model.NewShipmentInfo(req.Carrier, req.TrackingNumber, estimated)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	order, err := h.orders.MarkShipped(r.Context(), id, info)
	h.respondTransition(w, "mark_shipped", order, err)
}

// MarkDelivered handles POST /api/orders/{id}/deliver requests.
func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.MarkDelivered(r.Context(), id)
	h.respondTransition(w, "mark_delivered", order, err)
}

// Cancel handles POST /api/orders/{id}/cancel requests.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.orders.Cancel(r.Context(), id, req.Reason)
	h.respondTransition(w, "cancel", order, err)
}

// respondTransition records the operation outcome and writes the response
// for a lifecycle transition endpoint.
func (h *OrderHandler) respondTransition(w http.ResponseWriter, operation string, order *model.Order, err error) {
	if err != nil {
		middleware.RecordOrderOperation(operation, "error")
		writeError(w, err, h.logger)
		return
	}

	middleware.RecordOrderOperation(operation, "success")
	writeJSON(w, http.StatusOK, order)
}

// orderID extracts and parses the order ID path segment.
func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	idStr, _, _ := strings.Cut(rest, "/")
	if idStr == "" {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidArgument, "order ID is required", h.logger)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidArgument, "invalid order ID format", h.logger)
		return uuid.Nil, false
	}
	return id, true
}
