package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"mercadito/internal/middleware"
	"mercadito/internal/model"
	"mercadito/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests.
//
// Routes:
//
//	POST   /api/carts                          create a cart
//	GET    /api/carts/{id}                     fetch a cart
//	POST   /api/carts/{id}/items               add a product
//	PUT    /api/carts/{id}/items/{productId}   change a line's quantity
//	DELETE /api/carts/{id}/items/{productId}   remove a product
//	DELETE /api/carts/{id}/items               clear the cart
//	POST   /api/carts/{id}/checkout            start checkout
//	POST   /api/carts/{id}/complete            complete a checkout
//	POST   /api/carts/{id}/abandon             abandon a checkout
type CartHandler struct {
	carts  service.CartService
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

type createCartRequest struct {
	CustomerID string `json:"customerId"`
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Create handles POST /api/carts requests.
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	cart, err := h.carts.Create(r.Context(), req.CustomerID)
	if err != nil {
		middleware.RecordCartOperation("create", "error")
		writeError(w, err, h.logger)
		return
	}

	middleware.RecordCartOperation("create", "success")
	writeJSON(w, http.StatusCreated, cart)
}

// GetByID handles GET /api/carts/{id} requests.
func (h *CartHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/carts/{id}/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	cart, err := h.carts.AddProduct(r.Context(), id, req.ProductID, req.Quantity)
	h.respondCart(w, "add_item", cart, err)
}

// UpdateItem handles PUT /api/carts/{id}/items/{productId} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	cart, err := h.carts.ChangeQuantity(r.Context(), id, productID, req.Quantity)
	h.respondCart(w, "update_item", cart, err)
}

// RemoveItem handles DELETE /api/carts/{id}/items/{productId} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.RemoveProduct(r.Context(), id, productID)
	h.respondCart(w, "remove_item", cart, err)
}

// Clear handles DELETE /api/carts/{id}/items requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.Clear(r.Context(), id)
	h.respondCart(w, "clear", cart, err)
}

// StartCheckout handles POST /api/carts/{id}/checkout requests.
func (h *CartHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.StartCheckout(r.Context(), id)
	h.respondCart(w, "start_checkout", cart, err)
}

// CompleteCheckout handles POST /api/carts/{id}/complete requests.
func (h *CartHandler) CompleteCheckout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.CompleteCheckout(r.Context(), id)
	h.respondCart(w, "complete_checkout", cart, err)
}

// Abandon handles POST /api/carts/{id}/abandon requests.
func (h *CartHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cartID(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.Abandon(r.Context(), id)
	h.respondCart(w, "abandon", cart, err)
}

// respondCart records the operation outcome and writes the response for a
// cart mutation endpoint.
func (h *CartHandler) respondCart(w http.ResponseWriter, operation string, cart *model.Cart, err error) {
	if err != nil {
		middleware.RecordCartOperation(operation, "error")
		writeError(w, err, h.logger)
		return
	}

	middleware.RecordCartOperation(operation, "success")
	writeJSON(w, http.StatusOK, cart)
}

// cartID extracts and parses the cart ID path segment.
func (h *CartHandler) cartID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/carts/")
	idStr, _, _ := strings.Cut(rest, "/")
	if idStr == "" {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidArgument, "cart ID is required", h.logger)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidArgument, "invalid cart ID format", h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// productID extracts the product ID segment after /items/.
func (h *CartHandler) productID(w http.ResponseWriter, r *http.Request) (string, bool) {
	_, productID, found := strings.Cut(r.URL.Path, "/items/")
	if !found || productID == "" || strings.Contains(productID, "/") {
		writeErrorCode(w, http.StatusBadRequest, model.ErrCodeInvalidArgument, "product ID is required", h.logger)
		return "", false
	}
	return productID, true
}
