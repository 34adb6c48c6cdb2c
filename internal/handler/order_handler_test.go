package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercadito/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testOrder(t *testing.T) *model.Order {
	t.Helper()
	addr, err := model.NewShippingAddress("Ana Torres", "Av. Reforma 123", "Ciudad de México",
		"CDMX", "06600", "México", "5512345678", "")
	require.NoError(t, err)
	line, err := model.NewOrderLine("p1", "Camiseta azul", "SKU-p1", 2, model.MXN(500))
	require.NoError(t, err)
	order, err := model.NewOrder("cust-1", "ORD-1", []model.OrderLine{line}, addr, model.Money{})
	require.NoError(t, err)
	return order
}

const orderBody = `{
	"customerId": "cust-1",
	"items": [{"productId": "p1", "productName": "Camiseta azul", "sku": "SKU-p1", "quantity": 2, "unitPrice": {"amount": "500", "currency": "MXN"}}],
	"shippingAddress": {
		"recipientName": "Ana Torres",
		"street": "Av. Reforma 123",
		"city": "Ciudad de México",
		"state": "CDMX",
		"postalCode": "06600",
		"country": "México",
		"phone": "5512345678"
	}
}`

func TestOrderHandler_Create(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandler(orders, zerolog.Nop())

	order := testOrder(t)
	orders.On("Create", mock.Anything, mock.AnythingOfType("*model.OrderRequest")).Return(order, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(orderBody))
	w := httptest.NewRecorder()

	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var got model.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, model.OrderStatusPending, got.Status)
}

func TestOrderHandler_Create_InvalidJSON(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandler(orders, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`not json`))
	w := httptest.NewRecorder()

	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderHandler_Checkout(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandler(orders, zerolog.Nop())

	order := testOrder(t)
	cartID := uuid.New()
	orders.On("CreateFromCart", mock.Anything, mock.AnythingOfType("*model.CheckoutRequest")).Return(order, nil)

	body := `{"cartId": "` + cartID.String() + `", "shippingAddress": {
		"recipientName": "Ana Torres", "street": "Av. Reforma 123", "city": "Ciudad de México",
		"state": "CDMX", "postalCode": "06600", "country": "México", "phone": "5512345678"}}`

	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Checkout(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	orders.AssertExpectations(t)
}

func TestOrderHandler_GetByID_BadID(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandler(orders, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/orders/not-a-uuid", nil)
	w := httptest.NewRecorder()

	h.GetByID(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orders.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestOrderHandler_Confirm(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandler(orders, zerolog.Nop())

	order := testOrder(t)
	require.NoError(t, order.Confirm("cust-1"))
	orders.On("Confirm", mock.Anything, order.ID, "cust-1").Return(order, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/orders/"+order.ID.String()+"/confirm",
		strings.NewReader(`{"user":"cust-1"}`))
	w := httptest.NewRecorder()

	h.Confirm(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got model.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, model.OrderStatusConfirmed, got.Status)
}

func TestOrderHandler_Confirm_WrongState(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandler(orders, zerolog.Nop())

	id := uuid.New()
	orders.On("Confirm", mock.Anything, id, "system").
		Return(nil, model.InvalidState("order can only be confirmed from PENDING"))

	req := httptest.NewRequest(http.MethodPost, "/api/orders/"+id.String()+"/confirm",
		strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h.Confirm(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, model.ErrCodeInvalidState, resp.Error)
}

func TestOrderHandler_MarkShipped(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandler(orders, zerolog.Nop())

	order := testOrder(t)
	orders.On("MarkShipped", mock.Anything, order.ID, mock.AnythingOfType("model.ShipmentInfo")).Return(order, nil)

	body := `{"carrier": "Estafeta", "trackingNumber": "EST1234567890", "estimatedDelivery": "2026-09-10T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/"+order.ID.String()+"/ship",
		strings.NewReader(body))
	w := httptest.NewRecorder()

	h.MarkShipped(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	orders.AssertExpectations(t)
}

func TestOrderHandler_MarkShipped_BadDate(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandler(orders, zerolog.Nop())

	id := uuid.New()
	body := `{"carrier": "Estafeta", "trackingNumber": "EST1234567890", "estimatedDelivery": "mañana"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/"+id.String()+"/ship",
		strings.NewReader(body))
	w := httptest.NewRecorder()

	h.MarkShipped(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orders.AssertNotCalled(t, "MarkShipped", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_MarkShipped_ShortTracking(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandler(orders, zerolog.Nop())

	id := uuid.New()
	body := `{"carrier": "Estafeta", "trackingNumber": "SHORT", "estimatedDelivery": "2026-09-10T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/"+id.String()+"/ship",
		strings.NewReader(body))
	w := httptest.NewRecorder()

	h.MarkShipped(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	orders.AssertNotCalled(t, "MarkShipped", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_Cancel(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandler(orders, zerolog.Nop())

	order := testOrder(t)
	orders.On("Cancel", mock.Anything, order.ID, "cliente cambió de opinión").Return(order, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/orders/"+order.ID.String()+"/cancel",
		strings.NewReader(`{"reason":"cliente cambió de opinión"}`))
	w := httptest.NewRecorder()

	h.Cancel(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	orders.AssertExpectations(t)
}
