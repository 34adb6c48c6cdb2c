package model

import "github.com/google/uuid"

// AddressRequest carries raw shipping address fields. Validation happens in
// NewShippingAddress, not here.
type AddressRequest struct {
	RecipientName string `json:"recipientName"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
	Phone         string `json:"phone"`
	Instructions  string `json:"instructions,omitempty"`
}

// Address constructs the validated value object from the raw fields.
func (r AddressRequest) Address() (ShippingAddress, error) {
	return NewShippingAddress(r.RecipientName, r.Street, r.City, r.State,
		r.PostalCode, r.Country, r.Phone, r.Instructions)
}

// OrderItemRequest is a single line in a direct order creation request. The
// caller supplies the purchase-time snapshot, original catalog truth included.
type OrderItemRequest struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unitPrice"`
}

// OrderRequest is the payload for creating an order directly.
type OrderRequest struct {
	CustomerID      string             `json:"customerId"`
	Number          string             `json:"number,omitempty"`
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress AddressRequest     `json:"shippingAddress"`
	Discount        *Money             `json:"discount,omitempty"`
	DiscountCode    *string            `json:"discountCode,omitempty"`
}

// CheckoutRequest is the payload for creating an order from a cart.
type CheckoutRequest struct {
	CartID          uuid.UUID      `json:"cartId"`
	ShippingAddress AddressRequest `json:"shippingAddress"`
}

// ShipmentRequest carries the dispatch details for marking an order shipped.
type ShipmentRequest struct {
	Carrier           string `json:"carrier"`
	TrackingNumber    string `json:"trackingNumber"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}
