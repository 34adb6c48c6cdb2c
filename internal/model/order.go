package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus describes where an order sits in its lifecycle.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "PENDING"
	OrderStatusConfirmed        OrderStatus = "CONFIRMED"
	OrderStatusPaymentProcessed OrderStatus = "PAYMENT_PROCESSED"
	OrderStatusPreparing        OrderStatus = "PREPARING"
	OrderStatusShipped          OrderStatus = "SHIPPED"
	OrderStatusInTransit        OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered        OrderStatus = "DELIVERED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
)

// minCancelReasonLen keeps cancellation motives meaningful for the audit
// trail.
const minCancelReasonLen = 10

// StatusChange is one append-only audit record per status transition. From is
// nil only if a record ever describes the initial status; history starts
// empty, so in practice the first entry carries PENDING as From.
type StatusChange struct {
	ID   uuid.UUID    `json:"-" db:"id"`
	From *OrderStatus `json:"from" db:"previous_status"`
	To   OrderStatus  `json:"to" db:"new_status"`
	At   time.Time    `json:"at" db:"changed_at"`
	// Reason holds the transition motive, e.g. the cancellation reason.
	Reason string `json:"reason" db:"reason"`
	User   string `json:"user" db:"changed_by"`
}

// OrderLine is one purchased position. Product name, SKU and unit price are
// captured at purchase time and stay independent of later catalog changes.
type OrderLine struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProductID   string    `json:"productId" db:"product_id"`
	ProductName string    `json:"productName" db:"product_name"`
	SKU         string    `json:"sku" db:"sku"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   Money     `json:"unitPrice" db:"unit_price"`
	Subtotal    Money     `json:"subtotal" db:"subtotal"`
}

// NewOrderLine validates and creates an order line with its subtotal
// precomputed.
func NewOrderLine(productID, productName, sku string, quantity int, unitPrice Money) (OrderLine, error) {
	if strings.TrimSpace(productID) == "" {
		return OrderLine{}, InvalidArgument("product id must not be blank")
	}
	if strings.TrimSpace(productName) == "" {
		return OrderLine{}, InvalidArgument("product name must not be blank")
	}
	if quantity <= 0 {
		return OrderLine{}, InvalidArgument("quantity must be greater than zero")
	}

	subtotal, err := unitPrice.Multiply(quantity)
	if err != nil {
		return OrderLine{}, err
	}

	return OrderLine{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: productName,
		SKU:         sku,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    subtotal,
	}, nil
}

// Order is the aggregate root for a confirmed purchase. Lines are fixed at
// creation; only the status (and the values a transition attaches) mutates,
// and only through the lifecycle methods below.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Number          string          `json:"number" db:"order_number"`
	CustomerID      string          `json:"customerId" db:"customer_id"`
	Lines           []OrderLine     `json:"lines"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Payment         *PaymentSummary `json:"payment,omitempty"`
	Shipment        *ShipmentInfo   `json:"shipment,omitempty"`
	Subtotal        Money           `json:"subtotal"`
	Discount        Money           `json:"discount"`
	Total           Money           `json:"total"`
	Status          OrderStatus     `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	History         []StatusChange  `json:"history"`
}

// NewOrder creates an order in PENDING status. The total is recomputed from
// the lines minus the discount and must be strictly positive. No history
// entry is recorded for the initial status.
func NewOrder(customerID, number string, lines []OrderLine, address ShippingAddress, discount Money) (*Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, InvalidArgument("customer id must not be blank")
	}
	if strings.TrimSpace(number) == "" {
		return nil, InvalidArgument("order number must not be blank")
	}
	if len(lines) == 0 {
		return nil, InvalidArgument("order must contain at least one line")
	}

	subtotal := Zero(lines[0].UnitPrice.Currency)
	for _, line := range lines {
		sum, err := subtotal.Add(line.Subtotal)
		if err != nil {
			return nil, err
		}
		subtotal = sum
	}

	// A zero-value discount means "no discount" in the subtotal's currency.
	if discount.Currency == "" && discount.Amount.IsZero() {
		discount = Zero(subtotal.Currency)
	}

	total, err := subtotal.SubtractStrict(discount)
	if err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		return nil, InvalidArgument("order total must be greater than zero")
	}

	return &Order{
		ID:              uuid.New(),
		Number:          number,
		CustomerID:      customerID,
		Lines:           append([]OrderLine(nil), lines...),
		ShippingAddress: address,
		Subtotal:        subtotal,
		Discount:        discount,
		Total:           total,
		Status:          OrderStatusPending,
		CreatedAt:       time.Now(),
	}, nil
}

// Confirm moves a PENDING order to CONFIRMED.
func (o *Order) Confirm(user string) error {
	if o.Status != OrderStatusPending {
		return InvalidState("only a PENDING order can be confirmed")
	}
	o.recordTransition(OrderStatusConfirmed, "order confirmed by user", user)
	return nil
}

// ProcessPayment attaches an approved payment to a CONFIRMED order and moves
// it to PAYMENT_PROCESSED.
func (o *Order) ProcessPayment(method, reference, user string) error {
	if o.Status != OrderStatusConfirmed {
		return InvalidState("payment can only be processed on a CONFIRMED order")
	}
	summary, err := NewPaymentSummary(method, reference, PaymentStatusApproved, time.Now())
	if err != nil {
		return err
	}

	o.Payment = &summary
	o.recordTransition(OrderStatusPaymentProcessed, "payment approved and processed", user)
	return nil
}

// MarkPreparing moves a PAYMENT_PROCESSED order to PREPARING.
func (o *Order) MarkPreparing(user string) error {
	if o.Status != OrderStatusPaymentProcessed {
		return InvalidState("order can only be prepared after payment is processed")
	}
	o.recordTransition(OrderStatusPreparing, "order in logistics preparation", user)
	return nil
}

// MarkShipped attaches shipment information to a PREPARING order and moves it
// to SHIPPED.
func (o *Order) MarkShipped(info ShipmentInfo, user string) error {
	if o.Status != OrderStatusPreparing {
		return InvalidState("only a PREPARING order can be shipped")
	}
	if len(info.TrackingNumber) < minTrackingNumberLen {
		return InvalidArgument("tracking number must be at least 10 characters")
	}

	o.Shipment = &info
	o.recordTransition(OrderStatusShipped, "order dispatched and on its way", user)
	return nil
}

// MarkDelivered moves a SHIPPED or IN_TRANSIT order to DELIVERED.
func (o *Order) MarkDelivered(user string) error {
	if o.Status != OrderStatusShipped && o.Status != OrderStatusInTransit {
		return InvalidState("only a SHIPPED or IN_TRANSIT order can be delivered")
	}
	o.recordTransition(OrderStatusDelivered, "order delivered", user)
	return nil
}

// Cancel moves any order that has not shipped to CANCELLED, recording the
// reason as the transition motive.
func (o *Order) Cancel(reason, user string) error {
	if o.Status == OrderStatusShipped || o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled {
		return InvalidState("a shipped, delivered or cancelled order cannot be cancelled")
	}
	if strings.TrimSpace(reason) == "" {
		return InvalidArgument("a cancellation reason must be provided")
	}
	if len(reason) < minCancelReasonLen {
		return InvalidArgument("cancellation reason must be at least 10 characters")
	}

	o.recordTransition(OrderStatusCancelled, reason, user)
	return nil
}

// IsTerminal reports whether the order reached a final status.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

func (o *Order) recordTransition(next OrderStatus, reason, user string) {
	previous := o.Status
	o.History = append(o.History, StatusChange{
		ID:     uuid.New(),
		From:   &previous,
		To:     next,
		At:     time.Now(),
		Reason: reason,
		User:   user,
	})
	o.Status = next
}
