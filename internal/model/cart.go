package model

import (
	"strings"

	"github.com/google/uuid"
)

// CartStatus describes the cart lifecycle.
type CartStatus string

const (
	CartStatusActive     CartStatus = "ACTIVE"
	CartStatusInCheckout CartStatus = "IN_CHECKOUT"
	CartStatusCompleted  CartStatus = "COMPLETED"
	CartStatusAbandoned  CartStatus = "ABANDONED"
)

// ProductRef is the slice of catalog truth a cart needs when adding a
// product: its identity and the unit price at the time of addition.
type ProductRef struct {
	ProductID string
	UnitPrice Money
}

// CartLine is one product inside a cart. A product appears at most once; the
// unit price is a snapshot taken when the product was first added.
type CartLine struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice Money     `json:"unitPrice" db:"unit_price"`
}

// Subtotal returns unit price times quantity.
func (l CartLine) Subtotal() (Money, error) {
	return l.UnitPrice.Multiply(l.Quantity)
}

// Cart is the aggregate root for one customer's shopping session. All
// mutating operations require ACTIVE status except the checkout transitions.
type Cart struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	CustomerID string     `json:"customerId" db:"customer_id"`
	Status     CartStatus `json:"status" db:"status"`
	Lines      []CartLine `json:"lines"`
}

// NewCart creates an ACTIVE cart for a customer.
func NewCart(id uuid.UUID, customerID string) (*Cart, error) {
	if id == uuid.Nil {
		return nil, InvalidArgument("cart id must be set")
	}
	if strings.TrimSpace(customerID) == "" {
		return nil, InvalidArgument("customer id must not be blank")
	}
	return &Cart{
		ID:         id,
		CustomerID: customerID,
		Status:     CartStatusActive,
	}, nil
}

// AddProduct adds quantity units of a product. If the product is already in
// the cart its line quantity accumulates; otherwise a new line is appended at
// the given unit price.
func (c *Cart) AddProduct(ref ProductRef, quantity int) error {
	if err := c.requireActive(); err != nil {
		return err
	}
	if quantity <= 0 {
		return InvalidArgument("quantity must be greater than zero")
	}
	if strings.TrimSpace(ref.ProductID) == "" {
		return InvalidArgument("product reference must not be blank")
	}

	if i := c.lineIndex(ref.ProductID); i >= 0 {
		c.Lines[i].Quantity += quantity
		return nil
	}

	c.Lines = append(c.Lines, CartLine{
		ID:        uuid.New(),
		ProductID: ref.ProductID,
		Quantity:  quantity,
		UnitPrice: ref.UnitPrice,
	})
	return nil
}

// ChangeQuantity replaces the quantity of an existing line.
func (c *Cart) ChangeQuantity(productID string, newQuantity int) error {
	if err := c.requireActive(); err != nil {
		return err
	}
	if newQuantity <= 0 {
		return InvalidArgument("quantity must be greater than zero")
	}

	i := c.lineIndex(productID)
	if i < 0 {
		return NotFound("product not found in cart")
	}
	c.Lines[i].Quantity = newQuantity
	return nil
}

// RemoveProduct removes a line. Removing an absent product is a no-op.
func (c *Cart) RemoveProduct(productID string) error {
	if err := c.requireActive(); err != nil {
		return err
	}
	if i := c.lineIndex(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
	return nil
}

// Clear removes every line.
func (c *Cart) Clear() error {
	if err := c.requireActive(); err != nil {
		return err
	}
	c.Lines = nil
	return nil
}

// Total sums all line subtotals.
func (c *Cart) Total() (Money, error) {
	total := Zero(DefaultCurrency)
	if len(c.Lines) > 0 {
		total = Zero(c.Lines[0].UnitPrice.Currency)
	}
	for _, line := range c.Lines {
		subtotal, err := line.Subtotal()
		if err != nil {
			return Money{}, err
		}
		sum, err := total.Add(subtotal)
		if err != nil {
			return Money{}, err
		}
		total = sum
	}
	return total, nil
}

// StartCheckout moves an ACTIVE, non-empty cart with a positive total into
// IN_CHECKOUT.
func (c *Cart) StartCheckout() error {
	if c.Status != CartStatusActive {
		return InvalidState("checkout can only start on an active cart")
	}
	if len(c.Lines) == 0 {
		return InvalidState("checkout cannot start on an empty cart")
	}
	total, err := c.Total()
	if err != nil {
		return err
	}
	if !total.IsPositive() {
		return InvalidState("cart total must be greater than zero to start checkout")
	}
	c.Status = CartStatusInCheckout
	return nil
}

// CompleteCheckout retires an IN_CHECKOUT cart as COMPLETED. A completed
// cart is never reused.
func (c *Cart) CompleteCheckout() error {
	if c.Status != CartStatusInCheckout {
		return InvalidState("only a cart in checkout can be completed")
	}
	c.Status = CartStatusCompleted
	return nil
}

// Abandon retires an IN_CHECKOUT cart as ABANDONED.
func (c *Cart) Abandon() error {
	if c.Status != CartStatusInCheckout {
		return InvalidState("only a cart in checkout can be abandoned")
	}
	c.Status = CartStatusAbandoned
	return nil
}

func (c *Cart) requireActive() error {
	if c.Status != CartStatusActive {
		return InvalidState("cart is not active")
	}
	return nil
}

func (c *Cart) lineIndex(productID string) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
