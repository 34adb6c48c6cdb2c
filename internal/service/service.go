package service

import (
	"context"

	"mercadito/internal/model"

	"github.com/google/uuid"
)

// CatalogService resolves catalog truth for the cart and checkout flows and
// backs the product read endpoints.
type CatalogService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetProduct resolves a product to its lookup summary.
	// Fails NOT_FOUND when the product does not exist.
	GetProduct(ctx context.Context, id string) (*model.ProductSummary, error)

	// CheckStock verifies that quantity units are available.
	// Fails NOT_FOUND when the product does not exist and INSUFFICIENT_STOCK
	// when the requested quantity exceeds the available stock.
	CheckStock(ctx context.Context, id string, quantity int) error
}

// CartService defines cart use-cases. Every operation loads the aggregate,
// mutates it in memory and persists it in a single unit of work.
type CartService interface {
	// Create opens a new active cart for a customer.
	Create(ctx context.Context, customerID string) (*model.Cart, error)

	// GetByID retrieves a cart. Fails NOT_FOUND when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Cart, error)

	// AddProduct validates stock and adds quantity units of a product at its
	// current catalog price.
	AddProduct(ctx context.Context, cartID uuid.UUID, productID string, quantity int) (*model.Cart, error)

	// ChangeQuantity replaces the quantity of a product already in the cart.
	ChangeQuantity(ctx context.Context, cartID uuid.UUID, productID string, quantity int) (*model.Cart, error)

	// RemoveProduct removes a product from the cart; absent products are a no-op.
	RemoveProduct(ctx context.Context, cartID uuid.UUID, productID string) (*model.Cart, error)

	// Clear removes every line from the cart.
	Clear(ctx context.Context, cartID uuid.UUID) (*model.Cart, error)

	// StartCheckout moves the cart into IN_CHECKOUT.
	StartCheckout(ctx context.Context, cartID uuid.UUID) (*model.Cart, error)

	// CompleteCheckout retires the cart as COMPLETED.
	CompleteCheckout(ctx context.Context, cartID uuid.UUID) (*model.Cart, error)

	// Abandon retires the cart as ABANDONED.
	Abandon(ctx context.Context, cartID uuid.UUID) (*model.Cart, error)
}

// OrderService defines order use-cases, lifecycle transitions and the
// cart-to-order checkout bridge.
type OrderService interface {
	// Create builds and persists an order from the request payload.
	Create(ctx context.Context, req *model.OrderRequest) (*model.Order, error)

	// CreateFromCart converts a cart in checkout into a persisted order,
	// re-resolving catalog truth for every line, then retires the cart.
	CreateFromCart(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error)

	// GetByID retrieves an order. Fails NOT_FOUND when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetAll retrieves every order.
	GetAll(ctx context.Context) ([]model.Order, error)

	// Confirm moves a PENDING order to CONFIRMED.
	Confirm(ctx context.Context, id uuid.UUID, user string) (*model.Order, error)

	// ProcessPayment records an approved payment on a CONFIRMED order.
	ProcessPayment(ctx context.Context, id uuid.UUID, reference string) (*model.Order, error)

	// MarkPreparing moves a paid order into logistics preparation.
	MarkPreparing(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// MarkShipped attaches shipment info and moves the order to SHIPPED.
	MarkShipped(ctx context.Context, id uuid.UUID, info model.ShipmentInfo) (*model.Order, error)

	// MarkDelivered closes the delivery leg of the lifecycle.
	MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// Cancel cancels any order that has not shipped, recording the reason.
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Order, error)
}
