package repository

import (
	"context"

	"mercadito/internal/model"

	"github.com/google/uuid"
)

// ProductRepository defines data access for the catalog.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	// Returns (nil, nil) when the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartRepository defines data access for cart aggregates. A cart and its
// lines are saved as one transactional unit.
type CartRepository interface {
	// Create inserts a new cart with its lines.
	Create(ctx context.Context, cart *model.Cart) error

	// GetByID retrieves a cart with its lines.
	// Returns (nil, nil) when the cart does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Cart, error)

	// Save persists the cart's current status and replaces its lines.
	Save(ctx context.Context, cart *model.Cart) error
}

// OrderRepository defines data access for order aggregates. Value objects
// are embedded in the order row; lines and status history are child rows.
type OrderRepository interface {
	// Create inserts the order, its lines and any history in one transaction.
	Create(ctx context.Context, order *model.Order) error

	// GetByID retrieves an order with its lines and status history.
	// Returns (nil, nil) when the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetAll retrieves all orders with their lines and history.
	GetAll(ctx context.Context) ([]model.Order, error)

	// Save persists status, payment and shipment changes and appends any new
	// status history records. Existing history rows are never touched.
	Save(ctx context.Context, order *model.Order) error
}
