package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mercadito/internal/discount"
	"mercadito/internal/model"
	"mercadito/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// defaultPaymentMethod is used when a payment request carries no method; the
// gateway itself is outside this system.
const defaultPaymentMethod = "CARD"

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	catalog   CatalogService
	validator discount.Validator
	currency  string
	logger    zerolog.Logger
}

// NewOrderService creates a new order service. Directly-created orders must
// be priced in the given store currency; cart-originated orders inherit the
// catalog's prices.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	catalog CatalogService,
	validator discount.Validator,
	currency string,
	logger zerolog.Logger,
) OrderService {
	if currency == "" {
		currency = model.DefaultCurrency
	}
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		catalog:   catalog,
		validator: validator,
		currency:  currency,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Create builds and persists an order from the request payload. A non-zero
// discount must be authorised by a valid discount code.
func (s *orderService) Create(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	if req == nil {
		return nil, model.InvalidArgument("order request is required")
	}
	if len(req.Items) == 0 {
		return nil, model.InvalidArgument("order must contain at least one item")
	}

	address, err := req.ShippingAddress.Address()
	if err != nil {
		return nil, err
	}

	lines := make([]model.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		if item.UnitPrice.Currency != s.currency {
			return nil, model.InvalidArgument(fmt.Sprintf("order prices must be in %s", s.currency))
		}
		line, err := model.NewOrderLine(item.ProductID, item.ProductName, item.SKU, item.Quantity, item.UnitPrice)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	disc := model.Money{}
	if req.Discount != nil && req.Discount.IsPositive() {
		if req.DiscountCode == nil || *req.DiscountCode == "" {
			return nil, model.InvalidArgument("a discount code is required to apply a discount")
		}
		if err := s.validator.Validate(ctx, *req.DiscountCode); err != nil {
			s.logger.Warn().
				Str("discount_code", *req.DiscountCode).
				Err(err).
				Msg("invalid discount code")
			return nil, err
		}
		disc = *req.Discount
		s.logger.Debug().Str("discount_code", *req.DiscountCode).Msg("discount code validated")
	}

	number := req.Number
	if number == "" {
		number = newOrderNumber()
	}

	order, err := model.NewOrder(req.CustomerID, number, lines, address, disc)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.Number).
		Str("customer_id", order.CustomerID).
		Int("line_count", len(order.Lines)).
		Str("total", order.Total.String()).
		Msg("order created")
	return order, nil
}

// CreateFromCart converts a cart in checkout into a persisted order. The cart
// must be IN_CHECKOUT before anything is built or persisted. Every line
// re-resolves name, SKU and price from the catalog at call time, so the order
// snapshot reflects current catalog truth rather than the add-time prices the
// cart stored. The cart is only retired after the order persists; a failure
// before that leaves the cart untouched.
func (s *orderService) CreateFromCart(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error) {
	if req == nil {
		return nil, model.InvalidArgument("checkout request is required")
	}

	address, err := req.ShippingAddress.Address()
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByID(ctx, req.CartID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", req.CartID.String()).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		return nil, model.NotFound(fmt.Sprintf("cart %s not found", req.CartID))
	}
	if cart.Status != model.CartStatusInCheckout {
		s.logger.Warn().
			Str("cart_id", cart.ID.String()).
			Str("status", string(cart.Status)).
			Msg("checkout rejected, cart not in checkout")
		return nil, model.InvalidState("only a cart in checkout can be converted into an order")
	}

	lines := make([]model.OrderLine, 0, len(cart.Lines))
	for _, item := range cart.Lines {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		line, err := model.NewOrderLine(product.ID, product.Name, product.SKU, item.Quantity, product.Price)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	// Cart-originated orders carry no discount.
	order, err := model.NewOrder(cart.CustomerID, newOrderNumber(), lines, address, model.Money{})
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to persist checkout order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := cart.CompleteCheckout(); err != nil {
		// The order exists but the cart could not be retired. Checkout is
		// non-atomic; surface the error and let the caller reconcile.
		s.logger.Error().
			Err(err).
			Str("cart_id", cart.ID.String()).
			Str("order_id", order.ID.String()).
			Msg("order persisted but cart not in checkout")
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.logger.Error().
			Err(err).
			Str("cart_id", cart.ID.String()).
			Str("order_id", order.ID.String()).
			Msg("order persisted but cart completion failed")
		return nil, fmt.Errorf("failed to complete cart: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.Number).
		Str("cart_id", cart.ID.String()).
		Str("total", order.Total.String()).
		Msg("order created from cart")
	return order, nil
}

// GetByID retrieves an order.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.loadOrder(ctx, id)
}

// GetAll retrieves every order.
func (s *orderService) GetAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve orders")
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// Confirm moves a PENDING order to CONFIRMED.
func (s *orderService) Confirm(ctx context.Context, id uuid.UUID, user string) (*model.Order, error) {
	return s.transition(ctx, id, "confirm", func(order *model.Order) error {
		return order.Confirm(user)
	})
}

// ProcessPayment records an approved payment on a CONFIRMED order.
func (s *orderService) ProcessPayment(ctx context.Context, id uuid.UUID, reference string) (*model.Order, error) {
	return s.transition(ctx, id, "process_payment", func(order *model.Order) error {
		return order.ProcessPayment(defaultPaymentMethod, reference, "system")
	})
}

// MarkPreparing moves a paid order into logistics preparation.
func (s *orderService) MarkPreparing(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.transition(ctx, id, "mark_preparing", func(order *model.Order) error {
		return order.MarkPreparing("system")
	})
}

// MarkShipped attaches shipment info and moves the order to SHIPPED.
func (s *orderService) MarkShipped(ctx context.Context, id uuid.UUID, info model.ShipmentInfo) (*model.Order, error) {
	return s.transition(ctx, id, "mark_shipped", func(order *model.Order) error {
		return order.MarkShipped(info, "logistics")
	})
}

// MarkDelivered closes the delivery leg of the lifecycle.
func (s *orderService) MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.transition(ctx, id, "mark_delivered", func(order *model.Order) error {
		return order.MarkDelivered("courier")
	})
}

// Cancel cancels any order that has not shipped.
func (s *orderService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Order, error) {
	return s.transition(ctx, id, "cancel", func(order *model.Order) error {
		return order.Cancel(reason, "admin")
	})
}

// transition loads the order, applies one lifecycle event and saves. The
// aggregate rejects the event without mutating itself, so nothing is
// persisted on failure.
func (s *orderService) transition(ctx context.Context, id uuid.UUID, event string, apply func(*model.Order) error) (*model.Order, error) {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(order); err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", id.String()).
			Str("event", event).
			Str("status", string(order.Status)).
			Msg("transition rejected")
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Str("event", event).Msg("failed to save order")
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("event", event).
		Str("status", string(order.Status)).
		Msg("order transitioned")
	return order, nil
}

// loadOrder fetches the aggregate or fails NOT_FOUND.
func (s *orderService) loadOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to load order")
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.NotFound(fmt.Sprintf("order %s not found", id))
	}
	return order, nil
}

// newOrderNumber generates a human-readable order number. The random suffix
// keeps numbers unique when orders are created within the same millisecond.
func newOrderNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}
