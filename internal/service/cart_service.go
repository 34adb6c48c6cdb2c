package service

import (
	"context"
	"fmt"

	"mercadito/internal/model"
	"mercadito/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo repository.CartRepository
	catalog  CatalogService
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, catalog CatalogService, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo: cartRepo,
		catalog:  catalog,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// Create opens a new active cart for a customer.
func (s *cartService) Create(ctx context.Context, customerID string) (*model.Cart, error) {
	cart, err := model.NewCart(uuid.New(), customerID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.Create(ctx, cart); err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID).Msg("failed to create cart")
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	s.logger.Info().
		Str("cart_id", cart.ID.String()).
		Str("customer_id", customerID).
		Msg("cart created")
	return cart, nil
}

// GetByID retrieves a cart.
func (s *cartService) GetByID(ctx context.Context, id uuid.UUID) (*model.Cart, error) {
	return s.loadCart(ctx, id)
}

// AddProduct validates stock and adds quantity units of a product at its
// current catalog price. The price snapshot the cart keeps is the price at
// the moment of addition; checkout re-resolves it.
func (s *cartService) AddProduct(ctx context.Context, cartID uuid.UUID, productID string, quantity int) (*model.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.CheckStock(ctx, productID, quantity); err != nil {
		return nil, err
	}

	ref := model.ProductRef{ProductID: product.ID, UnitPrice: product.Price}
	if err := cart.AddProduct(ref, quantity); err != nil {
		s.logger.Warn().
			Err(err).
			Str("cart_id", cartID.String()).
			Str("product_id", productID).
			Msg("add product rejected")
		return nil, err
	}

	return s.saveCart(ctx, cart, "product added")
}

// ChangeQuantity replaces the quantity of a product already in the cart.
func (s *cartService) ChangeQuantity(ctx context.Context, cartID uuid.UUID, productID string, quantity int) (*model.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.ChangeQuantity(productID, quantity); err != nil {
		return nil, err
	}
	return s.saveCart(ctx, cart, "quantity changed")
}

// RemoveProduct removes a product from the cart.
func (s *cartService) RemoveProduct(ctx context.Context, cartID uuid.UUID, productID string) (*model.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveProduct(productID); err != nil {
		return nil, err
	}
	return s.saveCart(ctx, cart, "product removed")
}

// Clear removes every line from the cart.
func (s *cartService) Clear(ctx context.Context, cartID uuid.UUID) (*model.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.Clear(); err != nil {
		return nil, err
	}
	return s.saveCart(ctx, cart, "cart cleared")
}

// StartCheckout moves the cart into IN_CHECKOUT.
func (s *cartService) StartCheckout(ctx context.Context, cartID uuid.UUID) (*model.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.StartCheckout(); err != nil {
		s.logger.Warn().Err(err).Str("cart_id", cartID.String()).Msg("start checkout rejected")
		return nil, err
	}
	return s.saveCart(ctx, cart, "checkout started")
}

// CompleteCheckout retires the cart as COMPLETED.
func (s *cartService) CompleteCheckout(ctx context.Context, cartID uuid.UUID) (*model.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.CompleteCheckout(); err != nil {
		return nil, err
	}
	return s.saveCart(ctx, cart, "checkout completed")
}

// Abandon retires the cart as ABANDONED.
func (s *cartService) Abandon(ctx context.Context, cartID uuid.UUID) (*model.Cart, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.Abandon(); err != nil {
		return nil, err
	}
	return s.saveCart(ctx, cart, "cart abandoned")
}

// loadCart fetches the aggregate or fails NOT_FOUND.
func (s *cartService) loadCart(ctx context.Context, id uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", id.String()).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		s.logger.Debug().Str("cart_id", id.String()).Msg("cart not found")
		return nil, model.NotFound(fmt.Sprintf("cart %s not found", id))
	}
	return cart, nil
}

// saveCart persists the mutated aggregate and logs the operation.
func (s *cartService) saveCart(ctx context.Context, cart *model.Cart, msg string) (*model.Cart, error) {
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to save cart")
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	s.logger.Info().
		Str("cart_id", cart.ID.String()).
		Str("status", string(cart.Status)).
		Int("line_count", len(cart.Lines)).
		Msg(msg)
	return cart, nil
}
