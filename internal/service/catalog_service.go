package service

import (
	"context"
	"fmt"

	"mercadito/internal/model"
	"mercadito/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService on top of the product repository.
type catalogService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(productRepo repository.ProductRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *catalogService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve products")
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// GetProduct resolves a product to its lookup summary.
func (s *catalogService) GetProduct(ctx context.Context, id string) (*model.ProductSummary, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to retrieve product")
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.NotFound(fmt.Sprintf("product %s not found", id))
	}

	summary := product.Summary()
	return &summary, nil
}

// CheckStock verifies that quantity units of the product are available.
// Stock is read and compared, never reserved or decremented here.
func (s *catalogService) CheckStock(ctx context.Context, id string, quantity int) error {
	summary, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if summary.Stock < quantity {
		s.logger.Warn().
			Str("product_id", id).
			Int("requested", quantity).
			Int("available", summary.Stock).
			Msg("insufficient stock")
		return model.InsufficientStock(fmt.Sprintf(
			"insufficient stock for product %s: requested %d, available %d",
			summary.Name, quantity, summary.Stock))
	}
	return nil
}
