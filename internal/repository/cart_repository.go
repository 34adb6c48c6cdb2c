package repository

import (
	"context"
	"errors"
	"fmt"

	"mercadito/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Create inserts a new cart with its lines.
func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO carts (id, customer_id, status)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(ctx, query, cart.ID, cart.CustomerID, cart.Status); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to create cart")
		return fmt.Errorf("failed to create cart: %w", err)
	}

	if err := insertCartLines(ctx, tx, cart); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to create cart lines")
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create cart: %w", err)
	}

	r.logger.Debug().Str("cart_id", cart.ID.String()).Msg("cart created")
	return nil
}

// GetByID retrieves a cart with its lines.
func (r *cartRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Cart, error) {
	query := `
		SELECT id, customer_id, status
		FROM carts
		WHERE id = $1
	`

	var cart model.Cart
	err := r.pool.QueryRow(ctx, query, id).Scan(&cart.ID, &cart.CustomerID, &cart.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("cart_id", id.String()).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("cart_id", id.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	linesQuery := `
		SELECT id, product_id, quantity, unit_price_amount, unit_price_currency
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, linesQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", id.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line model.CartLine
		err := rows.Scan(&line.ID, &line.ProductID, &line.Quantity,
			&line.UnitPrice.Amount, &line.UnitPrice.Currency)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Lines = append(cart.Lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, nil
}

// Save persists the cart's current status and replaces its lines. The cart
// row and its items move together in one transaction.
func (r *cartRepository) Save(ctx context.Context, cart *model.Cart) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE carts
		SET customer_id = $2, status = $3
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, query, cart.ID, cart.CustomerID, cart.Status); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to update cart")
		return fmt.Errorf("failed to update cart: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to delete cart items")
		return fmt.Errorf("failed to delete cart items: %w", err)
	}

	if err := insertCartLines(ctx, tx, cart); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to insert cart items")
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	r.logger.Debug().
		Str("cart_id", cart.ID.String()).
		Str("status", string(cart.Status)).
		Int("line_count", len(cart.Lines)).
		Msg("cart saved")
	return nil
}

// insertCartLines batch-inserts all cart lines within the transaction.
func insertCartLines(ctx context.Context, tx pgx.Tx, cart *model.Cart) error {
	if len(cart.Lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO cart_items (id, cart_id, product_id, position, quantity, unit_price_amount, unit_price_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for i, line := range cart.Lines {
		batch.Queue(query, line.ID, cart.ID, line.ProductID, i, line.Quantity,
			line.UnitPrice.Amount, line.UnitPrice.Currency)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range cart.Lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert cart item: %w", err)
		}
	}
	return nil
}
