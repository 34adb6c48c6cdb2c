package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mercadito/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
// Value objects (address, payment, shipment, money) are embedded as columns
// on the order row; lines and status history live in child tables.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = `
	id, order_number, customer_id,
	recipient_name, street, city, state, postal_code, country, phone, instructions,
	payment_method, payment_reference, payment_status, payment_processed_at,
	shipment_carrier, shipment_tracking_number, shipment_estimated_delivery,
	subtotal_amount, subtotal_currency,
	discount_amount, discount_currency,
	total_amount, total_currency,
	status, created_at`

// Create inserts the order, its lines and any history in one transaction.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
	`

	args := orderArgs(order)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err := insertOrderLines(ctx, tx, order); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order lines")
		return err
	}

	if err := insertStatusHistory(ctx, tx, order); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create status history")
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_number", order.Number).
		Int("line_count", len(order.Lines)).
		Msg("order created")
	return nil
}

// GetByID retrieves an order with its lines and status history.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := r.loadChildren(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetAll retrieves all orders with their lines and history.
func (r *orderRepository) GetAll(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for i := range orders {
		if err := r.loadChildren(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	r.logger.Debug().Int("count", len(orders)).Msg("orders retrieved")
	return orders, nil
}

// Save persists status, payment and shipment changes and appends any new
// status history records. Lines are fixed at creation and never rewritten.
func (r *orderRepository) Save(ctx context.Context, order *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE orders
		SET status = $2,
		    payment_method = $3, payment_reference = $4, payment_status = $5, payment_processed_at = $6,
		    shipment_carrier = $7, shipment_tracking_number = $8, shipment_estimated_delivery = $9
		WHERE id = $1
	`

	var (
		paymentMethod, paymentReference   *string
		paymentStatus                     *string
		paymentProcessedAt                *time.Time
		shipmentCarrier, shipmentTracking *string
		shipmentEstimatedDelivery         *time.Time
	)
	if order.Payment != nil {
		paymentMethod = &order.Payment.Method
		paymentReference = &order.Payment.ExternalReference
		status := string(order.Payment.Status)
		paymentStatus = &status
		paymentProcessedAt = &order.Payment.ProcessedAt
	}
	if order.Shipment != nil {
		shipmentCarrier = &order.Shipment.Carrier
		shipmentTracking = &order.Shipment.TrackingNumber
		shipmentEstimatedDelivery = &order.Shipment.EstimatedDelivery
	}

	tag, err := tx.Exec(ctx, query, order.ID, order.Status,
		paymentMethod, paymentReference, paymentStatus, paymentProcessedAt,
		shipmentCarrier, shipmentTracking, shipmentEstimatedDelivery)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to update order")
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s does not exist", order.ID)
	}

	if err := insertStatusHistory(ctx, tx, order); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to append status history")
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to save order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("status", string(order.Status)).
		Msg("order saved")
	return nil
}

// loadChildren attaches lines and status history to an already-scanned order.
func (r *orderRepository) loadChildren(ctx context.Context, order *model.Order) error {
	linesQuery := `
		SELECT id, product_id, product_name, sku, quantity,
		       unit_price_amount, unit_price_currency, subtotal_amount, subtotal_currency
		FROM order_lines
		WHERE order_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, linesQuery, order.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to query order lines")
		return fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line model.OrderLine
		err := rows.Scan(&line.ID, &line.ProductID, &line.ProductName, &line.SKU, &line.Quantity,
			&line.UnitPrice.Amount, &line.UnitPrice.Currency,
			&line.Subtotal.Amount, &line.Subtotal.Currency)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order line row")
			return fmt.Errorf("failed to scan order line: %w", err)
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order lines: %w", err)
	}

	historyQuery := `
		SELECT id, previous_status, new_status, changed_at, reason, changed_by
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY changed_at, id
	`

	historyRows, err := r.pool.Query(ctx, historyQuery, order.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to query status history")
		return fmt.Errorf("failed to query status history: %w", err)
	}
	defer historyRows.Close()

	for historyRows.Next() {
		var change model.StatusChange
		var previous *string
		err := historyRows.Scan(&change.ID, &previous, &change.To, &change.At, &change.Reason, &change.User)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan status history row")
			return fmt.Errorf("failed to scan status history: %w", err)
		}
		if previous != nil {
			status := model.OrderStatus(*previous)
			change.From = &status
		}
		order.History = append(order.History, change)
	}
	if err := historyRows.Err(); err != nil {
		return fmt.Errorf("error iterating status history: %w", err)
	}

	return nil
}

// insertOrderLines batch-inserts all order lines within the transaction.
func insertOrderLines(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	if len(order.Lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_lines (id, order_id, position, product_id, product_name, sku, quantity,
		                         unit_price_amount, unit_price_currency, subtotal_amount, subtotal_currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	batch := &pgx.Batch{}
	for i, line := range order.Lines {
		batch.Queue(query, line.ID, order.ID, i, line.ProductID, line.ProductName, line.SKU,
			line.Quantity, line.UnitPrice.Amount, line.UnitPrice.Currency,
			line.Subtotal.Amount, line.Subtotal.Currency)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range order.Lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}
	return nil
}

// insertStatusHistory appends new history records. Records already persisted
// keep their row untouched: history is append-only, so inserts conflict-skip
// on the record id.
func insertStatusHistory(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	if len(order.History) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_status_history (id, order_id, previous_status, new_status, changed_at, reason, changed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, change := range order.History {
		var previous *string
		if change.From != nil {
			status := string(*change.From)
			previous = &status
		}
		batch.Queue(query, change.ID, order.ID, previous, change.To, change.At, change.Reason, change.User)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range order.History {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert status change: %w", err)
		}
	}
	return nil
}

// orderArgs flattens the aggregate into insert arguments, column order per
// orderColumns.
func orderArgs(order *model.Order) []any {
	var (
		paymentMethod, paymentReference, paymentStatus *string
		paymentProcessedAt                             *time.Time
		shipmentCarrier, shipmentTracking              *string
		shipmentEstimatedDelivery                      *time.Time
	)
	if order.Payment != nil {
		paymentMethod = &order.Payment.Method
		paymentReference = &order.Payment.ExternalReference
		status := string(order.Payment.Status)
		paymentStatus = &status
		paymentProcessedAt = &order.Payment.ProcessedAt
	}
	if order.Shipment != nil {
		shipmentCarrier = &order.Shipment.Carrier
		shipmentTracking = &order.Shipment.TrackingNumber
		shipmentEstimatedDelivery = &order.Shipment.EstimatedDelivery
	}

	addr := order.ShippingAddress
	return []any{
		order.ID, order.Number, order.CustomerID,
		addr.RecipientName, addr.Street, addr.City, addr.State, addr.PostalCode, addr.Country, addr.Phone, addr.Instructions,
		paymentMethod, paymentReference, paymentStatus, paymentProcessedAt,
		shipmentCarrier, shipmentTracking, shipmentEstimatedDelivery,
		order.Subtotal.Amount, order.Subtotal.Currency,
		order.Discount.Amount, order.Discount.Currency,
		order.Total.Amount, order.Total.Currency,
		order.Status, order.CreatedAt,
	}
}

// scanOrder reads one order row, reassembling embedded value objects.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		order                                          model.Order
		paymentMethod, paymentReference, paymentStatus *string
		paymentProcessedAt                             *time.Time
		shipmentCarrier, shipmentTracking              *string
		shipmentEstimatedDelivery                      *time.Time
	)

	err := row.Scan(
		&order.ID, &order.Number, &order.CustomerID,
		&order.ShippingAddress.RecipientName, &order.ShippingAddress.Street,
		&order.ShippingAddress.City, &order.ShippingAddress.State,
		&order.ShippingAddress.PostalCode, &order.ShippingAddress.Country,
		&order.ShippingAddress.Phone, &order.ShippingAddress.Instructions,
		&paymentMethod, &paymentReference, &paymentStatus, &paymentProcessedAt,
		&shipmentCarrier, &shipmentTracking, &shipmentEstimatedDelivery,
		&order.Subtotal.Amount, &order.Subtotal.Currency,
		&order.Discount.Amount, &order.Discount.Currency,
		&order.Total.Amount, &order.Total.Currency,
		&order.Status, &order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentMethod != nil {
		order.Payment = &model.PaymentSummary{
			Method:            *paymentMethod,
			ExternalReference: *paymentReference,
			Status:            model.PaymentStatus(*paymentStatus),
			ProcessedAt:       *paymentProcessedAt,
		}
	}
	if shipmentCarrier != nil {
		order.Shipment = &model.ShipmentInfo{
			Carrier:           *shipmentCarrier,
			TrackingNumber:    *shipmentTracking,
			EstimatedDelivery: *shipmentEstimatedDelivery,
		}
	}

	return &order, nil
}
