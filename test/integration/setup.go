package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			sku VARCHAR(100) NOT NULL,
			price_amount DECIMAL(12, 2) NOT NULL,
			price_currency VARCHAR(3) NOT NULL,
			stock INTEGER NOT NULL CHECK (stock >= 0),
			category VARCHAR(100) NOT NULL,
			image_url VARCHAR(500) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS carts (
			id UUID PRIMARY KEY,
			customer_id VARCHAR(100) NOT NULL,
			status VARCHAR(20) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
			product_id VARCHAR(50) NOT NULL,
			position INTEGER NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price_amount DECIMAL(12, 2) NOT NULL,
			unit_price_currency VARCHAR(3) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			order_number VARCHAR(50) NOT NULL UNIQUE,
			customer_id VARCHAR(100) NOT NULL,
			recipient_name VARCHAR(255) NOT NULL,
			street VARCHAR(255) NOT NULL,
			city VARCHAR(100) NOT NULL,
			state VARCHAR(100) NOT NULL,
			postal_code VARCHAR(10) NOT NULL,
			country VARCHAR(100) NOT NULL,
			phone VARCHAR(20) NOT NULL,
			instructions VARCHAR(500) NOT NULL DEFAULT '',
			payment_method VARCHAR(50),
			payment_reference VARCHAR(100),
			payment_status VARCHAR(20),
			payment_processed_at TIMESTAMPTZ,
			shipment_carrier VARCHAR(100),
			shipment_tracking_number VARCHAR(100),
			shipment_estimated_delivery TIMESTAMPTZ,
			subtotal_amount DECIMAL(12, 2) NOT NULL,
			subtotal_currency VARCHAR(3) NOT NULL,
			discount_amount DECIMAL(12, 2) NOT NULL,
			discount_currency VARCHAR(3) NOT NULL,
			total_amount DECIMAL(12, 2) NOT NULL,
			total_currency VARCHAR(3) NOT NULL,
			status VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS order_lines (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			product_id VARCHAR(50) NOT NULL,
			product_name VARCHAR(255) NOT NULL,
			sku VARCHAR(100) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price_amount DECIMAL(12, 2) NOT NULL,
			unit_price_currency VARCHAR(3) NOT NULL,
			subtotal_amount DECIMAL(12, 2) NOT NULL,
			subtotal_currency VARCHAR(3) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS order_status_history (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			previous_status VARCHAR(20),
			new_status VARCHAR(20) NOT NULL,
			changed_at TIMESTAMPTZ NOT NULL,
			reason VARCHAR(500) NOT NULL,
			changed_by VARCHAR(100) NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_cart_items_cart_id ON cart_items(cart_id);
		CREATE INDEX IF NOT EXISTS idx_order_lines_order_id ON order_lines(order_id);
		CREATE INDEX IF NOT EXISTS idx_order_status_history_order_id ON order_status_history(order_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProducts inserts test product data into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id       string
		name     string
		sku      string
		price    string
		stock    int
		category string
	}{
		{"P001", "Camiseta Clásica", "SKU-CAM-001", "250.00", 20, "Ropa"},
		{"P002", "Pantalón de Mezclilla", "SKU-PAN-002", "550.00", 15, "Ropa"},
		{"P003", "Tenis Deportivos", "SKU-TEN-003", "1200.00", 8, "Calzado"},
		{"P004", "Gorra Bordada", "SKU-GOR-004", "180.00", 30, "Accesorios"},
		{"P005", "Mochila Urbana", "SKU-MOC-005", "750.00", 2, "Accesorios"},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, sku, price_amount, price_currency, stock, category)
			 VALUES ($1, $2, $3, $4, 'MXN', $5, $6)`,
			p.id, p.name, p.sku, p.price, p.stock, p.category,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_status_history", "order_lines", "orders", "cart_items", "carts", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
