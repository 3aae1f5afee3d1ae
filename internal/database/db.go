package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/vaidashi/order-admin/internal/config"
	"github.com/vaidashi/order-admin/pkg/logger"
	"github.com/vaidashi/order-admin/pkg/retry"
)

// Database represents the order store's database connection.
type Database struct {
	DB     *sqlx.DB
	logger logger.Logger
}

// New connects to the database, retrying with backoff so the store can
// come up before its database does.
func New(ctx context.Context, cfg *config.Config, logger logger.Logger) (*Database, error) {
	var db *sqlx.DB

	connect := func() error {
		var err error
		db, err = sqlx.Connect("postgres", cfg.GetDBConnString())
		return err
	}

	err := retry.Retry(ctx, connect, &retry.RetryConfig{
		MaxAttempts:     5,
		BackoffStrategy: retry.NewDefaultExponentialBackoff(),
		Logger:          logger,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("Connected to database", "host", cfg.DB.Host, "database", cfg.DB.Name)

	return &Database{
		DB:     db,
		logger: logger,
	}, nil
}

// Ping checks the database connection.
func (d *Database) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.DB.Close()
}

// RunMigrations creates the orders table if it does not exist.
func (d *Database) RunMigrations() error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(50) PRIMARY KEY,
		order_id VARCHAR(50) NOT NULL,
		item_name TEXT NOT NULL,
		quantity TEXT NOT NULL,
		supplier_name TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		delivery_charges TEXT NOT NULL,
		total_price TEXT NOT NULL,
		status VARCHAR(20) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_orders_order_id ON orders(order_id);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	`

	_, err := d.DB.Exec(schema)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}
