package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vaidashi/order-admin/internal/database"
	"github.com/vaidashi/order-admin/internal/models"
	"github.com/vaidashi/order-admin/pkg/logger"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrDatabase = errors.New("database error")
)

// OrderRepository is the persistence contract of the order store.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
}

// PostgresOrderRepository stores orders in Postgres via sqlx.
type PostgresOrderRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewPostgresOrderRepository creates a Postgres-backed repository.
func NewPostgresOrderRepository(db *database.Database, logger logger.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:     db,
		logger: logger,
	}
}

// GetAll retrieves every order, oldest first.
func (r *PostgresOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	query := `
		SELECT id, order_id, item_name, quantity, supplier_name,
		       unit_price, delivery_charges, total_price, status
		FROM orders
		ORDER BY created_at ASC
	`

	orders := []models.Order{}
	err := r.db.DB.SelectContext(ctx, &orders, query)

	if err != nil {
		r.logger.Error("Failed to get all orders", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return orders, nil
}

// GetByID retrieves an order by its store identity.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `
		SELECT id, order_id, item_name, quantity, supplier_name,
		       unit_price, delivery_charges, total_price, status
		FROM orders
		WHERE id = $1
	`

	var order models.Order
	err := r.db.DB.GetContext(ctx, &order, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get order by ID", "error", err, "orderID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &order, nil
}

// Create inserts a new order.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, order_id, item_name, quantity, supplier_name,
		                    unit_price, delivery_charges, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`

	_, err := r.db.DB.ExecContext(
		ctx,
		query,
		order.ID,
		order.OrderID,
		order.ItemName,
		order.Quantity,
		order.SupplierName,
		order.UnitPrice,
		order.DeliveryCharges,
		order.TotalPrice,
		order.Status,
		models.GetCurrentTime(),
	)

	if err != nil {
		r.logger.Error("Failed to create order", "error", err, "orderID", order.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// Update overwrites an existing order.
func (r *PostgresOrderRepository) Update(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET order_id = $1, item_name = $2, quantity = $3, supplier_name = $4,
		    unit_price = $5, delivery_charges = $6, total_price = $7, status = $8,
		    updated_at = $9
		WHERE id = $10
	`

	result, err := r.db.DB.ExecContext(
		ctx,
		query,
		order.OrderID,
		order.ItemName,
		order.Quantity,
		order.SupplierName,
		order.UnitPrice,
		order.DeliveryCharges,
		order.TotalPrice,
		order.Status,
		models.GetCurrentTime(),
		order.ID,
	)

	if err != nil {
		r.logger.Error("Failed to update order", "error", err, "orderID", order.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes an order by its store identity.
func (r *PostgresOrderRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM orders WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id)

	if err != nil {
		r.logger.Error("Failed to delete order", "error", err, "orderID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
