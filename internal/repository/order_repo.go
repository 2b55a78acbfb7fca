package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vegana/shop/internal/models"
)

const orderColumns = `id, reference, customer_id, amount, currency, status, created_at, updated_at`

// OrderRepository handles database operations for orders
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder stores the order and its lines in one transaction
func (r *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin order transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO orders (id, reference, customer_id, amount, currency, status, created_at, updated_at)
		VALUES (:id, :reference, :customer_id, :amount, :currency, :status, :created_at, :updated_at)
	`, order); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order %s: %w", order.Reference, ErrDuplicate)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	for _, line := range order.Lines {
		line.OrderID = order.ID
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
			VALUES (:order_id, :product_id, :product_name, :unit_price, :quantity)
		`, line); err != nil {
			return fmt.Errorf("failed to create order line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// GetOrderByReference retrieves an order and its lines by reference
func (r *OrderRepository) GetOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	order := &models.Order{}
	err := r.db.GetContext(ctx, order, r.db.Rebind(`SELECT `+orderColumns+` FROM orders WHERE reference = ?`), reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", reference, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := r.loadLines(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.Order, error) {
	var orders []*models.Order
	err := r.db.SelectContext(ctx, &orders, r.db.Rebind(`
		SELECT `+orderColumns+` FROM orders
		WHERE customer_id = ?
		ORDER BY created_at DESC, reference DESC
	`), customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if err := r.loadLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) loadLines(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*models.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	query, args, err := sqlx.In(`
		SELECT order_id, product_id, product_name, unit_price, quantity
		FROM order_items WHERE order_id IN (?)
		ORDER BY product_name
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build order lines query: %w", err)
	}
	var lines []models.OrderLine
	if err := r.db.SelectContext(ctx, &lines, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to get order lines: %w", err)
	}
	for _, l := range lines {
		if o := byID[l.OrderID]; o != nil {
			o.Lines = append(o.Lines, l)
		}
	}
	return nil
}

// UpdateOrderStatus updates the status of an order
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, reference string, status models.OrderStatus) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE orders
		SET status = ?, updated_at = ?
		WHERE reference = ?
	`), status, time.Now(), reference)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("order %s: %w", reference, ErrNotFound)
	}

	return nil
}
