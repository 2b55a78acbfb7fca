package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vegana/shop/internal/models"
)

// CustomerRepository handles database operations for customers
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create stores a new customer. An existing id yields ErrDuplicate.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO customers (id, full_name, email, password_hash, created_at)
		VALUES (:id, :full_name, :email, :password_hash, :created_at)
	`, c)
	if isUniqueViolation(err) {
		return fmt.Errorf("customer %s: %w", c.ID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetByID returns ErrNotFound for unknown ids.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	c := &models.Customer{}
	err := r.db.GetContext(ctx, c, r.db.Rebind(`
		SELECT id, full_name, email, password_hash, created_at FROM customers WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}
