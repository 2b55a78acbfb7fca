package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vegana/shop/internal/models"
)

const productColumns = `id, name, description, category, price_cents, discount_percent, image_url, created_at`

// ProductRepository reads the catalog
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID returns ErrNotFound for unknown ids.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	p := &models.Product{}
	err := r.db.GetContext(ctx, p, r.db.Rebind(`SELECT `+productColumns+` FROM products WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// Latest returns the newest products first.
func (r *ProductRepository) Latest(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.SelectContext(ctx, &products,
		r.db.Rebind(`SELECT `+productColumns+` FROM products ORDER BY created_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ByCategory lists other products of the same category.
func (r *ProductRepository) ByCategory(ctx context.Context, category string, excludeID int64, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.SelectContext(ctx, &products, r.db.Rebind(`
		SELECT `+productColumns+` FROM products
		WHERE category = ? AND id <> ?
		ORDER BY name
		LIMIT ?
	`), category, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	return products, nil
}
