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

// CartRepository stores cart lines per browser session. Every change bumps
// the cart revision in the same transaction.
type CartRepository struct {
	db *sqlx.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sqlx.DB) *CartRepository {
	return &CartRepository{db: db}
}

type cartRow struct {
	models.Product
	Quantity int `db:"quantity"`
}

// Get loads the cart of sessionID. Unknown sessions have an empty cart at
// revision 0.
func (r *CartRepository) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	cart := &models.Cart{SessionID: sessionID}

	err := r.db.GetContext(ctx, &cart.Revision, r.db.Rebind(`SELECT revision FROM carts WHERE session_id = ?`), sessionID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get cart revision: %w", err)
	}

	var rows []cartRow
	err = r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT p.id, p.name, p.description, p.category, p.price_cents, p.discount_percent,
		       p.image_url, p.created_at, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.session_id = ?
		ORDER BY ci.added_at, p.id
	`), sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart lines: %w", err)
	}
	for _, row := range rows {
		cart.Lines = append(cart.Lines, models.CartLine{Product: row.Product, Quantity: row.Quantity})
	}
	return cart, nil
}

// Add puts quantity more of productID into the cart, capped at
// models.MaxQuantity.
func (r *CartRepository) Add(ctx context.Context, sessionID string, productID int64, quantity int) error {
	return r.change(ctx, sessionID, func(tx *sqlx.Tx) error {
		var current int
		err := tx.GetContext(ctx, &current, tx.Rebind(`
			SELECT quantity FROM cart_items WHERE session_id = ? AND product_id = ?
		`), sessionID, productID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO cart_items (session_id, product_id, quantity, added_at) VALUES (?, ?, ?, ?)
			`), sessionID, productID, min(quantity, models.MaxQuantity), time.Now())
			return err
		case err != nil:
			return err
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			UPDATE cart_items SET quantity = ? WHERE session_id = ? AND product_id = ?
		`), min(current+quantity, models.MaxQuantity), sessionID, productID)
		return err
	})
}

// SetQuantity replaces the quantity of a line. Missing lines yield ErrNotFound.
func (r *CartRepository) SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error {
	return r.change(ctx, sessionID, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE cart_items SET quantity = ? WHERE session_id = ? AND product_id = ?
		`), quantity, sessionID, productID)
		return requireRow(res, err)
	})
}

// Remove deletes a line. Missing lines yield ErrNotFound.
func (r *CartRepository) Remove(ctx context.Context, sessionID string, productID int64) error {
	return r.change(ctx, sessionID, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			DELETE FROM cart_items WHERE session_id = ? AND product_id = ?
		`), sessionID, productID)
		return requireRow(res, err)
	})
}

// Clear empties the cart.
func (r *CartRepository) Clear(ctx context.Context, sessionID string) error {
	return r.change(ctx, sessionID, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM cart_items WHERE session_id = ?`), sessionID)
		return err
	})
}

// Move hands the cart of from over to the fresh session to. Lines already in
// to keep their quantity; from is left empty.
func (r *CartRepository) Move(ctx context.Context, from, to string) error {
	return r.change(ctx, to, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE cart_items SET session_id = ?
			WHERE session_id = ? AND product_id NOT IN (SELECT product_id FROM cart_items WHERE session_id = ?)
		`), to, from, to); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM cart_items WHERE session_id = ?`), from); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM carts WHERE session_id = ?`), from)
		return err
	})
}

// change runs fn and bumps the revision inside one transaction.
func (r *CartRepository) change(ctx context.Context, sessionID string, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cart transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to update cart: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO carts (session_id, revision, updated_at) VALUES (?, 1, ?)
		ON CONFLICT (session_id) DO UPDATE SET revision = carts.revision + 1, updated_at = excluded.updated_at
	`), sessionID, time.Now()); err != nil {
		return fmt.Errorf("failed to bump cart revision: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cart: %w", err)
	}
	return nil
}

func requireRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
