package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vegana/shop/internal/models"
)

// Demo account used by the browser scenarios.
const (
	DemoCustomerID = "admin"
	DemoPassword   = "123123"
)

const placeholderImage = "/static/images/product.svg"

var catalog = []models.Product{
	{ID: 1, Name: "Organic Quinoa", Category: "Grains", PriceCents: 450, Description: "Fluffy white quinoa from Andean cooperatives. Cooks in 15 minutes."},
	{ID: 2, Name: "Brown Basmati Rice", Category: "Grains", PriceCents: 320, DiscountPercent: 10, Description: "Nutty wholegrain basmati, aged for a year."},
	{ID: 3, Name: "Rolled Oats", Category: "Grains", PriceCents: 280, Description: "Gluten-free jumbo oats for porridge and baking."},
	{ID: 4, Name: "Oat Milk", Category: "Plant Milk", PriceCents: 299, Description: "Creamy barista oat drink, unsweetened."},
	{ID: 5, Name: "Almond Milk", Category: "Plant Milk", PriceCents: 349, DiscountPercent: 15, Description: "Made with Mediterranean almonds and a pinch of sea salt."},
	{ID: 6, Name: "Soy Milk", Category: "Plant Milk", PriceCents: 249, Description: "Organic soya drink enriched with calcium."},
	{ID: 7, Name: "Smoked Tofu", Category: "Protein", PriceCents: 399, Description: "Firm tofu smoked over beech wood."},
	{ID: 8, Name: "Tempeh", Category: "Protein", PriceCents: 429, DiscountPercent: 5, Description: "Fermented soybean cake, ready to slice and fry."},
	{ID: 9, Name: "Red Lentils", Category: "Protein", PriceCents: 259, Description: "Split red lentils for dal and soups."},
	{ID: 10, Name: "Dark Chocolate 85%", Category: "Snacks", PriceCents: 359, Description: "Single-origin cacao, dairy free."},
	{ID: 11, Name: "Roasted Chickpeas", Category: "Snacks", PriceCents: 299, DiscountPercent: 20, Description: "Crunchy chickpeas with smoked paprika."},
	{ID: 12, Name: "Dried Mango", Category: "Snacks", PriceCents: 449, Description: "Sun-dried Alphonso mango slices, no added sugar."},
}

// Seed inserts the demo catalog and the demo customer unless they exist.
func Seed(ctx context.Context, db *sqlx.DB) error {
	productSQL := db.Rebind(`
		INSERT INTO products (id, name, description, category, price_cents, discount_percent, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`)
	// Later products are newer so the home page lists them first.
	base := time.Now().Add(-time.Duration(len(catalog)) * time.Hour)
	for i, p := range catalog {
		created := base.Add(time.Duration(i) * time.Hour)
		if _, err := db.ExecContext(ctx, productSQL,
			p.ID, p.Name, p.Description, p.Category, p.PriceCents, p.DiscountPercent, placeholderImage, created,
		); err != nil {
			return fmt.Errorf("failed to seed product %d: %w", p.ID, err)
		}
	}

	var exists int
	if err := db.GetContext(ctx, &exists, db.Rebind(`SELECT COUNT(*) FROM customers WHERE id = ?`), DemoCustomerID); err != nil {
		return fmt.Errorf("failed to look up demo customer: %w", err)
	}
	if exists > 0 {
		return nil
	}
	admin, err := models.NewCustomer(DemoCustomerID, "Vegana Admin", "admin@vegana.shop", DemoPassword)
	if err != nil {
		return fmt.Errorf("failed to build demo customer: %w", err)
	}
	if _, err := db.NamedExecContext(ctx, `
		INSERT INTO customers (id, full_name, email, password_hash, created_at)
		VALUES (:id, :full_name, :email, :password_hash, :created_at)
	`, admin); err != nil {
		return fmt.Errorf("failed to seed demo customer: %w", err)
	}
	return nil
}
