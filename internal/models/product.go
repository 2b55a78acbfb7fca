package models

import (
	"fmt"
	"time"
)

// Product is a catalog item. Prices are in cents.
type Product struct {
	ID              int64     `db:"id"`
	Name            string    `db:"name"`
	Description     string    `db:"description"`
	Category        string    `db:"category"`
	PriceCents      int64     `db:"price_cents"`
	DiscountPercent int       `db:"discount_percent"`
	ImageURL        string    `db:"image_url"`
	CreatedAt       time.Time `db:"created_at"`
}

// DiscountedPrice is the unit price after the product discount, rounded down
// to the cent.
func (p Product) DiscountedPrice() int64 {
	if p.DiscountPercent <= 0 {
		return p.PriceCents
	}
	if p.DiscountPercent >= 100 {
		return 0
	}
	return p.PriceCents * int64(100-p.DiscountPercent) / 100
}

// FormatPrice renders cents as dollars, e.g. 1050 -> "$10.50".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
