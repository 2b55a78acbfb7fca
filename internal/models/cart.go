package models

import (
	"errors"
	"fmt"
)

// MaxQuantity caps a single cart line.
const MaxQuantity = 99

var ErrInvalidQuantity = fmt.Errorf("quantity must be between 1 and %d", MaxQuantity)

var ErrUnknownProduct = errors.New("product does not exist")

// ValidateQuantity checks a requested line quantity.
func ValidateQuantity(q int) error {
	if q < 1 || q > MaxQuantity {
		return ErrInvalidQuantity
	}
	return nil
}

// CartLine is one product in a cart.
type CartLine struct {
	Product  Product
	Quantity int
}

// UnitPrice is the list price before discount.
func (l CartLine) UnitPrice() int64 {
	return l.Product.PriceCents
}

// Total is the discounted unit price times the quantity.
func (l CartLine) Total() int64 {
	return l.Product.DiscountedPrice() * int64(l.Quantity)
}

// Cart belongs to one browser session. Revision increases on every change so
// clients can tell a re-rendered cart from a stale one.
type Cart struct {
	SessionID string
	Revision  int64
	Lines     []CartLine
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Count sums the quantities of all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Total is the sum of the line totals.
func (c *Cart) Total() int64 {
	var t int64
	for _, l := range c.Lines {
		t += l.Total()
	}
	return t
}

// Line returns the line for productID.
func (c *Cart) Line(productID int64) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.Product.ID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}
