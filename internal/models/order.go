package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents valid order states
type OrderStatus string

// Order statuses
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// DefaultCurrency is the only currency the shop sells in.
const DefaultCurrency = "USD"

// OrderLine is a product as it was priced when the order was placed.
type OrderLine struct {
	OrderID     string `db:"order_id"`
	ProductID   int64  `db:"product_id"`
	ProductName string `db:"product_name"`
	UnitPrice   int64  `db:"unit_price"`
	Quantity    int    `db:"quantity"`
}

// Total is the line amount in cents.
func (l OrderLine) Total() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Order represents a customer order with business logic
type Order struct {
	ID         string      `db:"id"`
	Reference  string      `db:"reference"`
	CustomerID string      `db:"customer_id"`
	Amount     int64       `db:"amount"`
	Currency   string      `db:"currency"`
	Status     OrderStatus `db:"status"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
	Lines      []OrderLine `db:"-"`
}

// Domain errors
var (
	ErrInvalidAmount           = errors.New("order amount must be positive")
	ErrInvalidCurrency         = errors.New("currency code must be 3 characters")
	ErrMissingCustomer         = errors.New("order needs a customer")
	ErrEmptyOrder              = errors.New("order has no lines")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// NewOrder turns the cart into a pending order for customerID. Line prices are
// the discounted prices shown in the cart.
func NewOrder(customerID string, cart *Cart, currency string) (*Order, error) {
	if customerID == "" {
		return nil, ErrMissingCustomer
	}
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyOrder
	}
	if err := validateOrderInput(cart.Total(), currency); err != nil {
		return nil, err
	}

	id := uuid.New()
	now := time.Now()
	order := &Order{
		ID:         id.String(),
		Reference:  "ORDER-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:12]),
		CustomerID: customerID,
		Amount:     cart.Total(),
		Currency:   currency,
		Status:     OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, l := range cart.Lines {
		order.Lines = append(order.Lines, OrderLine{
			OrderID:     order.ID,
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			UnitPrice:   l.Product.DiscountedPrice(),
			Quantity:    l.Quantity,
		})
	}
	return order, nil
}

// validateOrderInput validates order creation parameters
func validateOrderInput(amount int64, currency string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if len(currency) != 3 {
		return ErrInvalidCurrency
	}
	return nil
}

// Confirm accepts a pending order.
func (o *Order) Confirm() error {
	if o.Status != OrderStatusPending {
		return fmt.Errorf("%w: cannot confirm order with status %s", ErrInvalidStatusTransition, o.Status)
	}

	o.Status = OrderStatusConfirmed
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel marks the order as cancelled
func (o *Order) Cancel() error {
	if o.Status == OrderStatusCancelled {
		return fmt.Errorf("%w: order is already cancelled", ErrInvalidStatusTransition)
	}

	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// IsPending returns true if the order is in pending status
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsConfirmed returns true if the order is confirmed
func (o *Order) IsConfirmed() bool {
	return o.Status == OrderStatusConfirmed
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// ItemCount sums the quantities of all lines.
func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// GetFormattedAmount returns the amount formatted with currency
func (o *Order) GetFormattedAmount() string {
	return FormatPrice(o.Amount) + " " + o.Currency
}
