package services

import (
	"context"

	"github.com/vegana/shop/internal/models"
)

// ProductRepository defines the interface for catalog reads
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Latest(ctx context.Context, limit int) ([]models.Product, error)
	ByCategory(ctx context.Context, category string, excludeID int64, limit int) ([]models.Product, error)
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	Create(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.Customer, error)
}

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Add(ctx context.Context, sessionID string, productID int64, quantity int) error
	SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error
	Remove(ctx context.Context, sessionID string, productID int64) error
	Clear(ctx context.Context, sessionID string) error
	Move(ctx context.Context, from, to string) error
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByReference(ctx context.Context, reference string) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, reference string, status models.OrderStatus) error
}
