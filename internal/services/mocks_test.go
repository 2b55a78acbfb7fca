package services

import (
	"context"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/repository"
)

// MockProductRepository is a mock implementation of ProductRepository for testing
type MockProductRepository struct {
	GetByIDFunc    func(context.Context, int64) (*models.Product, error)
	LatestFunc     func(context.Context, int) ([]models.Product, error)
	ByCategoryFunc func(context.Context, string, int64, int) ([]models.Product, error)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *MockProductRepository) Latest(ctx context.Context, limit int) ([]models.Product, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockProductRepository) ByCategory(ctx context.Context, category string, excludeID int64, limit int) ([]models.Product, error) {
	if m.ByCategoryFunc != nil {
		return m.ByCategoryFunc(ctx, category, excludeID, limit)
	}
	return nil, nil
}

// MockCustomerRepository is a mock implementation of CustomerRepository for testing
type MockCustomerRepository struct {
	CreateFunc  func(context.Context, *models.Customer) error
	GetByIDFunc func(context.Context, string) (*models.Customer, error)
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

// MockCartRepository is a mock implementation of CartRepository for testing
type MockCartRepository struct {
	GetFunc         func(context.Context, string) (*models.Cart, error)
	AddFunc         func(context.Context, string, int64, int) error
	SetQuantityFunc func(context.Context, string, int64, int) error
	RemoveFunc      func(context.Context, string, int64) error
	ClearFunc       func(context.Context, string) error
	MoveFunc        func(context.Context, string, string) error
}

func (m *MockCartRepository) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, sessionID)
	}
	return &models.Cart{SessionID: sessionID}, nil
}

func (m *MockCartRepository) Add(ctx context.Context, sessionID string, productID int64, quantity int) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, sessionID, productID, quantity)
	}
	return nil
}

func (m *MockCartRepository) SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) error {
	if m.SetQuantityFunc != nil {
		return m.SetQuantityFunc(ctx, sessionID, productID, quantity)
	}
	return nil
}

func (m *MockCartRepository) Remove(ctx context.Context, sessionID string, productID int64) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, sessionID, productID)
	}
	return nil
}

func (m *MockCartRepository) Clear(ctx context.Context, sessionID string) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockCartRepository) Move(ctx context.Context, from, to string) error {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, from, to)
	}
	return nil
}

// MockOrderRepository is a mock implementation of OrderRepository for testing
type MockOrderRepository struct {
	CreateOrderFunc         func(context.Context, *models.Order) error
	GetOrderByReferenceFunc func(context.Context, string) (*models.Order, error)
	ListByCustomerFunc      func(context.Context, string) ([]*models.Order, error)
	UpdateOrderStatusFunc   func(context.Context, string, models.OrderStatus) error
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, order)
	}
	return nil
}

func (m *MockOrderRepository) GetOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	if m.GetOrderByReferenceFunc != nil {
		return m.GetOrderByReferenceFunc(ctx, reference)
	}
	return &models.Order{Reference: reference, Status: models.OrderStatusPending}, nil
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.Order, error) {
	if m.ListByCustomerFunc != nil {
		return m.ListByCustomerFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, reference string, status models.OrderStatus) error {
	if m.UpdateOrderStatusFunc != nil {
		return m.UpdateOrderStatusFunc(ctx, reference, status)
	}
	return nil
}
