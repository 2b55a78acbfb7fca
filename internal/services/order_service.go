package services

import (
	"context"
	"fmt"

	"github.com/vegana/shop/internal/models"
)

// OrderService handles order business logic
type OrderService interface {
	PlaceOrder(ctx context.Context, customerID, sessionID string) (*models.Order, error)
	GetOrderByReference(ctx context.Context, reference string) (*models.Order, error)
	OrdersFor(ctx context.Context, customerID string) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, reference string, status models.OrderStatus) error
}

// OrderServiceImpl implements OrderService
type OrderServiceImpl struct {
	orderRepo OrderRepository
	carts     CartService
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo OrderRepository, carts CartService) OrderService {
	return &OrderServiceImpl{
		orderRepo: orderRepo,
		carts:     carts,
	}
}

// PlaceOrder turns the session cart into a confirmed order and empties the
// cart.
func (s *OrderServiceImpl) PlaceOrder(ctx context.Context, customerID, sessionID string) (*models.Order, error) {
	cart, err := s.carts.Cart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Create order using domain factory method
	order, err := models.NewOrder(customerID, cart, models.DefaultCurrency)
	if err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}
	// There is no payment step; orders are accepted as placed.
	if err := order.Confirm(); err != nil {
		return nil, err
	}

	// Persist to database
	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		return order, fmt.Errorf("order %s placed but cart not cleared: %w", order.Reference, err)
	}

	return order, nil
}

// GetOrderByReference retrieves an order by its reference
func (s *OrderServiceImpl) GetOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// OrdersFor lists a customer's orders, newest first.
func (s *OrderServiceImpl) OrdersFor(ctx context.Context, customerID string) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus updates the status of an order
func (s *OrderServiceImpl) UpdateOrderStatus(ctx context.Context, reference string, status models.OrderStatus) error {
	// Get the order
	order, err := s.orderRepo.GetOrderByReference(ctx, reference)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	// Use domain methods to transition state
	switch status {
	case models.OrderStatusConfirmed:
		if err := order.Confirm(); err != nil {
			return err
		}
	case models.OrderStatusCancelled:
		if err := order.Cancel(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid order status: %s", status)
	}

	// Update in database
	if err := s.orderRepo.UpdateOrderStatus(ctx, reference, order.Status); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}
