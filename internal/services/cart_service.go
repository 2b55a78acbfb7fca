package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/repository"
)

var ErrNotInCart = errors.New("product is not in the cart")

// CartService manages the session cart
type CartService interface {
	Cart(ctx context.Context, sessionID string) (*models.Cart, error)
	Add(ctx context.Context, sessionID, productID string, quantity int) (*models.Cart, error)
	Update(ctx context.Context, sessionID, productID string, quantity int) (*models.Cart, error)
	Remove(ctx context.Context, sessionID, productID string) (*models.Cart, error)
	Clear(ctx context.Context, sessionID string) error
	Transfer(ctx context.Context, fromSession, toSession string) error
}

// CartServiceImpl implements CartService
type CartServiceImpl struct {
	carts   CartRepository
	catalog CatalogService
}

// NewCartService creates a new cart service
func NewCartService(carts CartRepository, catalog CatalogService) CartService {
	return &CartServiceImpl{carts: carts, catalog: catalog}
}

func (s *CartServiceImpl) Cart(ctx context.Context, sessionID string) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// Add puts quantity of a catalog product into the cart and returns the
// updated cart.
func (s *CartServiceImpl) Add(ctx context.Context, sessionID, productID string, quantity int) (*models.Cart, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Add(ctx, sessionID, p.ID, quantity); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	return s.Cart(ctx, sessionID)
}

// Update sets the quantity of a line already in the cart.
func (s *CartServiceImpl) Update(ctx context.Context, sessionID, productID string, quantity int) (*models.Cart, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	id, err := ParseProductID(productID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.SetQuantity(ctx, sessionID, id, quantity); err != nil {
		return nil, cartError(err)
	}
	return s.Cart(ctx, sessionID)
}

// Remove deletes a line from the cart.
func (s *CartServiceImpl) Remove(ctx context.Context, sessionID, productID string) (*models.Cart, error) {
	id, err := ParseProductID(productID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Remove(ctx, sessionID, id); err != nil {
		return nil, cartError(err)
	}
	return s.Cart(ctx, sessionID)
}

func (s *CartServiceImpl) Clear(ctx context.Context, sessionID string) error {
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Transfer moves the cart of an anonymous session to the session that
// replaced it at sign-in. It is a no-op when there was no previous session.
func (s *CartServiceImpl) Transfer(ctx context.Context, fromSession, toSession string) error {
	if fromSession == "" || fromSession == toSession {
		return nil
	}
	if err := s.carts.Move(ctx, fromSession, toSession); err != nil {
		return fmt.Errorf("failed to transfer cart: %w", err)
	}
	return nil
}

func cartError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotInCart
	}
	return fmt.Errorf("failed to update cart: %w", err)
}
