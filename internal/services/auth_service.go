package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/repository"
)

// Auth errors
var (
	ErrMissingCredentials = errors.New("customer ID and password are required")
	ErrInvalidCredentials = errors.New("invalid customer ID or password")
	ErrCustomerExists     = errors.New("customer ID already exists")
	ErrTermsNotAccepted   = errors.New("you must accept the terms and conditions")
)

// Registration is the sign-up form content
type Registration struct {
	CustomerID  string
	FullName    string
	Email       string
	Password    string
	AcceptTerms bool
}

// AuthService handles sign-in and sign-up
type AuthService interface {
	Authenticate(ctx context.Context, customerID, password string) (*models.Customer, error)
	Register(ctx context.Context, r Registration) (*models.Customer, error)
	Customer(ctx context.Context, customerID string) (*models.Customer, error)
}

// AuthServiceImpl implements AuthService
type AuthServiceImpl struct {
	customers CustomerRepository
}

// NewAuthService creates a new auth service
func NewAuthService(customers CustomerRepository) AuthService {
	return &AuthServiceImpl{customers: customers}
}

// Authenticate checks the credentials. Unknown ids and wrong passwords give the
// same error.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, customerID, password string) (*models.Customer, error) {
	if customerID == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	c, err := s.customers.GetByID(ctx, customerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if !c.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return c, nil
}

// Register validates and stores a new customer. It does not sign them in.
func (s *AuthServiceImpl) Register(ctx context.Context, r Registration) (*models.Customer, error) {
	c, err := models.NewCustomer(r.CustomerID, r.FullName, r.Email, r.Password)
	if err != nil {
		return nil, err
	}
	if !r.AcceptTerms {
		return nil, ErrTermsNotAccepted
	}
	if err := s.customers.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCustomerExists
		}
		return nil, fmt.Errorf("failed to register customer: %w", err)
	}
	return c, nil
}

// Customer loads a signed-in customer.
func (s *AuthServiceImpl) Customer(ctx context.Context, customerID string) (*models.Customer, error) {
	c, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}
