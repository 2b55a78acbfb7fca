package models

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// Customer validation errors.
var (
	ErrCustomerIDRequired = errors.New("customer ID is required")
	ErrInvalidCustomerID  = errors.New("customer ID may only contain letters, digits, dots, dashes and underscores (3 to 32 characters)")
	ErrFullNameRequired   = errors.New("full name is required")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

var customerIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,32}$`)

// Customer is a registered shopper. ID is the login name.
type Customer struct {
	ID           string    `db:"id"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// NewCustomer validates the registration data and hashes the password.
func NewCustomer(id, fullName, email, password string) (*Customer, error) {
	id, fullName, email = strings.TrimSpace(id), strings.TrimSpace(fullName), strings.TrimSpace(email)
	switch {
	case id == "":
		return nil, ErrCustomerIDRequired
	case !customerIDPattern.MatchString(id):
		return nil, ErrInvalidCustomerID
	case fullName == "":
		return nil, ErrFullNameRequired
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &Customer{
		ID:           id,
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}, nil
}

// CheckPassword reports whether password matches the stored hash.
func (c *Customer) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}
