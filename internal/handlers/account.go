package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/repository"
	"github.com/vegana/shop/internal/services"
	"github.com/vegana/shop/internal/session"
	"github.com/vegana/shop/internal/web"
)

// AccountHandler shows the signed-in customer's profile and order history
type AccountHandler struct {
	page
	orders services.OrderService
}

// AccountData represents the data for the account template
type AccountData struct {
	Customer *models.Customer
	Orders   []*models.Order
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(auth services.AuthService, orders services.OrderService, log logrus.FieldLogger) (*AccountHandler, error) {
	p, err := newPage("account.html", auth, log)
	if err != nil {
		return nil, err
	}
	return &AccountHandler{page: p, orders: orders}, nil
}

// ServeHTTP handles the account page request
func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := session.CustomerID(r.Context())
	if id == "" {
		redirectToLogin(w, r, "/account")
		return
	}
	log := h.log.WithField("customer", id)

	c, err := h.auth.Customer(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		// The account is gone; drop the stale sign-in.
		session.SignOut(r.Context())
		redirectToLogin(w, r, "/account")
		return
	}
	if err != nil {
		log.WithError(err).Error("Error loading customer")
		http.Error(w, "Failed to load account", http.StatusInternalServerError)
		return
	}

	orders, err := h.orders.OrdersFor(r.Context(), id)
	if err != nil {
		log.WithError(err).Error("Error loading orders")
		http.Error(w, "Failed to load orders", http.StatusInternalServerError)
		return
	}

	h.renderView(w, http.StatusOK, web.View{
		Title:        "Account",
		LoggedIn:     true,
		CustomerName: c.FullName,
		Content:      AccountData{Customer: c, Orders: orders},
	})
}
