package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/services"
	"github.com/vegana/shop/internal/session"
)

// CheckoutHandler handles the checkout page
type CheckoutHandler struct {
	page
	carts   services.CartService
	orders  services.OrderService
	onOrder func(*models.Order)
}

// CheckoutData represents the data passed to the checkout template
type CheckoutData struct {
	Cart  *models.Cart
	Error string
}

// NewCheckoutHandler creates a new checkout handler. onOrder, when set, is
// called for every placed order.
func NewCheckoutHandler(carts services.CartService, orders services.OrderService, auth services.AuthService, onOrder func(*models.Order), log logrus.FieldLogger) (*CheckoutHandler, error) {
	p, err := newPage("checkout.html", auth, log)
	if err != nil {
		return nil, err
	}
	return &CheckoutHandler{page: p, carts: carts, orders: orders, onOrder: onOrder}, nil
}

// ServeHTTP shows the order review on GET and places the order on POST
func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	customerID := session.CustomerID(r.Context())
	if customerID == "" {
		redirectToLogin(w, r, "/checkout")
		return
	}
	sid := session.ID(r.Context())

	cart, err := h.carts.Cart(r.Context(), sid)
	if err != nil {
		h.log.WithError(err).Error("Error loading cart")
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}
	if cart.IsEmpty() {
		http.Redirect(w, r, "/cartlist", http.StatusSeeOther)
		return
	}
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "Checkout", CheckoutData{Cart: cart})
		return
	}

	log := h.log.WithField("customer", customerID)
	order, err := h.orders.PlaceOrder(r.Context(), customerID, sid)
	switch {
	case errors.Is(err, models.ErrEmptyOrder):
		http.Redirect(w, r, "/cartlist", http.StatusSeeOther)
		return
	case err != nil && order == nil:
		log.WithError(err).Error("Error placing order")
		h.render(w, r, http.StatusInternalServerError, "Checkout", CheckoutData{
			Cart:  cart,
			Error: "Your order could not be placed, please try again.",
		})
		return
	case err != nil:
		// Placed, but the cart survived; the customer can empty it by hand.
		log.WithError(err).Warn("Order placed with errors")
	}

	if h.onOrder != nil {
		h.onOrder(order)
	}
	log.WithFields(logrus.Fields{
		"reference": order.Reference,
		"amount":    order.GetFormattedAmount(),
	}).Info("Order placed")
	http.Redirect(w, r, "/account", http.StatusSeeOther)
}
