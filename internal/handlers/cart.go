package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/services"
	"github.com/vegana/shop/internal/session"
)

// CartHandler serves the /cartlist page
type CartHandler struct {
	page
	carts services.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts services.CartService, auth services.AuthService, log logrus.FieldLogger) (*CartHandler, error) {
	p, err := newPage("cart.html", auth, log)
	if err != nil {
		return nil, err
	}
	return &CartHandler{page: p, carts: carts}, nil
}

// ServeHTTP renders the session cart
func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cart, err := h.carts.Cart(r.Context(), session.ID(r.Context()))
	if err != nil {
		h.log.WithError(err).Error("Error loading cart")
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	h.render(w, r, http.StatusOK, "Cart", cart)
}

// CartAddHandler handles the add-to-cart form of the product page
type CartAddHandler struct {
	carts services.CartService
	log   logrus.FieldLogger
}

// NewCartAddHandler creates a new add-to-cart handler
func NewCartAddHandler(carts services.CartService, log logrus.FieldLogger) *CartAddHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CartAddHandler{carts: carts, log: log.WithField("page", "cart")}
}

// ServeHTTP handles POST /cart/add and redirects to the cart
func (h *CartAddHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	productID := r.PostFormValue("productId")
	quantity := 1
	if s := r.PostFormValue("quantity"); s != "" {
		q, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "Quantity must be a number", http.StatusBadRequest)
			return
		}
		quantity = q
	}
	log := h.log.WithFields(logrus.Fields{"product": productID, "quantity": quantity})

	var sid string
	if sess := session.Ensure(r.Context()); sess != nil {
		sid = sess.ID
	}
	_, err := h.carts.Add(r.Context(), sid, productID, quantity)
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		log.Info("Unknown product added to cart")
		http.Redirect(w, r, "/not-found", http.StatusSeeOther)
		return
	case errors.Is(err, models.ErrInvalidQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.WithError(err).Error("Error adding to cart")
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	log.Debug("Product added to cart")
	http.Redirect(w, r, "/cartlist", http.StatusSeeOther)
}
