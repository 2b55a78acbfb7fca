package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/services"
	"github.com/vegana/shop/internal/session"
	"github.com/vegana/shop/internal/web"
)

// CartOperation selects what a CartAPIHandler does.
type CartOperation string

const (
	CartUpdate CartOperation = "update"
	CartRemove CartOperation = "remove"
)

// CartAPIHandler applies one cart change and answers with the re-rendered
// cart fragment. Failures are JSON ErrorResponse bodies.
type CartAPIHandler struct {
	fragment *template.Template
	carts    services.CartService
	op       CartOperation
	log      logrus.FieldLogger
}

// NewCartAPIHandler creates a handler for POST /api/cart/<op>
func NewCartAPIHandler(carts services.CartService, op CartOperation, log logrus.FieldLogger) (*CartAPIHandler, error) {
	if op != CartUpdate && op != CartRemove {
		return nil, fmt.Errorf("unknown cart operation %q", op)
	}
	tmpl, err := web.CartFragment()
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CartAPIHandler{
		fragment: tmpl,
		carts:    carts,
		op:       op,
		log:      log.WithFields(logrus.Fields{"page": "cart", "op": op}),
	}, nil
}

// ServeHTTP handles the cart change request
func (h *CartAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sid := session.ID(r.Context())
	productID := r.PostFormValue("productId")
	log := h.log.WithField("product", productID)

	var (
		cart *models.Cart
		err  error
	)
	switch h.op {
	case CartUpdate:
		q, convErr := strconv.Atoi(r.PostFormValue("quantity"))
		if convErr != nil {
			sendErrorResponse(w, "Quantity must be a number", http.StatusBadRequest)
			return
		}
		cart, err = h.carts.Update(r.Context(), sid, productID, q)
	case CartRemove:
		cart, err = h.carts.Remove(r.Context(), sid, productID)
	}

	switch {
	case errors.Is(err, models.ErrInvalidQuantity):
		sendErrorResponse(w, web.Sentence(err.Error()), http.StatusBadRequest)
		return
	case errors.Is(err, services.ErrNotInCart), errors.Is(err, services.ErrProductNotFound):
		sendErrorResponse(w, web.Sentence(err.Error()), http.StatusNotFound)
		return
	case err != nil:
		log.WithError(err).Error("Error changing cart")
		sendErrorResponse(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.fragment.ExecuteTemplate(&buf, "cart-fragment", cart); err != nil {
		log.WithError(err).Error("Error rendering cart fragment")
		sendErrorResponse(w, "Failed to render cart", http.StatusInternalServerError)
		return
	}
	log.WithField("revision", cart.Revision).Debug("Cart changed")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
