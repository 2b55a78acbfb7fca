package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/services"
)

// NotFoundHandler renders the 404 page for unknown routes and products
type NotFoundHandler struct {
	page
}

// NewNotFoundHandler creates a new not-found handler
func NewNotFoundHandler(auth services.AuthService, log logrus.FieldLogger) (*NotFoundHandler, error) {
	p, err := newPage("notfound.html", auth, log)
	if err != nil {
		return nil, err
	}
	return &NotFoundHandler{page: p}, nil
}

// ServeHTTP always answers 404
func (h *NotFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.WithField("path", r.URL.Path).Debug("Page not found")
	h.render(w, r, http.StatusNotFound, "Not Found", nil)
}
