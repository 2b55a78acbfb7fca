package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/services"
)

// HomeHandler serves the landing page with the latest products.
type HomeHandler struct {
	page
	catalog services.CatalogService
}

// HomeData is the home template content.
type HomeData struct {
	Products []models.Product
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(catalog services.CatalogService, auth services.AuthService, log logrus.FieldLogger) (*HomeHandler, error) {
	p, err := newPage("home.html", auth, log)
	if err != nil {
		return nil, err
	}
	return &HomeHandler{page: p, catalog: catalog}, nil
}

// ServeHTTP handles the GET / request
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products, err := h.catalog.Latest(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Error loading latest products")
		http.Error(w, "Failed to load products", http.StatusInternalServerError)
		return
	}

	h.render(w, r, http.StatusOK, "Home", HomeData{Products: products})
}
