package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/services"
)

// ProductHandler handles the product detail page requests
type ProductHandler struct {
	page
	catalog services.CatalogService
}

// ProductData is the product template content.
type ProductData struct {
	Product   *models.Product
	Suggested []models.Product
	Latest    []models.Product
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog services.CatalogService, auth services.AuthService, log logrus.FieldLogger) (*ProductHandler, error) {
	p, err := newPage("product.html", auth, log)
	if err != nil {
		return nil, err
	}
	return &ProductHandler{page: p, catalog: catalog}, nil
}

// ServeHTTP handles GET /productDetail?productId=<id>. Unknown ids redirect to
// /not-found.
func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("productId")
	log := h.log.WithField("product", id)
	p, err := h.catalog.Product(r.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		log.Info("Unknown product requested")
		http.Redirect(w, r, "/not-found", http.StatusFound)
		return
	}
	if err != nil {
		log.WithError(err).Error("Error loading product")
		http.Error(w, "Failed to load product", http.StatusInternalServerError)
		return
	}

	data := ProductData{Product: p}
	// The side lists are optional; the page renders without them.
	if data.Suggested, err = h.catalog.Suggestions(r.Context(), p); err != nil {
		log.WithError(err).Warn("Error loading suggestions")
	}
	if data.Latest, err = h.catalog.Latest(r.Context()); err != nil {
		log.WithError(err).Warn("Error loading latest products")
	}

	h.render(w, r, http.StatusOK, p.Name, data)
}
