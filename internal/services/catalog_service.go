package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/repository"
)

// Catalog limits
const (
	LatestProducts    = 10
	SuggestedProducts = 4
)

var ErrProductNotFound = errors.New("product not found")

// CatalogService reads products for the shop pages
type CatalogService interface {
	Product(ctx context.Context, id string) (*models.Product, error)
	Latest(ctx context.Context) ([]models.Product, error)
	Suggestions(ctx context.Context, p *models.Product) ([]models.Product, error)
}

// CatalogServiceImpl implements CatalogService
type CatalogServiceImpl struct {
	products ProductRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products ProductRepository) CatalogService {
	return &CatalogServiceImpl{products: products}
}

// ParseProductID accepts positive decimal ids.
func ParseProductID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", ErrProductNotFound, id)
	}
	return n, nil
}

// Product returns ErrProductNotFound for malformed and unknown ids.
func (s *CatalogServiceImpl) Product(ctx context.Context, id string) (*models.Product, error) {
	n, err := ParseProductID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.products.GetByID(ctx, n)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, n)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// Latest returns the newest products.
func (s *CatalogServiceImpl) Latest(ctx context.Context) ([]models.Product, error) {
	return s.products.Latest(ctx, LatestProducts)
}

// Suggestions lists other products of the same category. Products without a
// category get the latest products instead.
func (s *CatalogServiceImpl) Suggestions(ctx context.Context, p *models.Product) ([]models.Product, error) {
	if p.Category != "" {
		return s.products.ByCategory(ctx, p.Category, p.ID, SuggestedProducts)
	}
	latest, err := s.products.Latest(ctx, SuggestedProducts+1)
	if err != nil {
		return nil, err
	}
	out := latest[:0]
	for _, l := range latest {
		if l.ID != p.ID && len(out) < SuggestedProducts {
			out = append(out, l)
		}
	}
	return out, nil
}
