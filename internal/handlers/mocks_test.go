package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/repository"
	"github.com/vegana/shop/internal/services"
	"github.com/vegana/shop/internal/session"
)

var (
	admin   = &models.Customer{ID: "admin", FullName: "Vegana Admin", Email: "admin@vegana.shop"}
	quinoa  = models.Product{ID: 1, Name: "Organic Quinoa", Category: "Grains", Description: "Fluffy white quinoa.", PriceCents: 450, ImageURL: "/static/images/product.svg"}
	oatMilk = models.Product{ID: 5, Name: "Oat Milk", Category: "Plant Milk", PriceCents: 1000, DiscountPercent: 20, ImageURL: "/static/images/product.svg"}
)

// MockAuthService is a mock implementation of AuthService for testing
type MockAuthService struct {
	AuthenticateFunc func(ctx context.Context, customerID, password string) (*models.Customer, error)
	RegisterFunc     func(ctx context.Context, r services.Registration) (*models.Customer, error)
	CustomerFunc     func(ctx context.Context, customerID string) (*models.Customer, error)
}

func (m *MockAuthService) Authenticate(ctx context.Context, customerID, password string) (*models.Customer, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, customerID, password)
	}
	return nil, services.ErrInvalidCredentials
}

func (m *MockAuthService) Register(ctx context.Context, r services.Registration) (*models.Customer, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, r)
	}
	return &models.Customer{ID: r.CustomerID, FullName: r.FullName, Email: r.Email}, nil
}

func (m *MockAuthService) Customer(ctx context.Context, customerID string) (*models.Customer, error) {
	if m.CustomerFunc != nil {
		return m.CustomerFunc(ctx, customerID)
	}
	if customerID == admin.ID {
		return admin, nil
	}
	return nil, fmt.Errorf("failed to get customer: %w", repository.ErrNotFound)
}

// MockCatalogService is a mock implementation of CatalogService for testing
type MockCatalogService struct {
	ProductFunc     func(ctx context.Context, id string) (*models.Product, error)
	LatestFunc      func(ctx context.Context) ([]models.Product, error)
	SuggestionsFunc func(ctx context.Context, p *models.Product) ([]models.Product, error)
}

func (m *MockCatalogService) Product(ctx context.Context, id string) (*models.Product, error) {
	if m.ProductFunc != nil {
		return m.ProductFunc(ctx, id)
	}
	if id == "1" {
		p := quinoa
		return &p, nil
	}
	return nil, services.ErrProductNotFound
}

func (m *MockCatalogService) Latest(ctx context.Context) ([]models.Product, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx)
	}
	return []models.Product{oatMilk, quinoa}, nil
}

func (m *MockCatalogService) Suggestions(ctx context.Context, p *models.Product) ([]models.Product, error) {
	if m.SuggestionsFunc != nil {
		return m.SuggestionsFunc(ctx, p)
	}
	return []models.Product{oatMilk}, nil
}

// MockCartService is a mock implementation of CartService for testing
type MockCartService struct {
	CartFunc     func(ctx context.Context, sessionID string) (*models.Cart, error)
	AddFunc      func(ctx context.Context, sessionID, productID string, quantity int) (*models.Cart, error)
	UpdateFunc   func(ctx context.Context, sessionID, productID string, quantity int) (*models.Cart, error)
	RemoveFunc   func(ctx context.Context, sessionID, productID string) (*models.Cart, error)
	ClearFunc    func(ctx context.Context, sessionID string) error
	TransferFunc func(ctx context.Context, fromSession, toSession string) error
}

func (m *MockCartService) Cart(ctx context.Context, sessionID string) (*models.Cart, error) {
	if m.CartFunc != nil {
		return m.CartFunc(ctx, sessionID)
	}
	return &models.Cart{SessionID: sessionID}, nil
}

func (m *MockCartService) Add(ctx context.Context, sessionID, productID string, quantity int) (*models.Cart, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, sessionID, productID, quantity)
	}
	return &models.Cart{SessionID: sessionID}, nil
}

func (m *MockCartService) Update(ctx context.Context, sessionID, productID string, quantity int) (*models.Cart, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, sessionID, productID, quantity)
	}
	return &models.Cart{SessionID: sessionID}, nil
}

func (m *MockCartService) Remove(ctx context.Context, sessionID, productID string) (*models.Cart, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, sessionID, productID)
	}
	return &models.Cart{SessionID: sessionID}, nil
}

func (m *MockCartService) Clear(ctx context.Context, sessionID string) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockCartService) Transfer(ctx context.Context, fromSession, toSession string) error {
	if m.TransferFunc != nil {
		return m.TransferFunc(ctx, fromSession, toSession)
	}
	return nil
}

// MockOrderService is a mock implementation of OrderService for testing
type MockOrderService struct {
	PlaceOrderFunc          func(ctx context.Context, customerID, sessionID string) (*models.Order, error)
	GetOrderByReferenceFunc func(ctx context.Context, reference string) (*models.Order, error)
	OrdersForFunc           func(ctx context.Context, customerID string) ([]*models.Order, error)
	UpdateOrderStatusFunc   func(ctx context.Context, reference string, status models.OrderStatus) error
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, customerID, sessionID string) (*models.Order, error) {
	if m.PlaceOrderFunc != nil {
		return m.PlaceOrderFunc(ctx, customerID, sessionID)
	}
	return &models.Order{Reference: "ORDER-TEST", CustomerID: customerID, Amount: 450, Currency: "USD", Status: models.OrderStatusConfirmed}, nil
}

func (m *MockOrderService) GetOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	if m.GetOrderByReferenceFunc != nil {
		return m.GetOrderByReferenceFunc(ctx, reference)
	}
	return &models.Order{Reference: reference}, nil
}

func (m *MockOrderService) OrdersFor(ctx context.Context, customerID string) ([]*models.Order, error) {
	if m.OrdersForFunc != nil {
		return m.OrdersForFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, reference string, status models.OrderStatus) error {
	if m.UpdateOrderStatusFunc != nil {
		return m.UpdateOrderStatusFunc(ctx, reference, status)
	}
	return nil
}

// withSession attaches session "sess-1" to r, signed in as customerID unless
// it is empty.
func withSession(r *http.Request, customerID string) (*http.Request, *session.Session) {
	sess := session.NewSession("sess-1", customerID)
	return r.WithContext(session.WithSession(r.Context(), sess)), sess
}

func document(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to parse HTML: %v", err)
	}
	return doc
}

func cartWith(lines ...models.CartLine) *models.Cart {
	return &models.Cart{SessionID: "sess-1", Revision: int64(len(lines)), Lines: lines}
}

func confirmedOrder(ref string, created time.Time) *models.Order {
	return &models.Order{
		Reference:  ref,
		CustomerID: admin.ID,
		Amount:     900,
		Currency:   "USD",
		Status:     models.OrderStatusConfirmed,
		CreatedAt:  created,
		Lines:      []models.OrderLine{{ProductID: 1, ProductName: "Organic Quinoa", UnitPrice: 450, Quantity: 2}},
	}
}
