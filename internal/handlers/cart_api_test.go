package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/vegana/shop/internal/models"
	"github.com/vegana/shop/internal/services"
)

func TestNewCartAPIHandler_UnknownOperation(t *testing.T) {
	if _, err := NewCartAPIHandler(&MockCartService{}, CartOperation("clear"), nil); err == nil {
		t.Error("expected an error for an unknown operation")
	}
}

func TestCartAPIHandler_Update(t *testing.T) {
	tests := []struct {
		name           string
		quantity       string
		updateErr      error
		expectedStatus int
		wantMessage    string
	}{
		{"valid quantity", "3", nil, http.StatusOK, ""},
		{"not a number", "three", nil, http.StatusBadRequest, "Quantity must be a number"},
		{"out of range", "0", models.ErrInvalidQuantity, http.StatusBadRequest, "Quantity must be between 1 and 99"},
		{"not in cart", "2", services.ErrNotInCart, http.StatusNotFound, "Product is not in the cart"},
		{"service error", "2", errors.New("database error"), http.StatusInternalServerError, "Failed to update cart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			var gotProduct string
			var gotQuantity int
			carts := &MockCartService{
				UpdateFunc: func(_ context.Context, sid, productID string, quantity int) (*models.Cart, error) {
					gotProduct, gotQuantity = productID, quantity
					if tt.updateErr != nil {
						return nil, tt.updateErr
					}
					cart := cartWith(models.CartLine{Product: quinoa, Quantity: quantity})
					cart.Revision = 7
					return cart, nil
				},
			}
			handler, err := NewCartAPIHandler(carts, CartUpdate, nil)
			if err != nil {
				t.Fatalf("Failed to create handler: %v", err)
			}
			req, _ := withSession(postForm("/api/cart/update", url.Values{"productId": {"1"}, "quantity": {tt.quantity}}), "")
			w := httptest.NewRecorder()

			// WHEN
			handler.ServeHTTP(w, req)

			// THEN
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if resp.Message != tt.wantMessage {
					t.Errorf("expected message %q, got %q", tt.wantMessage, resp.Message)
				}
				return
			}

			if gotProduct != "1" || gotQuantity != 3 {
				t.Errorf("updated product %q to %d", gotProduct, gotQuantity)
			}
			if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
				t.Errorf("unexpected content type %s", w.Header().Get("Content-Type"))
			}
			doc := document(t, w.Body.String())
			if rev, _ := doc.Find(".cart-fragment").Attr("data-revision"); rev != "7" {
				t.Errorf("expected revision 7, got %q", rev)
			}
			if v, _ := doc.Find(".table-quantity input").Attr("value"); v != "3" {
				t.Errorf("expected quantity 3, got %q", v)
			}
			if got := doc.Find(".table-total h5").Text(); got != "$13.50" {
				t.Errorf("expected line total $13.50, got %q", got)
			}
			if doc.Find("nav.navbar").Length() != 0 {
				t.Error("fragment must not include the layout")
			}
		})
	}
}

func TestCartAPIHandler_Remove(t *testing.T) {
	tests := []struct {
		name           string
		removeErr      error
		expectedStatus int
	}{
		{"last line removed", nil, http.StatusOK},
		{"not in cart", services.ErrNotInCart, http.StatusNotFound},
		{"unknown product", services.ErrProductNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carts := &MockCartService{
				RemoveFunc: func(context.Context, string, string) (*models.Cart, error) {
					if tt.removeErr != nil {
						return nil, tt.removeErr
					}
					return cartWith(), nil
				},
			}
			handler, err := NewCartAPIHandler(carts, CartRemove, nil)
			if err != nil {
				t.Fatalf("Failed to create handler: %v", err)
			}
			req, _ := withSession(postForm("/api/cart/remove", url.Values{"productId": {"1"}}), "")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}
			doc := document(t, w.Body.String())
			if got := doc.Find(".alert.alert-warning p").Text(); got != "Your cart is empty." {
				t.Errorf("unexpected empty message %q", got)
			}
			if _, ok := doc.Find(".cart-fragment").Attr("data-revision"); !ok {
				t.Error("empty fragment should still carry its revision")
			}
		})
	}
}

func TestCartAPIHandler_MethodNotAllowed(t *testing.T) {
	handler, err := NewCartAPIHandler(&MockCartService{}, CartRemove, nil)
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart/remove", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}
