package pages

import (
	"context"

	"github.com/vegana/shop/internal/browser"
)

var (
	checkoutTitle = browser.Loc("checkout title", ".checkout-title", ".single-content h2")
	checkoutTotal = browser.Loc("checkout total", ".checkout-total", ".order-summary .total")
	checkoutItems = browser.Loc("checkout items", ".checkout-items tbody tr")
	placeOrder    = browser.Loc("place order", "#placeOrderBtn", "form.checkout-form button[type='submit']")
)

// CheckoutPage is the order review step between cart and account.
type CheckoutPage struct {
	page
}

func NewCheckoutPage(d browser.Driver, opts Options) *CheckoutPage {
	return &CheckoutPage{page: newPage("checkout", d, opts)}
}

func (p *CheckoutPage) Open(ctx context.Context) error {
	return p.open(ctx, "/checkout", checkoutTitle)
}

func (p *CheckoutPage) Total(ctx context.Context) string {
	return p.text(ctx, checkoutTotal)
}

func (p *CheckoutPage) ItemCount(ctx context.Context) int {
	return p.count(ctx, checkoutItems)
}

// PlaceOrder submits the order and waits for the account page.
func (p *CheckoutPage) PlaceOrder(ctx context.Context) bool {
	if !p.click(ctx, placeOrder) {
		return false
	}
	return p.settle(ctx, p.urlContains("/account"))
}
