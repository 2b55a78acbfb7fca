package pages

import (
	"context"
	"iter"

	"github.com/vegana/shop/internal/browser"
)

var (
	navbar       = browser.Loc("navbar", "nav.navbar", "header", "nav")
	homeWelcome  = browser.Loc("welcome message", ".welcome-message", ".hero-title", "h1")
	homeLogout   = browser.Loc("logout link", "a[href='/logout']", "a[href*='logout']")
	homeProducts = browser.Loc("product links",
		".product-list .product-item a.product-link",
		".product-item a",
		"a[href*='productDetail']",
	)
)

// HomePage is the storefront landing page.
type HomePage struct {
	page
}

func NewHomePage(d browser.Driver, opts Options) *HomePage {
	return &HomePage{page: newPage("home", d, opts)}
}

func (p *HomePage) Open(ctx context.Context) error {
	return p.open(ctx, "/", navbar)
}

// IsUserLoggedIn reports whether the navbar offers a logout link.
func (p *HomePage) IsUserLoggedIn(ctx context.Context) bool {
	return p.visible(ctx, homeLogout)
}

func (p *HomePage) Logout(ctx context.Context) bool {
	if !p.click(ctx, homeLogout) {
		return false
	}
	return p.settle(ctx, func(ctx context.Context) (bool, error) {
		return !p.visible(ctx, homeLogout), nil
	})
}

func (p *HomePage) WelcomeMessage(ctx context.Context) string {
	return p.text(ctx, homeWelcome)
}

// ProductNames yields the product link texts in page order.
func (p *HomePage) ProductNames(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, el := range homeProducts.FindAll(ctx, p.d) {
			s, err := el.Text(ctx)
			if err != nil {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// OpenProduct follows the i-th product link.
func (p *HomePage) OpenProduct(ctx context.Context, i int) bool {
	if _, ok := p.nth(ctx, homeProducts, i); !ok {
		return false
	}
	if !p.act(ctx, homeProducts.Name, "click", p.nthIn(homeProducts, i), clickElement) {
		return false
	}
	return p.settle(ctx, p.urlContains("/productDetail"))
}
