package pages

import (
	"context"
	"fmt"
	"iter"
	"net/url"

	"github.com/vegana/shop/internal/browser"
)

var (
	productContainer = browser.Loc("product container", ".product-detail", ".product-details", "main")
	productName      = browser.Loc("product name",
		".product-title",
		"[data-testid='product-name']",
		".product-detail h1",
		".product-name",
		".product-info h2",
		"h1",
	)
	productPrice = browser.Loc("product price",
		".product-price",
		"[data-testid='product-price']",
		".price",
	)
	productDescription = browser.Loc("product description",
		".product-description",
		"[data-testid='product-description']",
		".description",
	)
	productCategory = browser.Loc("product category", ".product-category", ".category")
	productImage    = browser.Loc("product image", ".product-image img", ".product-detail img")
	suggested       = browser.Loc("suggested products", ".suggested-products .product-item a", ".related-products a")
	addToCart       = browser.Loc("add to cart", "#addToCartBtn", "form.add-to-cart button[type='submit']", "button.add-to-cart")
)

// ProductDetailPage is /productDetail?productId=<id>.
type ProductDetailPage struct {
	page
}

func NewProductDetailPage(d browser.Driver, opts Options) *ProductDetailPage {
	return &ProductDetailPage{page: newPage("product", d, opts)}
}

// Open navigates to the detail page of product id. Unknown ids land on the
// not-found page.
func (p *ProductDetailPage) Open(ctx context.Context, id string) error {
	return p.open(ctx, fmt.Sprintf("/productDetail?productId=%s", url.QueryEscape(id)), productName, productContainer)
}

// IsPageLoaded reports whether a product name is shown.
func (p *ProductDetailPage) IsPageLoaded(ctx context.Context) bool {
	return p.Name(ctx) != NotFound
}

func (p *ProductDetailPage) Name(ctx context.Context) string {
	return p.text(ctx, productName)
}

func (p *ProductDetailPage) Price(ctx context.Context) string {
	return p.text(ctx, productPrice)
}

func (p *ProductDetailPage) Description(ctx context.Context) string {
	return p.text(ctx, productDescription)
}

func (p *ProductDetailPage) Category(ctx context.Context) string {
	return p.text(ctx, productCategory)
}

func (p *ProductDetailPage) ImageURL(ctx context.Context) string {
	return p.attr(ctx, productImage, "src")
}

// SuggestedProducts yields the names of the suggested products.
func (p *ProductDetailPage) SuggestedProducts(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, el := range suggested.FindAll(ctx, p.d) {
			s, err := el.Text(ctx)
			if err != nil || s == "" {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

func (p *ProductDetailPage) IsAddToCartDisplayed(ctx context.Context) bool {
	return p.visible(ctx, addToCart)
}

// AddToCart submits the add-to-cart form; the storefront answers with the
// cart page.
func (p *ProductDetailPage) AddToCart(ctx context.Context) bool {
	if !p.click(ctx, addToCart) {
		return false
	}
	return p.settle(ctx, p.urlContains("/cartlist"))
}
