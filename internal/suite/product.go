package suite

import (
	"context"
	"slices"
	"strings"

	"github.com/vegana/shop/internal/pages"
	"github.com/vegana/shop/internal/scenario"
)

const unknownProductID = "999999"

// productRun holds the page and product name seen by one product scenario.
type productRun struct {
	cfg     Config
	product *pages.ProductDetailPage
	name    string
}

func productScenarios(cfg Config) []scenario.Scenario {
	run := func() *productRun { return &productRun{cfg: cfg} }
	return []scenario.Scenario{
		run().detailLoaded(),
		run().addToCart(),
		run().unknown(),
		homeLoggedIn(cfg),
	}
}

func (r *productRun) open(id string) scenario.StepFunc {
	return func(ctx context.Context, st *scenario.T) error {
		r.product = pages.NewProductDetailPage(st.Driver, r.cfg.opts())
		return r.product.Open(ctx, id)
	}
}

func (r *productRun) detailLoaded() scenario.Scenario {
	return scenario.Scenario{
		Name:     "product-detail-loaded",
		Navigate: r.open(r.cfg.ProductID),
		Verify: []scenario.Step{
			step("product shown", func(ctx context.Context, st *scenario.T) error {
				return st.Require(r.product.IsPageLoaded(ctx), "product %s did not load: %s", r.cfg.ProductID, r.product.URL())
			}),
			step("details present", func(ctx context.Context, st *scenario.T) error {
				p := r.product
				st.Check(p.Price(ctx) != pages.NotFound, "price missing")
				st.Check(p.ImageURL(ctx) != pages.NotFound, "image missing")
				st.Check(p.IsAddToCartDisplayed(ctx), "add to cart missing")
				// Description and category are optional.
				st.Log().WithField("category", p.Category(ctx)).Debug("product category")
				st.Check(len(slices.Collect(p.SuggestedProducts(ctx))) > 0, "no suggested products")
				return nil
			}),
		},
	}
}

func (r *productRun) addToCart() scenario.Scenario {
	return scenario.Scenario{
		Name:     "product-add-to-cart",
		Navigate: r.open(r.cfg.ProductID),
		Act: []scenario.Step{
			step("add to cart", func(ctx context.Context, st *scenario.T) error {
				r.name = r.product.Name(ctx)
				return st.Require(r.product.AddToCart(ctx), "add to cart failed")
			}),
		},
		Verify: []scenario.Step{
			step("product in cart", func(ctx context.Context, st *scenario.T) error {
				cart := pages.NewCartPage(st.Driver, r.cfg.opts())
				if err := st.Require(strings.Contains(cart.URL(), "/cartlist"), "expected the cart page, got %s", cart.URL()); err != nil {
					return err
				}
				if err := st.Require(!cart.IsCartEmpty(ctx), "cart is empty"); err != nil {
					return err
				}
				st.Check(cart.ProductName(ctx, 0) == r.name, "cart shows %q, added %q", cart.ProductName(ctx, 0), r.name)
				return nil
			}),
		},
	}
}

func (r *productRun) unknown() scenario.Scenario {
	return scenario.Scenario{
		Name:     "product-unknown-not-found",
		Navigate: r.open(unknownProductID),
		Verify: []scenario.Step{
			step("not found page", func(ctx context.Context, st *scenario.T) error {
				if err := st.Require(strings.Contains(r.product.URL(), "/not-found"), "unknown product rendered %s", r.product.URL()); err != nil {
					return err
				}
				st.Check(!r.product.IsAddToCartDisplayed(ctx), "add to cart offered for an unknown product")
				return nil
			}),
		},
	}
}

func homeLoggedIn(cfg Config) scenario.Scenario {
	return scenario.Scenario{
		Name: "home-logged-in-state",
		Navigate: func(ctx context.Context, st *scenario.T) error {
			return signIn(ctx, st, cfg)
		},
		Verify: []scenario.Step{
			step("navbar shows customer", func(ctx context.Context, st *scenario.T) error {
				home := pages.NewHomePage(st.Driver, cfg.opts())
				if err := home.Open(ctx); err != nil {
					return err
				}
				if err := st.Require(home.IsUserLoggedIn(ctx), "home page does not show a signed-in customer"); err != nil {
					return err
				}
				st.Check(home.WelcomeMessage(ctx) != pages.NotFound, "welcome message missing")
				st.Check(len(slices.Collect(home.ProductNames(ctx))) > 0, "no products listed")
				return nil
			}),
		},
		Cleanup: func(ctx context.Context, st *scenario.T) error { return signOut(ctx, st, cfg) },
	}
}
