package suite

import (
	"context"
	"strings"

	"github.com/vegana/shop/internal/pages"
	"github.com/vegana/shop/internal/scenario"
)

// accountRun holds the page and the order count seen by one account scenario.
type accountRun struct {
	cfg     Config
	account *pages.AccountPage
	orders  int
}

func accountScenarios(cfg Config) []scenario.Scenario {
	run := func() *accountRun { return &accountRun{cfg: cfg} }
	return []scenario.Scenario{
		run().requiresLogin(),
		run().customerInfo(),
		run().logout(),
		run().orderHistory(),
	}
}

func (r *accountRun) open(ctx context.Context, st *scenario.T) error {
	r.account = pages.NewAccountPage(st.Driver, r.cfg.opts())
	return r.account.Open(ctx)
}

func (r *accountRun) openSignedIn(ctx context.Context, st *scenario.T) error {
	if err := signIn(ctx, st, r.cfg); err != nil {
		return err
	}
	return r.open(ctx, st)
}

func (r *accountRun) signOut(ctx context.Context, st *scenario.T) error {
	return signOut(ctx, st, r.cfg)
}

func (r *accountRun) requiresLogin() scenario.Scenario {
	return scenario.Scenario{
		Name:     "account-requires-login",
		Navigate: r.open,
		Verify: []scenario.Step{
			step("redirected to login", func(ctx context.Context, st *scenario.T) error {
				return st.Require(strings.Contains(r.account.URL(), "/login"), "anonymous session reached %s", r.account.URL())
			}),
			step("no profile shown", func(ctx context.Context, st *scenario.T) error {
				st.Check(!r.account.IsLoggedIn(ctx), "profile visible without login")
				return nil
			}),
		},
	}
}

func (r *accountRun) customerInfo() scenario.Scenario {
	return scenario.Scenario{
		Name:     "account-customer-info",
		Navigate: r.openSignedIn,
		Verify: []scenario.Step{
			step("profile shown", func(ctx context.Context, st *scenario.T) error {
				a := r.account
				if err := st.Require(a.IsCustomerInfoDisplayed(ctx), "customer info missing on %s", a.URL()); err != nil {
					return err
				}
				st.Check(a.CustomerID(ctx) == r.cfg.Username, "customer id %q", a.CustomerID(ctx))
				st.Check(strings.Contains(a.Email(ctx), "@"), "email %q", a.Email(ctx))
				st.Check(a.FullName(ctx) != pages.NotFound, "full name missing")
				st.Check(a.ActiveBreadcrumb(ctx) == "Account", "breadcrumb %q", a.ActiveBreadcrumb(ctx))
				st.Check(a.WelcomeMessage(ctx) != pages.NotFound, "welcome text missing")
				return nil
			}),
		},
		Cleanup: r.signOut,
	}
}

func (r *accountRun) logout() scenario.Scenario {
	return scenario.Scenario{
		Name:     "account-logout",
		Navigate: r.openSignedIn,
		Act: []scenario.Step{
			step("click logout", func(ctx context.Context, st *scenario.T) error {
				return st.Require(r.account.ClickLogout(ctx), "logout did not leave the account page")
			}),
		},
		Verify: []scenario.Step{
			step("account locked again", func(ctx context.Context, st *scenario.T) error {
				if err := r.account.Open(ctx); err != nil {
					return err
				}
				return st.Require(strings.Contains(r.account.URL(), "/login"), "account still reachable after logout: %s", r.account.URL())
			}),
		},
	}
}

func (r *accountRun) orderHistory() scenario.Scenario {
	return scenario.Scenario{
		Name:     "account-order-history",
		Navigate: r.openSignedIn,
		Act: []scenario.Step{
			step("place an order", func(ctx context.Context, st *scenario.T) error {
				r.orders = r.account.OrderCount(ctx)
				if _, err := addProductToCart(ctx, st, r.cfg); err != nil {
					return err
				}
				cart := pages.NewCartPage(st.Driver, r.cfg.opts())
				if err := st.Require(cart.ClickProceedToCheckout(ctx), "checkout not reachable from the cart"); err != nil {
					return err
				}
				checkout := pages.NewCheckoutPage(st.Driver, r.cfg.opts())
				st.Check(checkout.Total(ctx) != pages.NotFound, "checkout total missing")
				if err := st.Require(checkout.PlaceOrder(ctx), "order was not placed"); err != nil {
					return err
				}
				_, err := st.Snapshot(ctx)
				return err
			}),
		},
		Verify: []scenario.Step{
			step("order listed", func(ctx context.Context, st *scenario.T) error {
				a := r.account
				if err := st.Require(a.IsOrderTableDisplayed(ctx), "order table missing"); err != nil {
					return err
				}
				if err := st.Require(a.OrderCount(ctx) == r.orders+1, "expected %d orders, found %d", r.orders+1, a.OrderCount(ctx)); err != nil {
					return err
				}
				st.Check(a.HasTableHeader(ctx), "order table header incomplete")
				latest := a.Order(ctx, 0)
				st.Check(strings.HasPrefix(latest.Reference, "ORDER-"), "unexpected reference %q", latest.Reference)
				st.Check(latest.Status == "confirmed", "unexpected status %q", latest.Status)
				return nil
			}),
		},
		Cleanup: r.signOut,
	}
}
