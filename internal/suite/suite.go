// Package suite is the catalog of storefront journeys run by the e2e command
// and the browser tests.
package suite

import (
	"context"
	"fmt"
	"slices"

	"github.com/vegana/shop/internal/pages"
	"github.com/vegana/shop/internal/scenario"
)

// Config points the scenarios at a running storefront.
type Config struct {
	BaseURL   string
	Username  string
	Password  string
	ProductID string
	Pages     pages.Options
}

func (c Config) opts() pages.Options {
	o := c.Pages
	o.BaseURL = c.BaseURL
	return o
}

// All returns every scenario in catalog order.
func All(cfg Config) []scenario.Scenario {
	var all []scenario.Scenario
	all = append(all, loginScenarios(cfg)...)
	all = append(all, registerScenarios(cfg)...)
	all = append(all, cartScenarios(cfg)...)
	all = append(all, accountScenarios(cfg)...)
	all = append(all, productScenarios(cfg)...)
	return all
}

// Names lists the catalog.
func Names() []string {
	var names []string
	for _, s := range All(Config{}) {
		names = append(names, s.Name)
	}
	return names
}

// Select returns the named scenarios in the order given. Unknown names are an
// error.
func Select(cfg Config, names ...string) ([]scenario.Scenario, error) {
	if len(names) == 0 {
		return All(cfg), nil
	}
	all := All(cfg)
	out := make([]scenario.Scenario, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(all, func(s scenario.Scenario) bool { return s.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		out = append(out, all[i])
	}
	return out, nil
}

// step is shorthand for a named step.
func step(name string, run scenario.StepFunc) scenario.Step {
	return scenario.Step{Name: name, Run: run}
}

// signIn logs the configured customer in and fails the scenario otherwise.
func signIn(ctx context.Context, st *scenario.T, cfg Config) error {
	login := pages.NewLoginPage(st.Driver, cfg.opts())
	if err := login.Open(ctx); err != nil {
		return err
	}
	if !login.Login(ctx, cfg.Username, cfg.Password) {
		return st.Require(false, "login form could not be submitted")
	}
	return st.Require(login.IsLoginSuccessful(), "login as %s failed: %s", cfg.Username, login.Message(ctx))
}

// signOut is the cleanup for scenarios that log in.
func signOut(ctx context.Context, st *scenario.T, cfg Config) error {
	home := pages.NewHomePage(st.Driver, cfg.opts())
	if err := home.Open(ctx); err != nil {
		return err
	}
	if home.IsUserLoggedIn(ctx) && !home.Logout(ctx) {
		return fmt.Errorf("logout link did not sign the customer out")
	}
	return nil
}

// addProductToCart puts the configured product in the session cart and
// leaves the browser on the cart page.
func addProductToCart(ctx context.Context, st *scenario.T, cfg Config) (string, error) {
	product := pages.NewProductDetailPage(st.Driver, cfg.opts())
	if err := product.Open(ctx, cfg.ProductID); err != nil {
		return "", err
	}
	name := product.Name(ctx)
	if err := st.Require(product.AddToCart(ctx), "product %s could not be added to the cart", cfg.ProductID); err != nil {
		return "", err
	}
	return name, nil
}
