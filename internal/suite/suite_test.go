package suite_test

import (
	"context"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegana/shop/internal/browser"
	"github.com/vegana/shop/internal/browser/browsertest"
	"github.com/vegana/shop/internal/pages"
	"github.com/vegana/shop/internal/scenario"
	"github.com/vegana/shop/internal/suite"
)

const base = "http://shop.test"

func TestNames(t *testing.T) {
	names := suite.Names()
	kebab := regexp.MustCompile(`^[a-z]+(-[a-z]+)+$`)

	seen := map[string]bool{}
	for _, n := range names {
		assert.Regexp(t, kebab, n)
		assert.False(t, seen[n], "duplicate scenario %s", n)
		seen[n] = true
	}

	for _, want := range []string{
		"login-valid-credentials", "login-empty-credentials", "login-invalid-credentials",
		"register-switch-tab", "register-new-customer", "register-empty-fields",
		"register-duplicate-id", "register-then-login",
		"cart-navigate", "cart-empty-state", "cart-update-quantity",
		"cart-delete-cancel", "cart-delete-confirm", "cart-state-idempotent",
		"account-requires-login", "account-customer-info", "account-logout", "account-order-history",
		"product-detail-loaded", "product-add-to-cart", "product-unknown-not-found",
		"home-logged-in-state",
	} {
		assert.True(t, seen[want], "missing scenario %s", want)
	}
}

func TestSelect(t *testing.T) {
	cfg := suite.Config{BaseURL: base}

	all, err := suite.Select(cfg)
	require.NoError(t, err)
	assert.Len(t, all, len(suite.Names()))

	picked, err := suite.Select(cfg, "cart-navigate", "login-valid-credentials")
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "cart-navigate", picked[0].Name)
	assert.Equal(t, "login-valid-credentials", picked[1].Name)

	_, err = suite.Select(cfg, "checkout-with-paypal")
	assert.EqualError(t, err, `unknown scenario "checkout-with-paypal"`)
}

// storefront serves just enough of the login and account screens for the
// anonymous scenarios.
func storefront(d *browsertest.Driver) {
	d.Route(base+"/account", func(d *browsertest.Driver) { d.Load(base + "/login") })
	d.Route(base+"/login", func(d *browsertest.Driver) {
		signin := &browsertest.Node{}
		signup := &browsertest.Node{Hidden: true}
		d.Set("#signin", signin)
		d.Set("#signup", signup)
		d.Set("a[href='#signin']", &browsertest.Node{OnClick: func() { signin.Hidden, signup.Hidden = false, true }})
		d.Set("a[href='#signup']", &browsertest.Node{OnClick: func() { signin.Hidden, signup.Hidden = true, false }})
		d.Set("#signin input[name='customerId']", &browsertest.Node{})
		d.Set("#signin input[name='password']", &browsertest.Node{})
		d.Set("#signin button[type='submit']", &browsertest.Node{OnClick: func() {
			d.Set("#signin .alert-danger", &browsertest.Node{Text: "Invalid customer id or password"})
		}})
	})
}

func TestScenariosAgainstFakeStorefront(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := suite.Config{
		BaseURL:   base,
		Username:  "admin",
		Password:  "123123",
		ProductID: "1",
		Pages: pages.Options{
			Wait:   browser.NewWaiter(50*time.Millisecond, 2*time.Millisecond),
			Settle: time.Millisecond,
			Log:    log,
		},
	}
	runner := &scenario.Runner{
		Sessions: scenario.SessionFunc(func(context.Context) (browser.Driver, error) {
			d := browsertest.New()
			storefront(d)
			return d, nil
		}),
		ScreenshotDir: t.TempDir(),
		Log:           log,
	}

	scenarios, err := suite.Select(cfg,
		"login-empty-credentials",
		"login-invalid-credentials",
		"register-switch-tab",
		"account-requires-login",
		"login-valid-credentials",
	)
	require.NoError(t, err)
	results := runner.RunAll(context.Background(), scenarios...)
	require.Len(t, results, 5)

	for _, r := range results[:4] {
		assert.True(t, r.Passed(), "%s: %v", r.Scenario, r.Err)
	}

	valid := results[4]
	assert.False(t, valid.Passed(), "the fake storefront rejects every login")
	var serr *scenario.Error
	require.ErrorAs(t, valid.Err, &serr)
	assert.Equal(t, scenario.PhaseVerify, serr.Phase)
	assert.Equal(t, "left the login screen", serr.Step)
	assert.FileExists(t, serr.Screenshot)
}

func TestScenariosKeepTheirOwnState(t *testing.T) {
	ctx := context.Background()
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := suite.Config{
		BaseURL:  base,
		Username: "admin",
		Password: "123123",
		Pages: pages.Options{
			Wait:   browser.NewWaiter(50*time.Millisecond, 2*time.Millisecond),
			Settle: time.Millisecond,
			Log:    log,
		},
	}
	picked, err := suite.Select(cfg, "login-empty-credentials", "login-invalid-credentials")
	require.NoError(t, err)

	// GIVEN two login scenarios navigated in their own sessions, the second last
	first, second := browsertest.New(), browsertest.New()
	storefront(first)
	storefront(second)
	stFirst := &scenario.T{Driver: first}
	stSecond := &scenario.T{Driver: second}
	require.NoError(t, picked[0].Navigate(ctx, stFirst))
	require.NoError(t, picked[1].Navigate(ctx, stSecond))

	// WHEN the second session leaves the login screen
	second.Load(base + "/elsewhere")

	// THEN the first scenario still checks its own session
	assert.NoError(t, picked[0].Verify[0].Run(ctx, stFirst))
	assert.Error(t, picked[1].Verify[0].Run(ctx, stSecond))
}
