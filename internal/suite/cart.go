package suite

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/vegana/shop/internal/pages"
	"github.com/vegana/shop/internal/scenario"
)

// cartRun holds what one cart scenario observes between its steps.
type cartRun struct {
	cfg   Config
	cart  *pages.CartPage
	count int
	qty   int
	total string
}

func cartScenarios(cfg Config) []scenario.Scenario {
	run := func() *cartRun { return &cartRun{cfg: cfg} }
	return []scenario.Scenario{
		run().navigate(),
		run().emptyState(),
		run().updateQuantity(),
		run().deleteCancel(),
		run().deleteConfirm(),
		run().idempotent(),
	}
}

func (r *cartRun) openEmpty(ctx context.Context, st *scenario.T) error {
	r.cart = pages.NewCartPage(st.Driver, r.cfg.opts())
	return r.cart.Open(ctx)
}

func (r *cartRun) openWithItem(ctx context.Context, st *scenario.T) error {
	r.cart = pages.NewCartPage(st.Driver, r.cfg.opts())
	if _, err := addProductToCart(ctx, st, r.cfg); err != nil {
		return err
	}
	if err := r.cart.Open(ctx); err != nil {
		return err
	}
	return st.Require(!r.cart.IsCartEmpty(ctx), "cart is empty after adding product %s", r.cfg.ProductID)
}

func (r *cartRun) navigate() scenario.Scenario {
	return scenario.Scenario{
		Name:     "cart-navigate",
		Navigate: r.openEmpty,
		Verify: []scenario.Step{
			step("on cart page", func(ctx context.Context, st *scenario.T) error {
				return st.Require(strings.Contains(r.cart.URL(), "/cartlist"), "expected /cartlist, got %s", r.cart.URL())
			}),
			step("header and breadcrumb", func(ctx context.Context, st *scenario.T) error {
				st.Check(r.cart.Header(ctx) == "Cartlist", "unexpected header %q", r.cart.Header(ctx))
				st.Check(r.cart.ActiveBreadcrumb(ctx) != pages.NotFound, "breadcrumb missing")
				st.Check(strings.Contains(r.cart.Title(ctx), "Cart"), "unexpected title %q", r.cart.Title(ctx))
				return nil
			}),
		},
	}
}

func (r *cartRun) emptyState() scenario.Scenario {
	return scenario.Scenario{
		Name:     "cart-empty-state",
		Navigate: r.openEmpty,
		Verify: []scenario.Step{
			step("cart is empty", func(ctx context.Context, st *scenario.T) error {
				if err := st.Require(r.cart.IsCartEmpty(ctx), "fresh session has %d cart lines", r.cart.ItemCount(ctx)); err != nil {
					return err
				}
				msg := r.cart.EmptyCartMessage(ctx)
				st.Check(strings.Contains(strings.ToLower(msg), "empty"), "unexpected empty message %q", msg)
				st.Check(!r.cart.IsProceedToCheckoutEnabled(ctx), "checkout offered for an empty cart")
				st.Check(r.cart.ProductName(ctx, 0) == "", "row 0 reported on an empty cart")
				return nil
			}),
		},
	}
}

func (r *cartRun) updateQuantity() scenario.Scenario {
	return scenario.Scenario{
		Name:     "cart-update-quantity",
		Navigate: r.openWithItem,
		Act: []scenario.Step{
			step("increase quantity", func(ctx context.Context, st *scenario.T) error {
				q, err := strconv.Atoi(r.cart.Quantity(ctx, 0))
				if err != nil {
					return st.Require(false, "quantity of row 0 is not a number: %q", r.cart.Quantity(ctx, 0))
				}
				r.qty, r.total = q, r.cart.LineTotal(ctx, 0)
				return st.Require(r.cart.UpdateQuantity(ctx, 0, q+1), "quantity could not be updated")
			}),
		},
		Verify: []scenario.Step{
			step("line total changed", func(ctx context.Context, st *scenario.T) error {
				after := r.cart.LineTotal(ctx, 0)
				if err := st.Require(after != r.total, "line total stayed %s after quantity %d -> %d", r.total, r.qty, r.qty+1); err != nil {
					return err
				}
				st.Check(r.cart.Quantity(ctx, 0) == strconv.Itoa(r.qty+1), "quantity shows %q", r.cart.Quantity(ctx, 0))
				return nil
			}),
		},
	}
}

func (r *cartRun) deleteCancel() scenario.Scenario {
	return scenario.Scenario{
		Name:     "cart-delete-cancel",
		Navigate: r.openWithItem,
		Act: []scenario.Step{
			step("open delete dialog", func(ctx context.Context, st *scenario.T) error {
				r.count = r.cart.ItemCount(ctx)
				if err := st.Require(r.cart.ClickDelete(ctx, 0), "delete dialog did not open"); err != nil {
					return err
				}
				st.Check(r.cart.ModalMessage(ctx) != pages.NotFound, "confirmation text missing")
				return nil
			}),
			step("cancel", func(ctx context.Context, st *scenario.T) error {
				return st.Require(r.cart.CancelDeletion(ctx), "dialog did not close")
			}),
		},
		Verify: []scenario.Step{
			step("count unchanged", func(ctx context.Context, st *scenario.T) error {
				return st.Require(r.cart.ItemCount(ctx) == r.count, "item count changed from %d to %d", r.count, r.cart.ItemCount(ctx))
			}),
		},
	}
}

func (r *cartRun) deleteConfirm() scenario.Scenario {
	return scenario.Scenario{
		Name:     "cart-delete-confirm",
		Navigate: r.openWithItem,
		Act: []scenario.Step{
			step("delete first line", func(ctx context.Context, st *scenario.T) error {
				r.count = r.cart.ItemCount(ctx)
				if err := st.Require(r.cart.ClickDelete(ctx, 0), "delete dialog did not open"); err != nil {
					return err
				}
				return st.Require(r.cart.ConfirmDeletion(ctx), "deletion was not applied")
			}),
		},
		Verify: []scenario.Step{
			step("line removed", func(ctx context.Context, st *scenario.T) error {
				return st.Require(r.cart.ItemCount(ctx) == r.count-1, "expected %d lines, found %d", r.count-1, r.cart.ItemCount(ctx))
			}),
		},
	}
}

func (r *cartRun) idempotent() scenario.Scenario {
	return scenario.Scenario{
		Name:     "cart-state-idempotent",
		Navigate: r.openWithItem,
		Verify: []scenario.Step{
			step("repeated reads agree", func(ctx context.Context, st *scenario.T) error {
				if err := st.Require(r.cart.IsCartEmpty(ctx) == r.cart.IsCartEmpty(ctx), "IsCartEmpty changed between reads"); err != nil {
					return err
				}
				first := slices.Collect(r.cart.Lines(ctx))
				second := slices.Collect(r.cart.Lines(ctx))
				if err := st.Require(slices.Equal(first, second), "cart lines changed between reads"); err != nil {
					return err
				}
				st.Check(r.cart.CartTotal(ctx) == r.cart.CartTotal(ctx), "cart total changed between reads")
				return nil
			}),
		},
	}
}
