package pages

import (
	"context"
	"iter"
	"strconv"
	"strings"

	"github.com/vegana/shop/internal/browser"
)

var (
	cartHeader     = browser.Loc("cart header", ".single-content h2", ".cart-title", "h2")
	cartBreadcrumb = browser.Loc("breadcrumb", ".breadcrumb-item.active")
	cartContainer  = browser.Loc("cart container", ".cart-part", ".cart-list", ".container")
	cartRows       = browser.Loc("cart rows", ".table-list tbody tr", ".cart-list table tbody tr", "table.table tbody tr")
	cartRevision   = browser.Loc("cart revision", ".cart-list [data-revision]", "[data-revision]")
	cartEmpty      = browser.Loc("empty cart message", ".alert.alert-warning p", ".alert-warning", ".empty-cart")
	cartTotal      = browser.Loc("cart total", ".cart-totals li:last-child span:last-child", ".cart-total")
	cartBack       = browser.Loc("back to shop", ".cart-back a[href='/']", "a.cart-back")
	cartProceed    = browser.Loc("proceed to checkout", ".cart-proceed a[href*='checkout']", "a[href*='checkout']")

	deleteModal    = browser.Loc("confirmation modal", "#configmationId", ".modal.show")
	deleteModalMsg = browser.Loc("modal message", "#configmationId .modal-body p", "#configmationId .modal-body", ".modal.show .modal-body")
	deleteYes      = browser.Loc("confirm delete", "#yesOption", "#configmationId .btn-primary")
	deleteNo       = browser.Loc("cancel delete", "#configmationId .btn-danger", "#configmationId [data-dismiss='modal']")

	lineName     = browser.Loc("product name", ".table-name h5", ".table-name")
	linePrice    = browser.Loc("price", ".table-price h5", ".table-price")
	lineDiscount = browser.Loc("discount", ".table-discount h5", ".table-discount")
	lineQuantity = browser.Loc("quantity", ".table-quantity input[type='number']", "input[type='number']")
	lineTotal    = browser.Loc("line total", ".table-total h5", ".table-total")
	lineView     = browser.Loc("view product", ".table-action a[href*='productDetail']", "a[href*='productDetail']")
	lineDelete   = browser.Loc("delete", ".table-action a[onclick*='showConfigModalDialog']", "a[onclick*='showConfigModalDialog']")
)

// CartLine is a snapshot of one cart row taken when it was read.
type CartLine struct {
	Name      string
	UnitPrice string
	Discount  string
	Quantity  string
	Total     string
}

// CartPage is the /cartlist screen. Quantity edits and deletions replace the
// cart table in place, so nothing read from it is kept between calls.
type CartPage struct {
	page
}

func NewCartPage(d browser.Driver, opts Options) *CartPage {
	return &CartPage{page: newPage("cart", d, opts)}
}

func (p *CartPage) Open(ctx context.Context) error {
	return p.open(ctx, "/cartlist", cartHeader, cartContainer)
}

func (p *CartPage) Header(ctx context.Context) string {
	return p.text(ctx, cartHeader)
}

func (p *CartPage) ActiveBreadcrumb(ctx context.Context) string {
	return p.text(ctx, cartBreadcrumb)
}

// IsCartEmpty reports whether the cart has no rows or shows the empty message.
func (p *CartPage) IsCartEmpty(ctx context.Context) bool {
	return p.ItemCount(ctx) == 0 || p.visible(ctx, cartEmpty)
}

func (p *CartPage) ItemCount(ctx context.Context) int {
	return p.count(ctx, cartRows)
}

// Lines yields a fresh snapshot of every row each time it is ranged over.
func (p *CartPage) Lines(ctx context.Context) iter.Seq[CartLine] {
	return func(yield func(CartLine) bool) {
		for _, row := range cartRows.FindAll(ctx, p.d) {
			if !yield(p.line(ctx, row)) {
				return
			}
		}
	}
}

// Line returns row i, or the zero CartLine when i is out of range.
func (p *CartPage) Line(ctx context.Context, i int) CartLine {
	row, ok := p.nth(ctx, cartRows, i)
	if !ok {
		return CartLine{}
	}
	return p.line(ctx, row)
}

func (p *CartPage) line(ctx context.Context, row browser.Element) CartLine {
	return CartLine{
		Name:      cellText(ctx, row, lineName),
		UnitPrice: cellText(ctx, row, linePrice),
		Discount:  cellText(ctx, row, lineDiscount),
		Quantity:  p.quantityIn(ctx, row),
		Total:     cellText(ctx, row, lineTotal),
	}
}

func (p *CartPage) quantityIn(ctx context.Context, row browser.Element) string {
	el, ok := lineQuantity.Find(ctx, row)
	if !ok {
		return NotFound
	}
	v, err := el.Value(ctx)
	if err != nil {
		return NotFound
	}
	return v
}

// ProductName returns the name on row i, or "" when i is out of range.
func (p *CartPage) ProductName(ctx context.Context, i int) string {
	return p.cell(ctx, i, func(l CartLine) string { return l.Name })
}

func (p *CartPage) Price(ctx context.Context, i int) string {
	return p.cell(ctx, i, func(l CartLine) string { return l.UnitPrice })
}

func (p *CartPage) Quantity(ctx context.Context, i int) string {
	return p.cell(ctx, i, func(l CartLine) string { return l.Quantity })
}

func (p *CartPage) LineTotal(ctx context.Context, i int) string {
	return p.cell(ctx, i, func(l CartLine) string { return l.Total })
}

func (p *CartPage) cell(ctx context.Context, i int, field func(CartLine) string) string {
	row, ok := p.nth(ctx, cartRows, i)
	if !ok {
		return ""
	}
	return field(p.line(ctx, row))
}

// inRow resolves l inside row i on every call.
func (p *CartPage) inRow(i int, l browser.Locator) finder {
	return func(ctx context.Context) (browser.Element, bool) {
		row, ok := p.nth(ctx, cartRows, i)
		if !ok {
			return nil, false
		}
		return l.FindVisible(ctx, row)
	}
}

func (p *CartPage) revision(ctx context.Context) string {
	return p.attr(ctx, cartRevision, "data-revision")
}

// revisionChanged is true once the cart fragment was re-rendered.
func (p *CartPage) revisionChanged(before string) browser.Condition {
	return func(ctx context.Context) (bool, error) {
		return p.revision(ctx) != before, nil
	}
}

// UpdateQuantity sets the quantity of row i and waits for the cart to be
// re-rendered. Without a revision marker it falls back to the settle delay.
func (p *CartPage) UpdateQuantity(ctx context.Context, i, quantity int) bool {
	if _, ok := p.nth(ctx, cartRows, i); !ok {
		p.log.WithField("index", i).Info("no cart row to update")
		return false
	}
	before := p.revision(ctx)
	value := strconv.Itoa(quantity)
	ok := p.act(ctx, lineQuantity.Name, "fill", p.inRow(i, lineQuantity), func(ctx context.Context, el browser.Element) error {
		if err := el.Fill(ctx, value); err != nil {
			return err
		}
		// The cart listens for change, which fires on blur.
		return el.Press(ctx, "Tab")
	})
	if !ok {
		return false
	}
	if before == NotFound {
		return p.settle(ctx, nil)
	}
	return p.settle(ctx, p.revisionChanged(before))
}

// ClickDelete opens the confirmation modal for row i.
func (p *CartPage) ClickDelete(ctx context.Context, i int) bool {
	if _, ok := p.nth(ctx, cartRows, i); !ok {
		return false
	}
	if !p.act(ctx, lineDelete.Name, "click", p.inRow(i, lineDelete), clickElement) {
		return false
	}
	return p.waitVisible(ctx, deleteModal)
}

func (p *CartPage) IsConfirmationModalDisplayed(ctx context.Context) bool {
	return p.visible(ctx, deleteModal)
}

func (p *CartPage) ModalMessage(ctx context.Context) string {
	return p.text(ctx, deleteModalMsg)
}

// ConfirmDeletion accepts the modal and waits for the row to go away.
func (p *CartPage) ConfirmDeletion(ctx context.Context) bool {
	before := p.revision(ctx)
	count := p.ItemCount(ctx)
	if !p.click(ctx, deleteYes) {
		return false
	}
	return p.settle(ctx, func(ctx context.Context) (bool, error) {
		if before != NotFound && p.revision(ctx) != before {
			return true, nil
		}
		return p.ItemCount(ctx) < count, nil
	})
}

// CancelDeletion dismisses the modal, leaving the cart untouched.
func (p *CartPage) CancelDeletion(ctx context.Context) bool {
	if !p.click(ctx, deleteNo) {
		return false
	}
	return p.waitHidden(ctx, deleteModal)
}

func (p *CartPage) CartTotal(ctx context.Context) string {
	return p.text(ctx, cartTotal)
}

func (p *CartPage) EmptyCartMessage(ctx context.Context) string {
	return p.text(ctx, cartEmpty)
}

func (p *CartPage) ClickBackToShop(ctx context.Context) bool {
	if !p.click(ctx, cartBack) {
		return false
	}
	return p.settle(ctx, p.urlLeaves("/cartlist"))
}

func (p *CartPage) ClickProceedToCheckout(ctx context.Context) bool {
	if !p.click(ctx, cartProceed) {
		return false
	}
	return p.settle(ctx, p.urlContains("/checkout"))
}

func (p *CartPage) IsProceedToCheckoutEnabled(ctx context.Context) bool {
	el, ok := cartProceed.FindVisible(ctx, p.d)
	if !ok {
		return false
	}
	enabled, err := el.Enabled(ctx)
	if err != nil || !enabled {
		return false
	}
	cls, _ := el.Attribute(ctx, "class")
	return !strings.Contains(cls, "disabled")
}

// ClickViewProduct follows the product link on row i.
func (p *CartPage) ClickViewProduct(ctx context.Context, i int) bool {
	if _, ok := p.nth(ctx, cartRows, i); !ok {
		return false
	}
	if !p.act(ctx, lineView.Name, "click", p.inRow(i, lineView), clickElement) {
		return false
	}
	return p.settle(ctx, p.urlContains("/productDetail"))
}
