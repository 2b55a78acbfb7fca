package pages

import (
	"context"
	"iter"
	"strings"

	"github.com/vegana/shop/internal/browser"
)

var (
	accountTitle      = browser.Loc("account title", ".account-title", ".single-content h2", "h1")
	accountBreadcrumb = browser.Loc("breadcrumb", ".breadcrumb-item.active", ".breadcrumb li:last-child")
	accountID         = browser.Loc("customer id", "#customerId", "input[name='customerId']")
	accountFullName   = browser.Loc("full name", "#fullname", "input[name='fullname']")
	accountEmail      = browser.Loc("email", "#email", "input[name='email']", "input[type='email']")
	accountWelcome    = browser.Loc("welcome text", ".welcome-text", ".account-welcome")
	orderTable        = browser.Loc("order table", "table.order-table", ".orders table", "table.table")
	orderHeader       = browser.Loc("order header", "table.order-table thead th", "table.table thead th")
	orderRows         = browser.Loc("order rows", "table.order-table tbody tr", "table.table tbody tr")
	noOrders          = browser.Loc("no orders", ".no-orders-message", ".empty-orders")
	accountLogout     = browser.Loc("logout", "a.btn-logout", "a[href='/logout']", "a[href*='logout']")
	accountHome       = browser.Loc("home", "a.home-link", ".breadcrumb a[href='/']", "a[href='/']")

	orderReference = browser.Loc("order reference", ".order-reference", "td:nth-child(1)")
	orderDate      = browser.Loc("order date", ".order-date", "td:nth-child(2)")
	orderItems     = browser.Loc("order items", ".order-items", "td:nth-child(3)")
	orderTotal     = browser.Loc("order total", ".order-total", "td:nth-child(4)")
	orderStatus    = browser.Loc("order status", ".order-status", "td:nth-child(5)")
)

// OrderRow is one row of the account order history.
type OrderRow struct {
	Reference string
	Date      string
	Items     string
	Total     string
	Status    string
}

// AccountPage shows the signed-in customer's profile and orders.
type AccountPage struct {
	page
}

func NewAccountPage(d browser.Driver, opts Options) *AccountPage {
	return &AccountPage{page: newPage("account", d, opts)}
}

// Open navigates to /account. Anonymous sessions end up on /login.
func (p *AccountPage) Open(ctx context.Context) error {
	return p.open(ctx, "/account", accountTitle, browser.Loc("account container", ".account-content", ".container"))
}

func (p *AccountPage) IsOnAccountPage(ctx context.Context) bool {
	return strings.Contains(p.URL(), "/account") && p.visible(ctx, accountTitle)
}

// IsLoggedIn reports whether the profile form is shown.
func (p *AccountPage) IsLoggedIn(ctx context.Context) bool {
	return !strings.Contains(p.URL(), "/login") && p.visible(ctx, accountID)
}

func (p *AccountPage) CustomerID(ctx context.Context) string {
	return p.value(ctx, accountID)
}

func (p *AccountPage) FullName(ctx context.Context) string {
	return p.value(ctx, accountFullName)
}

func (p *AccountPage) Email(ctx context.Context) string {
	return p.value(ctx, accountEmail)
}

func (p *AccountPage) IsCustomerInfoDisplayed(ctx context.Context) bool {
	return p.visible(ctx, accountID) && p.visible(ctx, accountFullName) && p.visible(ctx, accountEmail)
}

func (p *AccountPage) WelcomeMessage(ctx context.Context) string {
	return p.text(ctx, accountWelcome)
}

func (p *AccountPage) ActiveBreadcrumb(ctx context.Context) string {
	return p.text(ctx, accountBreadcrumb)
}

func (p *AccountPage) IsOrderTableDisplayed(ctx context.Context) bool {
	return p.visible(ctx, orderTable)
}

func (p *AccountPage) OrderCount(ctx context.Context) int {
	return p.count(ctx, orderRows)
}

// Orders yields a fresh snapshot of every order row.
func (p *AccountPage) Orders(ctx context.Context) iter.Seq[OrderRow] {
	return func(yield func(OrderRow) bool) {
		for _, row := range orderRows.FindAll(ctx, p.d) {
			if !yield(p.orderRow(ctx, row)) {
				return
			}
		}
	}
}

// Order returns row i, or the zero OrderRow when i is out of range.
func (p *AccountPage) Order(ctx context.Context, i int) OrderRow {
	row, ok := p.nth(ctx, orderRows, i)
	if !ok {
		return OrderRow{}
	}
	return p.orderRow(ctx, row)
}

func (p *AccountPage) orderRow(ctx context.Context, row browser.Element) OrderRow {
	return OrderRow{
		Reference: cellText(ctx, row, orderReference),
		Date:      cellText(ctx, row, orderDate),
		Items:     cellText(ctx, row, orderItems),
		Total:     cellText(ctx, row, orderTotal),
		Status:    cellText(ctx, row, orderStatus),
	}
}

// HasTableHeader reports whether the order table has every expected column.
func (p *AccountPage) HasTableHeader(ctx context.Context) bool {
	want := map[string]bool{"reference": false, "date": false, "total": false, "status": false}
	for _, th := range orderHeader.FindAll(ctx, p.d) {
		s, err := th.Text(ctx)
		if err != nil {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(s))
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for _, found := range want {
		if !found {
			return false
		}
	}
	return true
}

func (p *AccountPage) IsNoOrdersMessageDisplayed(ctx context.Context) bool {
	return p.visible(ctx, noOrders)
}

func (p *AccountPage) NoOrdersMessage(ctx context.Context) string {
	return p.text(ctx, noOrders)
}

func (p *AccountPage) ClickLogout(ctx context.Context) bool {
	if !p.click(ctx, accountLogout) {
		return false
	}
	return p.settle(ctx, p.urlLeaves("/account"))
}

func (p *AccountPage) ClickHome(ctx context.Context) bool {
	if !p.click(ctx, accountHome) {
		return false
	}
	return p.settle(ctx, p.urlLeaves("/account"))
}
