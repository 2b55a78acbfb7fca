package pages_test

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/browser"
	"github.com/vegana/shop/internal/browser/browsertest"
	"github.com/vegana/shop/internal/pages"
)

const base = "http://shop.test"

func testOptions() pages.Options {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return pages.Options{
		BaseURL: base + "/",
		Wait:    browser.NewWaiter(50*time.Millisecond, 2*time.Millisecond),
		Settle:  time.Millisecond,
		Log:     log,
	}
}

// loginRoute serves a sign-in / sign-up screen that accepts admin/123123.
func loginRoute(d *browsertest.Driver) {
	d.SetTitle("Login | Vegana")
	signin := &browsertest.Node{}
	signup := &browsertest.Node{Hidden: true}
	d.Set("#signin", signin)
	d.Set("#signup", signup)
	d.Set("a[href='#signin']", &browsertest.Node{Text: "Sign in", OnClick: func() {
		signin.Hidden, signup.Hidden = false, true
	}})
	d.Set("a[href='#signup']", &browsertest.Node{Text: "Sign up", OnClick: func() {
		signin.Hidden, signup.Hidden = true, false
	}})

	id := &browsertest.Node{}
	pw := &browsertest.Node{}
	d.Set("#signin input[name='customerId']", id)
	d.Set("#signin input[name='password']", pw)
	d.Set("#signin button[type='submit']", &browsertest.Node{Text: "Login", OnClick: func() {
		if id.Value == "admin" && pw.Value == "123123" {
			d.Load(base + "/")
			return
		}
		d.Set("#signin .alert-danger", &browsertest.Node{Text: "Invalid customer id or password"})
	}})

	regID := &browsertest.Node{}
	d.Set("#signup input[name='customerId']", regID)
	d.Set("#signup input[name='fullname']", &browsertest.Node{})
	d.Set("#signup input[name='email']", &browsertest.Node{})
	d.Set("#signup input[name='password']", &browsertest.Node{})
	terms := &browsertest.Node{Attrs: map[string]string{"type": "checkbox"}}
	d.Set("#signup #signup-check", terms)
	d.Set("#signup button[type='submit']", &browsertest.Node{Text: "Register", OnClick: func() {
		switch {
		case regID.Value == "":
			d.Set("#signup .alert-danger", &browsertest.Node{Text: "Customer id is required"})
		case regID.Value == "admin":
			d.Set("#signup .alert-danger", &browsertest.Node{Text: "Customer id already exists"})
		case !terms.Checked:
			d.Set("#signup .alert-danger", &browsertest.Node{Text: "Please accept the terms"})
		default:
			d.Set("#signup .alert-success", &browsertest.Node{Text: "Registration successful, please sign in"})
		}
	}})
}

type item struct {
	name  string
	price int
	qty   int
}

// fakeCart re-renders the cart fragment after every change, bumping its
// revision like the storefront does.
type fakeCart struct {
	d       *browsertest.Driver
	items   []item
	rev     int
	pending int
	modal   *browsertest.Node
}

func newFakeCart(d *browsertest.Driver, items ...item) *fakeCart {
	c := &fakeCart{d: d, items: items, pending: -1}
	d.Route(base+"/cartlist", func(d *browsertest.Driver) { c.page() })
	return c
}

func (c *fakeCart) page() {
	c.d.SetTitle("Cartlist | Vegana")
	c.d.Set(".single-content h2", &browsertest.Node{Text: "Cartlist"})
	c.d.Set(".breadcrumb-item.active", &browsertest.Node{Text: "Cartlist"})
	c.modal = &browsertest.Node{Hidden: true}
	c.d.Set("#configmationId", c.modal)
	c.d.Set("#configmationId .modal-body p", &browsertest.Node{Text: "Remove this product from your cart?"})
	c.d.Set("#yesOption", &browsertest.Node{Text: "Yes", OnClick: func() {
		if c.pending >= 0 && c.pending < len(c.items) {
			c.items = append(c.items[:c.pending], c.items[c.pending+1:]...)
		}
		c.pending = -1
		c.modal.Hidden = true
		c.render()
	}})
	c.d.Set("#configmationId .btn-danger", &browsertest.Node{Text: "No", OnClick: func() {
		c.pending = -1
		c.modal.Hidden = true
	}})
	c.d.Set(".cart-back a[href='/']", &browsertest.Node{Text: "Back to Shop", OnClick: func() {
		c.d.Load(base + "/")
	}})
	c.render()
}

func (c *fakeCart) render() {
	c.rev++
	c.d.Set(".cart-list [data-revision]", &browsertest.Node{Attrs: map[string]string{"data-revision": strconv.Itoa(c.rev)}})
	if len(c.items) == 0 {
		c.d.Remove(".table-list tbody tr")
		c.d.Remove(".cart-proceed a[href*='checkout']")
		c.d.Set(".alert.alert-warning p", &browsertest.Node{Text: "Your cart is empty"})
		c.d.Set(".cart-totals li:last-child span:last-child", &browsertest.Node{Text: "$0.00"})
		return
	}
	c.d.Remove(".alert.alert-warning p")
	c.d.Set(".cart-proceed a[href*='checkout']", &browsertest.Node{Text: "Proceed to Checkout"})

	rows := make([]*browsertest.Node, 0, len(c.items))
	total := 0
	for i, it := range c.items {
		qty := &browsertest.Node{Value: strconv.Itoa(it.qty), Attrs: map[string]string{"type": "number"}}
		qty.OnPress = func(string) {
			n, err := strconv.Atoi(qty.Value)
			if err != nil || n < 1 {
				return
			}
			c.items[i].qty = n
			c.render()
		}
		view := &browsertest.Node{
			Attrs: map[string]string{"href": fmt.Sprintf("/productDetail?productId=%d", i+1)},
			OnClick: func() {
				c.d.Load(fmt.Sprintf("%s/productDetail?productId=%d", base, i+1))
			},
		}
		del := &browsertest.Node{OnClick: func() {
			c.pending = i
			c.modal.Hidden = false
		}}
		total += it.price * it.qty
		rows = append(rows, &browsertest.Node{Children: map[string][]*browsertest.Node{
			".table-name h5":                                    {{Text: it.name}},
			".table-price h5":                                   {{Text: money(it.price)}},
			".table-discount h5":                                {{Text: "0%"}},
			".table-quantity input[type='number']":              {qty},
			".table-total h5":                                   {{Text: money(it.price * it.qty)}},
			".table-action a[href*='productDetail']":            {view},
			".table-action a[onclick*='showConfigModalDialog']": {del},
		}})
	}
	c.d.Set(".table-list tbody tr", rows...)
	c.d.Set(".cart-totals li:last-child span:last-child", &browsertest.Node{Text: money(total)})
}

func money(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
