// Package pages holds one page object per storefront screen. Page objects hide
// selectors behind intention-revealing operations and never fail on routine
// absence: accessors return NotFound or a zero value, actions report whether
// they were performed.
package pages

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/browser"
)

// NotFound is returned by field accessors when the element is absent.
const NotFound = "not found"

// Options shared by all page objects.
type Options struct {
	BaseURL string
	// Wait bounds every "until visible/clickable" wait.
	Wait browser.Waiter
	// Settle is the fallback delay after an action with no observable outcome.
	Settle       time.Duration
	StaleRetries int
	Log          logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	o.Wait = browser.NewWaiter(o.Wait.Timeout, o.Wait.Interval)
	if o.StaleRetries <= 0 {
		o.StaleRetries = browser.DefaultStaleRetries
	}
	if o.Log == nil {
		o.Log = logrus.StandardLogger()
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	return o
}

var body = browser.Loc("document body", "body")

// page carries the helpers every screen builds on.
type page struct {
	name string
	d    browser.Driver
	opts Options
	log  logrus.FieldLogger
}

func newPage(name string, d browser.Driver, opts Options) page {
	opts = opts.withDefaults()
	return page{
		name: name,
		d:    d,
		opts: opts,
		log:  opts.Log.WithField("page", name),
	}
}

// URL returns the current browser URL.
func (p *page) URL() string {
	return p.d.URL()
}

// Title returns the document title, or the empty string.
func (p *page) Title(ctx context.Context) string {
	t, err := p.d.Title(ctx)
	if err != nil {
		return ""
	}
	return t
}

// open navigates to path and waits for the first readiness signal that shows
// up. Each signal is bounded by the wait timeout; body is always tried last.
func (p *page) open(ctx context.Context, path string, ready ...browser.Locator) error {
	url := p.opts.BaseURL + path
	if err := p.d.Navigate(ctx, url); err != nil {
		return err
	}
	p.waitReady(ctx, ready...)
	return nil
}

func (p *page) waitReady(ctx context.Context, ready ...browser.Locator) {
	signals := append(ready, body)
	for _, l := range signals {
		err := p.opts.Wait.Until(ctx, func(ctx context.Context) (bool, error) {
			if l.Name == body.Name {
				_, ok := l.Find(ctx, p.d)
				return ok, nil
			}
			_, ok := l.FindVisible(ctx, p.d)
			return ok, nil
		})
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		p.log.WithField("signal", l.Name).Debug("readiness signal missing, falling back")
	}
	p.log.Warn("page did not become ready, continuing")
}

// text returns the trimmed text of the first element with text, or NotFound.
func (p *page) text(ctx context.Context, l browser.Locator) string {
	el, ok := l.FindText(ctx, p.d)
	if !ok {
		return NotFound
	}
	s, err := el.Text(ctx)
	if err != nil {
		p.log.WithField("field", l.Name).WithError(err).Debug("read text failed")
		return NotFound
	}
	return strings.TrimSpace(s)
}

// value returns the value of the first visible input matched by l.
func (p *page) value(ctx context.Context, l browser.Locator) string {
	el, ok := l.FindVisible(ctx, p.d)
	if !ok {
		return NotFound
	}
	v, err := el.Value(ctx)
	if err != nil {
		return NotFound
	}
	return v
}

func (p *page) attr(ctx context.Context, l browser.Locator, name string) string {
	el, ok := l.Find(ctx, p.d)
	if !ok {
		return NotFound
	}
	v, err := el.Attribute(ctx, name)
	if err != nil || v == "" {
		return NotFound
	}
	return v
}

// visible reports whether l currently matches a visible element.
func (p *page) visible(ctx context.Context, l browser.Locator) bool {
	_, ok := l.FindVisible(ctx, p.d)
	return ok
}

// waitVisible waits until l matches a visible element.
func (p *page) waitVisible(ctx context.Context, l browser.Locator) bool {
	return p.opts.Wait.Until(ctx, func(ctx context.Context) (bool, error) {
		return p.visible(ctx, l), nil
	}) == nil
}

// waitHidden waits until l no longer matches a visible element.
func (p *page) waitHidden(ctx context.Context, l browser.Locator) bool {
	return p.opts.Wait.Until(ctx, func(ctx context.Context) (bool, error) {
		return !p.visible(ctx, l), nil
	}) == nil
}

func (p *page) count(ctx context.Context, l browser.Locator) int {
	return len(l.FindAll(ctx, p.d))
}

// finder re-resolves an action target; it is called again after staleness.
type finder func(ctx context.Context) (browser.Element, bool)

func (p *page) visibleIn(l browser.Locator) finder {
	return func(ctx context.Context) (browser.Element, bool) {
		return l.FindVisible(ctx, p.d)
	}
}

// interactable waits until find yields a visible, enabled element.
func (p *page) interactable(ctx context.Context, name string, find finder) bool {
	err := p.opts.Wait.Until(ctx, func(ctx context.Context) (bool, error) {
		el, ok := find(ctx)
		if !ok {
			return false, nil
		}
		return el.Enabled(ctx)
	})
	if err != nil {
		p.log.WithField("field", name).WithError(err).Info("element not interactable")
		return false
	}
	return true
}

// act waits for the target to become interactable and runs do on it,
// re-resolving the element when it goes stale.
func (p *page) act(ctx context.Context, name, what string, find finder, do func(context.Context, browser.Element) error) bool {
	if !p.interactable(ctx, name, find) {
		return false
	}
	err := browser.RetryStale(ctx, p.opts.StaleRetries, func(ctx context.Context) error {
		el, ok := find(ctx)
		if !ok {
			return browser.ErrNotFound
		}
		return do(ctx, el)
	})
	if err != nil {
		p.log.WithFields(logrus.Fields{"field": name, "action": what}).WithError(err).Info("action failed")
		return false
	}
	return true
}

func clickElement(ctx context.Context, el browser.Element) error {
	return el.Click(ctx)
}

func (p *page) click(ctx context.Context, l browser.Locator) bool {
	return p.act(ctx, l.Name, "click", p.visibleIn(l), clickElement)
}

func (p *page) fill(ctx context.Context, l browser.Locator, value string) bool {
	return p.act(ctx, l.Name, "fill", p.visibleIn(l), func(ctx context.Context, el browser.Element) error {
		return el.Fill(ctx, value)
	})
}

// settle waits for cond when given, otherwise for the fixed settle delay.
func (p *page) settle(ctx context.Context, cond browser.Condition) bool {
	if cond == nil {
		return browser.Settle(ctx, p.opts.Settle) == nil
	}
	if err := p.opts.Wait.Until(ctx, cond); err != nil {
		p.log.WithError(err).Debug("post-action condition not met")
		return false
	}
	return true
}

// nth returns the element at index i of l, or false when out of range.
func (p *page) nth(ctx context.Context, l browser.Locator, i int) (browser.Element, bool) {
	if i < 0 {
		return nil, false
	}
	els := l.FindAll(ctx, p.d)
	if i >= len(els) {
		return nil, false
	}
	return els[i], true
}

// nthIn finds the element at index i of l, re-querying on every call.
func (p *page) nthIn(l browser.Locator, i int) finder {
	return func(ctx context.Context) (browser.Element, bool) {
		return p.nth(ctx, l, i)
	}
}

func (p *page) urlContains(fragment string) browser.Condition {
	return func(context.Context) (bool, error) {
		return strings.Contains(p.d.URL(), fragment), nil
	}
}

func (p *page) urlLeaves(fragment string) browser.Condition {
	return func(context.Context) (bool, error) {
		return !strings.Contains(p.d.URL(), fragment), nil
	}
}

// anyOf is true as soon as one of conds is.
func anyOf(conds ...browser.Condition) browser.Condition {
	return func(ctx context.Context) (bool, error) {
		for _, c := range conds {
			if ok, err := c(ctx); err == nil && ok {
				return true, nil
			}
		}
		return false, nil
	}
}

func (p *page) visibleCond(l browser.Locator) browser.Condition {
	return func(ctx context.Context) (bool, error) {
		return p.visible(ctx, l), nil
	}
}

// cellText reads a field scoped to one table row, or NotFound.
func cellText(ctx context.Context, row browser.Element, l browser.Locator) string {
	el, ok := l.Find(ctx, row)
	if !ok {
		return NotFound
	}
	s, err := el.Text(ctx)
	if err != nil {
		return NotFound
	}
	return strings.TrimSpace(s)
}
