// Package browsertest provides an in-memory browser.Driver for unit tests of
// page objects and scenarios. Pages are modeled as a map from selector to
// nodes; routes rebuild that map on navigation.
package browsertest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/vegana/shop/internal/browser"
)

// pngHeader is enough for tests to recognise a screenshot file.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Node is a fake DOM node.
type Node struct {
	Text     string
	Value    string
	Attrs    map[string]string
	Hidden   bool
	Disabled bool
	Checked  bool

	// Children maps selectors to descendants, for queries scoped to this node.
	Children map[string][]*Node

	// StaleFor makes the next n actions on the node fail with browser.ErrStale.
	StaleFor int

	OnClick func()
	OnFill  func(value string)
	OnPress func(key string)
}

// Route populates the fake page after a navigation to its URL.
type Route func(d *Driver)

// Driver is a fake browser session.
type Driver struct {
	mu     sync.Mutex
	url    string
	title  string
	nodes  map[string][]*Node
	routes map[string]Route

	// NavigateErr, when set, is returned by every Navigate call.
	NavigateErr error
	// ScreenshotErr, when set, is returned by every Screenshot call.
	ScreenshotErr error

	Screenshots []string
	Navigations []string
	Closed      bool
}

// New returns an empty fake session positioned on about:blank.
func New() *Driver {
	return &Driver{
		url:    "about:blank",
		nodes:  map[string][]*Node{},
		routes: map[string]Route{},
	}
}

// Route registers the content served for url. The key is the URL without its
// query string; Navigate passes the full URL through SetURL.
func (d *Driver) Route(url string, r Route) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes[url] = r
}

// Set replaces the nodes matching selector.
func (d *Driver) Set(selector string, nodes ...*Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nodes[selector] = nodes
}

// Remove drops every node for selector.
func (d *Driver) Remove(selector string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.nodes, selector)
}

// Nodes returns the nodes currently matching selector.
func (d *Driver) Nodes(selector string) []*Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.nodes[selector]
}

// SetURL moves the session without rebuilding the page, like a client-side
// redirect that the test wants to simulate.
func (d *Driver) SetURL(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = url
}

// SetTitle sets the document title.
func (d *Driver) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = title
}

// Load replaces the page with the route registered for url, as if the
// browser followed a link to it.
func (d *Driver) Load(url string) {
	d.mu.Lock()
	d.url = url
	d.title = ""
	d.nodes = map[string][]*Node{"body": {{}}}
	key := url
	if i := strings.IndexByte(key, '?'); i >= 0 {
		key = key[:i]
	}
	r, ok := d.routes[key]
	if !ok {
		r, ok = d.routes[url]
	}
	d.mu.Unlock()
	if ok {
		r(d)
	}
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.NavigateErr != nil {
		return d.NavigateErr
	}
	d.mu.Lock()
	d.Navigations = append(d.Navigations, url)
	d.mu.Unlock()
	d.Load(url)
	return nil
}

func (d *Driver) Reload(ctx context.Context) error {
	return d.Navigate(ctx, d.URL())
}

func (d *Driver) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title, nil
}

func (d *Driver) Query(ctx context.Context, selector string) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return wrap(d.nodes[selector]), nil
}

func (d *Driver) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.ScreenshotErr != nil {
		return d.ScreenshotErr
	}
	if err := os.WriteFile(path, pngHeader, 0o644); err != nil {
		return err
	}
	d.mu.Lock()
	d.Screenshots = append(d.Screenshots, path)
	d.mu.Unlock()
	return nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}

type element struct {
	n *Node
}

func (e *element) Query(ctx context.Context, selector string) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return wrap(e.n.Children[selector]), nil
}

func wrap(nodes []*Node) []browser.Element {
	els := make([]browser.Element, 0, len(nodes))
	for _, n := range nodes {
		els = append(els, &element{n: n})
	}
	return els
}

func (e *element) stale() error {
	if e.n.StaleFor > 0 {
		e.n.StaleFor--
		return fmt.Errorf("fake: %w", browser.ErrStale)
	}
	return nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	if err := e.stale(); err != nil {
		return "", err
	}
	return strings.TrimSpace(e.n.Text), ctx.Err()
}

func (e *element) Value(ctx context.Context) (string, error) {
	if err := e.stale(); err != nil {
		return "", err
	}
	return e.n.Value, ctx.Err()
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	return e.n.Attrs[name], ctx.Err()
}

func (e *element) Visible(ctx context.Context) (bool, error) {
	return !e.n.Hidden, ctx.Err()
}

func (e *element) Enabled(ctx context.Context) (bool, error) {
	return !e.n.Disabled, ctx.Err()
}

func (e *element) Checked(ctx context.Context) (bool, error) {
	return e.n.Checked, ctx.Err()
}

func (e *element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.stale(); err != nil {
		return err
	}
	if e.n.Hidden || e.n.Disabled {
		return fmt.Errorf("fake: element not interactable: %w", browser.ErrTimeout)
	}
	if e.n.Attrs != nil && e.n.Attrs["type"] == "checkbox" {
		e.n.Checked = !e.n.Checked
	}
	if e.n.OnClick != nil {
		e.n.OnClick()
	}
	return nil
}

func (e *element) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.stale(); err != nil {
		return err
	}
	e.n.Value = value
	if e.n.OnFill != nil {
		e.n.OnFill(value)
	}
	return nil
}

func (e *element) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.stale(); err != nil {
		return err
	}
	if e.n.OnPress != nil {
		e.n.OnPress(key)
	}
	return nil
}
