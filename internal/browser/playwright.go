package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// LaunchOptions configures the browser started by Launch.
type LaunchOptions struct {
	// Browser is one of chromium, firefox or webkit. Empty means chromium.
	Browser  string
	Headless bool
	SlowMo   time.Duration
	// ActionTimeout bounds every single driver call (click, read, fill).
	ActionTimeout time.Duration
	Viewport      *playwright.Size
}

// Launcher owns a playwright process and one browser. Sessions are isolated
// browser contexts opened on demand.
type Launcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    LaunchOptions
}

// Launch starts playwright and the configured browser. Browsers must already
// be installed (go run github.com/playwright-community/playwright-go/cmd/playwright install).
func Launch(opts LaunchOptions) (*Launcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var bt playwright.BrowserType
	switch strings.ToLower(opts.Browser) {
	case "", "chromium", "chrome":
		bt = pw.Chromium
	case "firefox":
		bt = pw.Firefox
	case "webkit":
		bt = pw.WebKit
	default:
		pw.Stop()
		return nil, fmt.Errorf("unsupported browser %q", opts.Browser)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.SlowMo > 0 {
		launchOpts.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}
	b, err := bt.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &Launcher{pw: pw, browser: b, opts: opts}, nil
}

// NewSession opens an isolated browser context with a single page.
func (l *Launcher) NewSession(ctx context.Context) (Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	viewport := l.opts.Viewport
	if viewport == nil {
		viewport = &playwright.Size{Width: 1280, Height: 720}
	}
	bctx, err := l.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: viewport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return NewPlaywrightDriver(bctx, page, l.opts.ActionTimeout), nil
}

// Close stops the browser and the playwright process.
func (l *Launcher) Close() error {
	var errs []error
	if err := l.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	if err := l.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

// PlaywrightDriver implements Driver on top of a playwright page.
type PlaywrightDriver struct {
	bctx playwright.BrowserContext
	page playwright.Page
}

// NewPlaywrightDriver wraps page. bctx may be nil when the caller owns the
// context; Close then only closes the page.
func NewPlaywrightDriver(bctx playwright.BrowserContext, page playwright.Page, actionTimeout time.Duration) *PlaywrightDriver {
	if actionTimeout <= 0 {
		actionTimeout = 5 * time.Second
	}
	page.SetDefaultTimeout(float64(actionTimeout.Milliseconds()))
	return &PlaywrightDriver{bctx: bctx, page: page}
}

func (d *PlaywrightDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := d.page.Goto(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, mapError(err))
	}
	return nil
}

func (d *PlaywrightDriver) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := d.page.Reload(); err != nil {
		return fmt.Errorf("reload: %w", mapError(err))
	}
	return nil
}

func (d *PlaywrightDriver) URL() string {
	return d.page.URL()
}

func (d *PlaywrightDriver) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	title, err := d.page.Title()
	return title, mapError(err)
}

func (d *PlaywrightDriver) Query(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return queryLocator(d.page.Locator(selector), selector)
}

func queryLocator(loc playwright.Locator, selector string) ([]Element, error) {
	n, err := loc.Count()
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, mapError(err))
	}
	els := make([]Element, n)
	for i := 0; i < n; i++ {
		els[i] = &playwrightElement{loc: loc.Nth(i)}
	}
	return els, nil
}

func (d *PlaywrightDriver) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("screenshot %s: %w", path, mapError(err))
	}
	return nil
}

func (d *PlaywrightDriver) Close() error {
	if d.bctx != nil {
		return d.bctx.Close()
	}
	return d.page.Close()
}

type playwrightElement struct {
	loc playwright.Locator
}

func (e *playwrightElement) Query(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return queryLocator(e.loc.Locator(selector), selector)
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s, err := e.loc.InnerText()
	return strings.TrimSpace(s), mapError(err)
}

func (e *playwrightElement) Value(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s, err := e.loc.InputValue()
	return s, mapError(err)
}

func (e *playwrightElement) Attribute(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s, err := e.loc.GetAttribute(name)
	return s, mapError(err)
}

func (e *playwrightElement) Visible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := e.loc.IsVisible()
	return ok, mapError(err)
}

func (e *playwrightElement) Enabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := e.loc.IsEnabled()
	return ok, mapError(err)
}

func (e *playwrightElement) Checked(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := e.loc.IsChecked()
	return ok, mapError(err)
}

func (e *playwrightElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.loc.Click())
}

func (e *playwrightElement) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.loc.Fill(value))
}

func (e *playwrightElement) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapError(e.loc.Press(key))
}

// mapError translates playwright failures into the package sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	msg := err.Error()
	if strings.Contains(msg, "not attached to the DOM") || strings.Contains(msg, "detached") {
		return fmt.Errorf("%w: %v", ErrStale, err)
	}
	return err
}
