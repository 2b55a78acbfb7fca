package browser

import (
	"context"
	"errors"
)

// Errors shared by every driver binding. Bindings wrap their native errors with
// these so page objects can classify failures without knowing the engine.
var (
	ErrNotFound = errors.New("element not found")
	ErrTimeout  = errors.New("wait timed out")
	ErrStale    = errors.New("stale element")
)

// Scope is anything selectors can be evaluated against: the whole page or a
// single element. No match is an empty slice and a nil error.
type Scope interface {
	Query(ctx context.Context, selector string) ([]Element, error)
}

// Element is a handle to one node of the rendered page. Queries on an element
// only match its descendants.
type Element interface {
	Scope
	Text(ctx context.Context) (string, error)
	Value(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	Visible(ctx context.Context) (bool, error)
	Enabled(ctx context.Context) (bool, error)
	Checked(ctx context.Context) (bool, error)
	Click(ctx context.Context) error
	Fill(ctx context.Context, value string) error
	Press(ctx context.Context, key string) error
}

// Driver is one live browser session. It is owned by a single scenario and is
// not safe for concurrent use.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	URL() string
	Title(ctx context.Context) (string, error)
	Scope
	// Screenshot writes a full-page PNG to path.
	Screenshot(ctx context.Context, path string) error
	Close() error
}

// IsExpected reports whether err belongs to the failures a page object absorbs
// (absence, timeout, staleness) instead of propagating.
func IsExpected(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrStale)
}
