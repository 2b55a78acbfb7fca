package browser

import (
	"context"
	"strings"
)

// Strategy is one way of finding an element. It returns false when the
// strategy yields nothing; it never returns an error.
type Strategy func(ctx context.Context) (Element, bool)

// Resolve evaluates strategies in order and returns the first element found.
func Resolve(ctx context.Context, strategies ...Strategy) (Element, bool) {
	for _, s := range strategies {
		if ctx.Err() != nil {
			return nil, false
		}
		if el, ok := s(ctx); ok {
			return el, true
		}
	}
	return nil, false
}

// First matches the first element for selector.
func First(d Scope, selector string) Strategy {
	return func(ctx context.Context) (Element, bool) {
		els, err := d.Query(ctx, selector)
		if err != nil || len(els) == 0 {
			return nil, false
		}
		return els[0], true
	}
}

// FirstWithText matches the first element for selector whose trimmed text is
// not empty.
func FirstWithText(d Scope, selector string) Strategy {
	return func(ctx context.Context) (Element, bool) {
		els, err := d.Query(ctx, selector)
		if err != nil {
			return nil, false
		}
		for _, el := range els {
			text, err := el.Text(ctx)
			if err == nil && strings.TrimSpace(text) != "" {
				return el, true
			}
		}
		return nil, false
	}
}

// FirstVisible matches the first visible element for selector.
func FirstVisible(d Scope, selector string) Strategy {
	return func(ctx context.Context) (Element, bool) {
		els, err := d.Query(ctx, selector)
		if err != nil {
			return nil, false
		}
		for _, el := range els {
			if ok, err := el.Visible(ctx); err == nil && ok {
				return el, true
			}
		}
		return nil, false
	}
}

// Locator binds a logical field of a screen to selectors ordered from most to
// least specific.
type Locator struct {
	Name      string
	Selectors []string
}

// Loc is shorthand for building a Locator.
func Loc(name string, selectors ...string) Locator {
	return Locator{Name: name, Selectors: selectors}
}

// Strategies turns every selector into a strategy built by pick.
func (l Locator) Strategies(d Scope, pick func(Scope, string) Strategy) []Strategy {
	out := make([]Strategy, 0, len(l.Selectors))
	for _, sel := range l.Selectors {
		out = append(out, pick(d, sel))
	}
	return out
}

// Find resolves the first selector that matches anything.
func (l Locator) Find(ctx context.Context, d Scope) (Element, bool) {
	return Resolve(ctx, l.Strategies(d, First)...)
}

// FindText resolves the first selector that matches an element with text.
func (l Locator) FindText(ctx context.Context, d Scope) (Element, bool) {
	return Resolve(ctx, l.Strategies(d, FirstWithText)...)
}

// FindVisible resolves the first selector that matches a visible element.
func (l Locator) FindVisible(ctx context.Context, d Scope) (Element, bool) {
	return Resolve(ctx, l.Strategies(d, FirstVisible)...)
}

// FindAll returns the elements of the first selector that yields a non-empty
// list.
func (l Locator) FindAll(ctx context.Context, d Scope) []Element {
	for _, sel := range l.Selectors {
		els, err := d.Query(ctx, sel)
		if err == nil && len(els) > 0 {
			return els
		}
	}
	return nil
}

func (l Locator) String() string {
	return l.Name + " [" + strings.Join(l.Selectors, ", ") + "]"
}
