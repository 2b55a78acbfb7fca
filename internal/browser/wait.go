package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default wait bounds.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
	DefaultStaleRetries = 3
)

// Condition is polled by a Waiter until it reports true.
type Condition func(ctx context.Context) (bool, error)

// Waiter polls a condition with a fixed interval until a ceiling is reached.
type Waiter struct {
	Timeout  time.Duration
	Interval time.Duration
}

// NewWaiter returns a Waiter, substituting defaults for zero values.
func NewWaiter(timeout, interval time.Duration) Waiter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return Waiter{Timeout: timeout, Interval: interval}
}

// WithTimeout returns a copy of w bounded by d.
func (w Waiter) WithTimeout(d time.Duration) Waiter {
	w.Timeout = d
	return w
}

// Until polls cond until it returns true. Errors returned by cond are treated
// as "not yet" and reported with the timeout so the last cause is visible.
func (w Waiter) Until(ctx context.Context, cond Condition) error {
	w = NewWaiter(w.Timeout, w.Interval)
	deadline := time.NewTimer(w.Timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	var last error
	for {
		ok, err := cond(ctx)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			last = err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			if last != nil {
				return fmt.Errorf("%w after %s: %v", ErrTimeout, w.Timeout, last)
			}
			return fmt.Errorf("%w after %s", ErrTimeout, w.Timeout)
		case <-ticker.C:
		}
	}
}

// Settle blocks for d unless ctx ends first.
func Settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryStale runs fn until it succeeds or fails with something other than
// ErrStale, at most attempts times. fn must re-resolve its element on every
// call.
func RetryStale(ctx context.Context, attempts int, fn func(ctx context.Context) error) error {
	if attempts <= 0 {
		attempts = DefaultStaleRetries
	}
	var err error
	for i := 0; i < attempts; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = fn(ctx)
		if err == nil || !errors.Is(err, ErrStale) {
			return err
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
}
