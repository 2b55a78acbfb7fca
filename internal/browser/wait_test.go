package browser_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegana/shop/internal/browser"
)

func TestWaiter_UntilSucceedsOncePolledTrue(t *testing.T) {
	w := browser.NewWaiter(time.Second, 5*time.Millisecond)
	calls := 0
	err := w.Until(context.Background(), func(context.Context) (bool, error) {
		calls++
		return calls >= 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWaiter_UntilTimesOut(t *testing.T) {
	w := browser.NewWaiter(30*time.Millisecond, 5*time.Millisecond)
	start := time.Now()
	err := w.Until(context.Background(), func(context.Context) (bool, error) {
		return false, nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, browser.ErrTimeout))
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaiter_UntilReportsLastConditionError(t *testing.T) {
	w := browser.NewWaiter(20*time.Millisecond, 5*time.Millisecond)
	err := w.Until(context.Background(), func(context.Context) (bool, error) {
		return false, errors.New("element detached")
	})
	require.ErrorIs(t, err, browser.ErrTimeout)
	assert.Contains(t, err.Error(), "element detached")
}

func TestWaiter_UntilStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := browser.NewWaiter(time.Minute, 5*time.Millisecond)
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := w.Until(ctx, func(context.Context) (bool, error) { return false, nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewWaiter_Defaults(t *testing.T) {
	w := browser.NewWaiter(0, 0)
	assert.Equal(t, browser.DefaultTimeout, w.Timeout)
	assert.Equal(t, browser.DefaultPollInterval, w.Interval)
	assert.Equal(t, time.Second, w.WithTimeout(time.Second).Timeout)
}

func TestSettle(t *testing.T) {
	require.NoError(t, browser.Settle(context.Background(), 0))
	require.NoError(t, browser.Settle(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, browser.Settle(ctx, time.Hour), context.Canceled)
}

func TestRetryStale(t *testing.T) {
	stale := fmt.Errorf("click: %w", browser.ErrStale)

	tests := []struct {
		name      string
		attempts  int
		failures  int
		other     error
		wantCalls int
		wantErr   error
	}{
		{name: "succeeds first time", attempts: 3, failures: 0, wantCalls: 1},
		{name: "recovers after two stale errors", attempts: 3, failures: 2, wantCalls: 3},
		{name: "gives up after bound", attempts: 3, failures: 5, wantCalls: 3, wantErr: browser.ErrStale},
		{name: "zero attempts uses default", attempts: 0, failures: 10, wantCalls: browser.DefaultStaleRetries, wantErr: browser.ErrStale},
		{name: "other errors are not retried", attempts: 3, other: browser.ErrTimeout, wantCalls: 1, wantErr: browser.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := browser.RetryStale(context.Background(), tt.attempts, func(context.Context) error {
				calls++
				if tt.other != nil {
					return tt.other
				}
				if calls <= tt.failures {
					return stale
				}
				return nil
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestIsExpected(t *testing.T) {
	assert.True(t, browser.IsExpected(fmt.Errorf("x: %w", browser.ErrNotFound)))
	assert.True(t, browser.IsExpected(browser.ErrTimeout))
	assert.True(t, browser.IsExpected(browser.ErrStale))
	assert.False(t, browser.IsExpected(errors.New("browser crashed")))
	assert.False(t, browser.IsExpected(nil))
}
