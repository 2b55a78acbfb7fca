package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/browser"
)

// Sessions opens isolated browser sessions. *browser.Launcher implements it.
type Sessions interface {
	NewSession(ctx context.Context) (browser.Driver, error)
}

// SessionFunc adapts a function to Sessions.
type SessionFunc func(ctx context.Context) (browser.Driver, error)

func (f SessionFunc) NewSession(ctx context.Context) (browser.Driver, error) {
	return f(ctx)
}

// Runner executes scenarios one at a time, each in its own session.
type Runner struct {
	Sessions Sessions
	// ScreenshotDir receives <scenario>_<epochMillis>.png files. It is
	// created on first use.
	ScreenshotDir string
	Log           logrus.FieldLogger
	Now           func() time.Time

	lastShot int64
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Log != nil {
		return r.Log
	}
	return logrus.StandardLogger()
}

// run tracks one scenario execution through the state machine.
type run struct {
	r      *Runner
	s      Scenario
	t      *T
	result Result
}

func (x *run) enter(p Phase) {
	x.result.Path = append(x.result.Path, p)
	x.t.log.WithField("phase", p).Debug("entering phase")
}

// Run executes s and reports its outcome. It never panics on behalf of a
// step.
func (r *Runner) Run(ctx context.Context, s Scenario) Result {
	start := r.now()
	log := r.logger().WithField("scenario", s.Name)
	x := &run{
		r:      r,
		s:      s,
		t:      &T{scenario: s.Name, runner: r, log: log},
		result: Result{Scenario: s.Name, Status: StatusPassed},
	}
	x.enter(PhaseStart)

	d, err := r.Sessions.NewSession(ctx)
	if err != nil {
		x.result.Status = StatusFailed
		x.result.Err = &Error{Scenario: s.Name, Phase: PhaseStart, Err: fmt.Errorf("open session: %w", err)}
		x.enter(PhaseEnd)
		x.result.Duration = r.now().Sub(start)
		log.WithError(err).Error("scenario could not start")
		return x.result
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.WithError(err).Warn("failed to close session")
		}
	}()
	x.t.Driver = d

	if err := x.steps(ctx); err != nil {
		x.fail(ctx, err)
	}
	x.cleanup(ctx)
	x.enter(PhaseEnd)

	x.result.Warnings = x.t.warnings
	x.result.Screenshots = append(x.t.shots, x.result.Screenshots...)
	x.result.Duration = r.now().Sub(start)
	entry := log.WithFields(logrus.Fields{"duration": x.result.Duration, "warnings": len(x.result.Warnings)})
	if x.result.Passed() {
		entry.Info("scenario passed")
	} else {
		entry.WithError(x.result.Err).Error("scenario failed")
	}
	return x.result
}

// steps walks NAVIGATE, ACT and VERIFY and returns the first failure as *Error.
func (x *run) steps(ctx context.Context) error {
	x.enter(PhaseNavigate)
	if x.s.Navigate != nil {
		if err := x.call(ctx, PhaseNavigate, "", x.s.Navigate); err != nil {
			return err
		}
	}
	x.enter(PhaseAct)
	for _, st := range x.s.Act {
		if err := x.call(ctx, PhaseAct, st.Name, st.Run); err != nil {
			return err
		}
	}
	x.enter(PhaseVerify)
	for _, st := range x.s.Verify {
		if err := x.call(ctx, PhaseVerify, st.Name, st.Run); err != nil {
			return err
		}
	}
	return nil
}

// call runs one step, turning panics and context cancellation into errors.
func (x *run) call(ctx context.Context, phase Phase, step string, fn StepFunc) (err error) {
	wrap := func(cause error) error {
		return &Error{Scenario: x.s.Name, Phase: phase, Step: step, Err: cause}
	}
	if err := ctx.Err(); err != nil {
		return wrap(err)
	}
	if fn == nil {
		return nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			x.t.log.WithFields(logrus.Fields{"phase": phase, "step": step}).
				WithField("stack", string(debug.Stack())).Error("step panicked")
			err = wrap(fmt.Errorf("%w: %v", ErrPanic, rec))
		}
	}()
	x.t.log.WithFields(logrus.Fields{"phase": phase, "step": step}).Debug("running step")
	if err := fn(ctx, x.t); err != nil {
		return wrap(err)
	}
	return nil
}

// fail marks the run failed and captures the page as it was at the failure.
func (x *run) fail(ctx context.Context, err error) {
	x.result.Status = StatusFailed
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Scenario: x.s.Name, Err: err}
	}
	// Capture even when the scenario context is done.
	shotCtx := context.WithoutCancel(ctx)
	path, shotErr := x.r.screenshot(shotCtx, x.t.Driver, x.s.Name)
	if shotErr != nil {
		x.t.log.WithError(shotErr).Warn("failed to capture failure screenshot")
	} else {
		e.Screenshot = path
		x.result.Screenshots = append(x.result.Screenshots, path)
	}
	x.result.Err = e
}

func (x *run) cleanup(ctx context.Context) {
	if x.s.Cleanup == nil {
		return
	}
	x.enter(PhaseCleanup)
	if err := x.call(context.WithoutCancel(ctx), PhaseCleanup, "", x.s.Cleanup); err != nil {
		x.t.warnings = append(x.t.warnings, err.Error())
		x.t.log.WithError(err).Warn("cleanup failed")
	}
}

// screenshot writes a full-page PNG named after the scenario and the current
// time in milliseconds. Two shots in the same millisecond get distinct names.
func (r *Runner) screenshot(ctx context.Context, d browser.Driver, scenario string) (string, error) {
	if d == nil {
		return "", errors.New("no session")
	}
	dir := r.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	ms := r.now().UnixMilli()
	if ms <= r.lastShot {
		ms = r.lastShot + 1
	}
	r.lastShot = ms
	path := filepath.Join(dir, fmt.Sprintf("%s_%d.png", scenario, ms))
	if err := d.Screenshot(ctx, path); err != nil {
		return "", err
	}
	return path, nil
}

// RunAll runs scenarios sequentially. It stops early when ctx is done.
func (r *Runner) RunAll(ctx context.Context, scenarios ...Scenario) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		if ctx.Err() != nil {
			r.logger().WithError(ctx.Err()).Warn("suite interrupted")
			break
		}
		results = append(results, r.Run(ctx, s))
	}
	return results
}
