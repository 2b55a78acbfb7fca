// Package scenario runs user journeys against a fresh browser session each.
// A scenario walks START, NAVIGATE, ACT, VERIFY, CLEANUP and END in order; a
// failing step skips straight to CLEANUP and the scenario ends failed.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/browser"
)

// Phase is a state of the per-scenario state machine.
type Phase string

const (
	PhaseStart    Phase = "start"
	PhaseNavigate Phase = "navigate"
	PhaseAct      Phase = "act"
	PhaseVerify   Phase = "verify"
	PhaseCleanup  Phase = "cleanup"
	PhaseEnd      Phase = "end"
)

// ErrPanic wraps a value recovered from a panicking step.
var ErrPanic = errors.New("step panicked")

// StepFunc is the body of one scenario step. Returning an error fails the
// scenario; soft checks go through T.Check instead.
type StepFunc func(ctx context.Context, t *T) error

// Step is a named unit of work inside the ACT or VERIFY phase.
type Step struct {
	Name string
	Run  StepFunc
}

// Scenario is one user journey.
type Scenario struct {
	Name     string
	Navigate StepFunc
	Act      []Step
	Verify   []Step
	// Cleanup runs after the last step or after the first failure.
	Cleanup StepFunc
}

// AssertionError is returned by T.Require when a hard invariant does not hold.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return "assertion failed: " + e.Message
}

// Error describes a failed scenario. It unwraps to the original cause.
type Error struct {
	Scenario   string
	Phase      Phase
	Step       string
	Screenshot string
	Err        error
}

func (e *Error) Error() string {
	where := string(e.Phase)
	if e.Step != "" {
		where += " step " + fmt.Sprintf("%q", e.Step)
	}
	msg := fmt.Sprintf("scenario %s failed in %s: %v", e.Scenario, where, e.Err)
	if e.Screenshot != "" {
		msg += " (screenshot: " + e.Screenshot + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// T is handed to every step. It is only valid for the duration of one run.
type T struct {
	// Driver is the session owned by the running scenario.
	Driver browser.Driver

	scenario string
	runner   *Runner
	log      logrus.FieldLogger
	warnings []string
	shots    []string
}

// Log returns the scenario logger.
func (t *T) Log() logrus.FieldLogger {
	return t.log
}

// Check is a soft assertion: a false cond is logged and recorded as a warning
// and the scenario carries on. It returns cond.
func (t *T) Check(cond bool, format string, args ...any) bool {
	if !cond {
		msg := fmt.Sprintf(format, args...)
		t.warnings = append(t.warnings, msg)
		t.log.WithField("check", msg).Warn("soft check failed")
	}
	return cond
}

// Require is a hard assertion: a false cond yields an *AssertionError that
// the step should return.
func (t *T) Require(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

// Snapshot saves a milestone screenshot and returns its path.
func (t *T) Snapshot(ctx context.Context) (string, error) {
	path, err := t.runner.screenshot(ctx, t.Driver, t.scenario)
	if err != nil {
		return "", err
	}
	t.shots = append(t.shots, path)
	return path, nil
}

// Status is the outcome of a scenario.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// Result of one scenario run.
type Result struct {
	Scenario string
	Status   Status
	// Err is a *Error when Status is failed.
	Err error
	// Path lists the phases the run went through, in order.
	Path        []Phase
	Warnings    []string
	Screenshots []string
	Duration    time.Duration
}

func (r Result) Passed() bool {
	return r.Status == StatusPassed
}
