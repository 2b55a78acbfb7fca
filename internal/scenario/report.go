package scenario

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// Summary counts scenario outcomes.
type Summary struct {
	Passed   int
	Failed   int
	Warnings int
	Duration time.Duration
}

func (s Summary) OK() bool {
	return s.Failed == 0
}

func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
		s.Warnings += len(r.Warnings)
		s.Duration += r.Duration
	}
	return s
}

var (
	passLabel = color.New(color.FgGreen, color.Bold)
	failLabel = color.New(color.FgRed, color.Bold)
	warnLabel = color.New(color.FgYellow)
	faint     = color.New(color.Faint)
)

// Report writes one line per scenario followed by a summary. Colors are
// dropped when the output is not a terminal.
func Report(w io.Writer, results []Result) Summary {
	for _, r := range results {
		if r.Passed() {
			passLabel.Fprint(w, "PASS")
		} else {
			failLabel.Fprint(w, "FAIL")
		}
		fmt.Fprintf(w, " %s ", r.Scenario)
		faint.Fprintf(w, "(%s)\n", r.Duration.Round(time.Millisecond))
		for _, msg := range r.Warnings {
			warnLabel.Fprintf(w, "    warning: %s\n", msg)
		}
		if r.Err != nil {
			fmt.Fprintf(w, "    %v\n", r.Err)
		}
	}

	s := Summarize(results)
	fmt.Fprintln(w)
	label := passLabel
	if !s.OK() {
		label = failLabel
	}
	label.Fprintf(w, "%d passed, %d failed", s.Passed, s.Failed)
	fmt.Fprintf(w, ", %d warnings in %s\n", s.Warnings, s.Duration.Round(time.Millisecond))
	return s
}
