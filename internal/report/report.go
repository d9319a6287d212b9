// Package report turns guard violations into diagnostic output and an
// allow-or-block outcome.
package report

import (
	"fmt"
	"io"
)

// Process exit statuses understood by the host.
const (
	ExitAllow = 0
	ExitError = 1
	ExitBlock = 2
)

const prefix = "[guard]"

// Violation is a single finding with a title and supporting detail lines.
type Violation struct {
	Title   string   `json:"title"`
	Details []string `json:"details,omitempty"`
}

// Outcome is the result of reporting a violation.
type Outcome int

const (
	// Continue means the host action may proceed.
	Continue Outcome = iota
	// Block means the host action must be stopped.
	Block
)

// Reporter writes violations to a diagnostic stream. In block mode the first
// reported violation concludes the invocation and later ones are dropped.
type Reporter struct {
	w        io.Writer
	blocking bool
	verbose  bool
	blocked  bool
}

// New returns a Reporter writing to w.
func New(w io.Writer, blocking, verbose bool) *Reporter {
	return &Reporter{w: w, blocking: blocking, verbose: verbose}
}

// Report writes v. Violations are printed regardless of verbosity.
func (r *Reporter) Report(v Violation) Outcome {
	if r.blocked {
		return Block
	}
	fmt.Fprintf(r.w, "%s %s\n", prefix, v.Title)
	for _, d := range v.Details {
		fmt.Fprintf(r.w, "%s - %s\n", prefix, d)
	}
	if r.blocking {
		r.blocked = true
		return Block
	}
	return Continue
}

// ReportAll reports each violation in order and returns the final outcome.
func (r *Reporter) ReportAll(vs []Violation) Outcome {
	outcome := Continue
	for _, v := range vs {
		outcome = r.Report(v)
		if outcome == Block {
			break
		}
	}
	return outcome
}

// Info prints msg only when verbose output is enabled.
func (r *Reporter) Info(msg string) {
	if r.verbose {
		fmt.Fprintf(r.w, "%s %s\n", prefix, msg)
	}
}

// Blocked reports whether a violation has concluded the invocation.
func (r *Reporter) Blocked() bool {
	return r.blocked
}

// ExitCode returns the process status for the current state.
func (r *Reporter) ExitCode() int {
	if r.blocked {
		return ExitBlock
	}
	return ExitAllow
}
