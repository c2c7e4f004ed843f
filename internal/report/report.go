// Package report prints the human-facing check results of a verifier run.
//
// Every check ends in exactly one line on stdout, prefixed "SUCCESS:" or
// "FAILURE:". These lines are the run's only machine-adjacent output other
// than the exit status.
package report

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	successPrefix = "SUCCESS: "
	failurePrefix = "FAILURE: "
)

// Reporter writes check outcomes and informational lines.
type Reporter struct {
	mu       sync.Mutex
	w        io.Writer
	passed   int
	failures []string
}

// New returns a Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Stdout returns a Reporter writing to os.Stdout.
func Stdout() *Reporter {
	return New(os.Stdout)
}

// Success records a passing check.
func (r *Reporter) Success(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passed++
	fmt.Fprintln(r.w, successPrefix+fmt.Sprintf(format, args...))
}

// Failure records a failing check.
func (r *Reporter) Failure(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	r.failures = append(r.failures, msg)
	fmt.Fprintln(r.w, failurePrefix+msg)
}

// Check records a success or failure depending on ok.
func (r *Reporter) Check(ok bool, success, failure string) bool {
	if ok {
		r.Success("%s", success)
	} else {
		r.Failure("%s", failure)
	}
	return ok
}

// Info prints an unprefixed progress line.
func (r *Reporter) Info(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, fmt.Sprintf(format, args...))
}

// Passed returns the number of successful checks.
func (r *Reporter) Passed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passed
}

// Failures returns the messages of failed checks in order.
func (r *Reporter) Failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.failures...)
}

// Failed reports whether any check failed.
func (r *Reporter) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures) > 0
}
