package event

import (
	"errors"
	"fmt"
)

// ListenerError records a failure of a single listener during a dispatch.
type ListenerError struct {
	ID       ListenerID
	Priority Priority
	Err      error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %s failed: %v", e.ID, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

// Result describes the outcome of one dispatch. It is immutable once returned.
type Result struct {
	blocked bool
	invoked int
	errs    []*ListenerError
}

// blockedResult is shared by every blocked dispatch.
var blockedResult = &Result{blocked: true}

func (r *Result) record(l *listener, err error) {
	r.errs = append(r.errs, &ListenerError{ID: l.id, Priority: l.priority, Err: err})
}

// IsBlocked reports whether middleware rejected the event.
func (r *Result) IsBlocked() bool {
	return r.blocked
}

// ListenerCount returns the number of listeners invoked. Zero when blocked.
func (r *Result) ListenerCount() int {
	return r.invoked
}

// SuccessCount returns the number of listeners that completed without error.
func (r *Result) SuccessCount() int {
	return r.invoked - len(r.errs)
}

// ErrorCount returns the number of listeners that failed.
func (r *Result) ErrorCount() int {
	return len(r.errs)
}

// AllSucceeded reports whether the event was delivered and no listener failed.
func (r *Result) AllSucceeded() bool {
	return !r.blocked && len(r.errs) == 0
}

// HasErrors reports whether any listener failed.
func (r *Result) HasErrors() bool {
	return len(r.errs) > 0
}

// Errors returns listener failures in invocation order.
// Each element is a *ListenerError wrapping the listener's own error.
func (r *Result) Errors() []error {
	if len(r.errs) == 0 {
		return nil
	}
	out := make([]error, len(r.errs))
	for i, e := range r.errs {
		out[i] = e
	}
	return out
}

// Err joins all listener failures with errors.Join. Nil when none failed.
func (r *Result) Err() error {
	return errors.Join(r.Errors()...)
}
