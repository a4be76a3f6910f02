// Package cmnerr implements the error model: user-facing
// values carrying a short summary, actionable suggestions, an optional
// wrapped cause, and a User/System kind tag.
package cmnerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind tags an Error as caused by bad input (User) or an unexpected
// internal/remote condition (System).
type Kind int

const (
	KindUser Kind = iota
	KindSystem
)

func (k Kind) String() string {
	if k == KindSystem {
		return "system"
	}
	return "user"
}

// Error is the core error type: a short message, zero or more
// suggestions, a kind, and an optional wrapped cause. HTTP response
// errors additionally set StatusCode and Body.
type Error struct {
	Summary     string
	Suggestions []string
	Kind        Kind
	StatusCode  int
	Body        string
	cause       error
}

// User constructs a User-kind Error.
func User(summary string, context ...string) *Error {
	return &Error{Summary: withContext(summary, context), Kind: KindUser}
}

// System constructs a System-kind Error.
func System(summary string, context ...string) *Error {
	return &Error{Summary: withContext(summary, context), Kind: KindSystem}
}

func withContext(summary string, context []string) string {
	if len(context) == 0 {
		return summary
	}
	return fmt.Sprintf("%s (%s)", summary, strings.Join(context, ", "))
}

// WithSuggestions attaches one or more actionable suggestions and
// returns the receiver for chaining.
func (e *Error) WithSuggestions(s ...string) *Error {
	e.Suggestions = append(e.Suggestions, s...)
	return e
}

// WithCause wraps an underlying cause using pkg/errors so that
// errors.Is/As and (*Error).Cause both see through it.
func (e *Error) WithCause(cause error) *Error {
	if cause != nil {
		e.cause = errors.WithStack(cause)
	}
	return e
}

// WithHTTPStatus attaches a response status code and body excerpt.
func (e *Error) WithHTTPStatus(status int, body string) *Error {
	e.StatusCode = status
	e.Body = body
	return e
}

// Cause returns the wrapped cause, or nil. Satisfies the
// github.com/pkg/errors causer interface.
func (e *Error) Cause() error { return e.cause }

// Unwrap supports stdlib errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Summary)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " [status %d]", e.StatusCode)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %s", e.cause.Error())
	}
	return b.String()
}

// IsUser reports whether err is a *Error of User kind.
func IsUser(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindUser
	}
	return false
}

// IsCancelled reports whether err is the sentinel cancellation error.
func IsCancelled(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Summary == cancelledSummary
	}
	return false
}

const cancelledSummary = "cancelled"

// Cancelled constructs the sentinel "cancelled" user error raised at
// source page boundaries once the shared cancellation flag is set.
func Cancelled() *Error {
	return User(cancelledSummary)
}
