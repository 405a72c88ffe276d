// Package apperr defines the application error taxonomy shared by services,
// repositories and the HTTP layer. Every operational failure is an *Error
// carrying a Kind discriminant; callers match with apperr.IsKind and the
// transport layer maps kinds to HTTP statuses via Status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an operational failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindInvalidParent
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidParent:
		return "invalid_parent"
	default:
		return "internal"
	}
}

// statusByKind maps each kind to its HTTP status.
var statusByKind = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindDuplicate:       http.StatusBadRequest,
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindInvalidParent:   http.StatusBadRequest,
	KindInternal:        http.StatusInternalServerError,
}

// Error is the single error type of the taxonomy. Msg is safe to show to
// clients; Err holds the wrapped cause, if any.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an *Error with the given kind and client-safe message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches a cause to a kinded error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Convenience constructors for the common kinds.

func Validation(msg string) *Error { return New(KindValidation, msg) }

func Duplicate(msg string) *Error { return New(KindDuplicate, msg) }

func Unauthenticated(msg string) *Error { return New(KindUnauthenticated, msg) }

func Forbidden(msg string) *Error { return New(KindForbidden, msg) }

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func InvalidParent(msg string) *Error { return New(KindInvalidParent, msg) }

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Msg: "internal error", Err: err}
}

// KindOf extracts the kind from err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Status returns the HTTP status for err's kind.
func Status(err error) int {
	return statusByKind[KindOf(err)]
}

// Message returns a client-safe message for err. Internal causes are never
// exposed; callers log them separately.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Msg
	}
	return "internal error"
}
