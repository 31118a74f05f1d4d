// Package apperr defines the error type shared by attend packages and the
// sentinel errors callers can match with errors.Is.
package apperr

import "fmt"

// Error represents a user-facing error. Values derived from a sentinel
// through Fmt or Wrap still match that sentinel with errors.Is.
type Error struct {
	Message string
	Cause   error
	kind    *Error
}

var (
	// ErrInvalidState is returned when a transition is not allowed from the
	// current session state (check-in while checked in, check-out while idle).
	ErrInvalidState = &Error{
		Message: "invalid state",
	}

	// ErrMissingIdentity is returned when no employee identifier is available.
	ErrMissingIdentity = &Error{
		Message: "missing employee identifier",
	}

	// ErrStoreUnavailable wraps I/O failures of the event log or the session
	// cache.
	ErrStoreUnavailable = &Error{
		Message: "store unavailable",
	}

	// ErrCorruptCacheEntry is returned when the session cache holds a value
	// that cannot be parsed.
	ErrCorruptCacheEntry = &Error{
		Message: "corrupt session cache entry",
	}
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}

	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.kind != nil {
		return e.kind
	}

	return e
}

// Fmt returns a copy of the error with its message formatted using args.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Message: fmt.Sprintf(e.Message, args...),
		Cause:   e.Cause,
		kind:    e.root(),
	}
}

// Wrap returns a copy of the error that wraps err.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		Message: e.Message,
		Cause:   err,
		kind:    e.root(),
	}
}
