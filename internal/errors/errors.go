// Package errors defines the sentinels use cases return. HTTP handlers and the
// CLI translate them; nothing outside a use case should inspect driver errors.
package errors

import (
	"errors"
	"fmt"
)

// Resource and input errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// Access errors.
var (
	// ErrUnauthorized means no valid session was presented.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the session subject may not touch the target path.
	ErrForbidden = errors.New("forbidden")
	// ErrAuthFailed covers every reason a sign-in link is refused. Callers only
	// ever see this sentinel, not which check failed.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrTooManyRequests means a rate limiter rejected the call.
	ErrTooManyRequests = errors.New("too many requests")
)

// ErrUnavailable means the mail relay, the content store or the ledger failed
// or timed out.
var ErrUnavailable = errors.New("unavailable")

// New returns an error carrying message.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message, keeping it matchable with Is. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is is errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
