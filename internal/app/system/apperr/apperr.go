// internal/app/system/apperr/apperr.go

// Package apperr defines the closed error taxonomy the core surfaces to
// callers. Every caller-visible failure carries a stable machine-readable
// kind plus a human message; unexpected failures wrap the underlying cause,
// which is logged server-side and never shown to the caller.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for status mapping and client handling.
type Kind int

const (
	// Unexpected is a storage or internal failure. Details are logged,
	// the caller sees a generic message.
	Unexpected Kind = iota
	// NotFound covers absent groups, posts, comments, members and reports,
	// and secret groups hidden from non-members.
	NotFound
	// Forbidden means the permission evaluator denied the action.
	Forbidden
	// InvalidArgument covers unrecognized enum values and malformed input.
	InvalidArgument
	// Conflict covers invariant-violating transitions: sole-admin removal,
	// duplicate pending requests, already-resolved reports, and version
	// contention that exhausted its retries.
	Conflict
)

// Code returns the stable machine-readable code for the kind.
func (k Kind) Code() string {
	switch k {
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	case InvalidArgument:
		return "invalid_argument"
	case Conflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// Error is the concrete error type used throughout the core.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, only for Unexpected
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a caller error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf returns a caller error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap marks err as an unexpected internal failure with context.
func Wrap(err error, message string) *Error {
	return &Error{Kind: Unexpected, Message: message, Err: err}
}

// KindOf extracts the kind from err; anything unrecognized is Unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unexpected
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
