// Package apperrors carries the closed error taxonomy shared by the
// settlement services. Callers branch on Kind, never on message text.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error.
type Kind int

const (
	// KindValidation marks malformed or out-of-range caller input.
	KindValidation Kind = iota

	// KindNotFound marks a missing round, bet, or player.
	KindNotFound

	// KindAuthorization marks a caller who is not a participant in the round.
	KindAuthorization

	// KindConflict marks an operation rejected by entity lifecycle state,
	// such as updating a cancelled bet.
	KindConflict

	// KindDataIntegrity marks a stored-state invariant violation, such as a
	// bet with more than one declared winner. Never resolved silently.
	KindDataIntegrity

	// KindMissingInput marks absent round or course scalars the engine
	// cannot default, such as a zero hole count.
	KindMissingInput
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindDataIntegrity:
		return "data_integrity"
	case KindMissingInput:
		return "missing_input"
	default:
		return "unknown"
	}
}

// Error is a kinded domain error.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a kinded error with the given message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a kinded error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a kinded error wrapping an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the kind from err, reporting whether err carries one.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
