package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrAuthFailed       = fmt.Errorf("%w: invalid email or password", ErrNotAuthenticated)

	// Domain error kinds. Every failure reported by the lifecycle engines wraps exactly one of these.
	ErrValidation        = fmt.Errorf("validation failed")
	ErrUnauthorized      = fmt.Errorf("not authorized")
	ErrNotFound          = fmt.Errorf("not found")
	ErrDuplicate         = fmt.Errorf("already exists")
	ErrInvalidTransition = fmt.Errorf("%w: transition not allowed", ErrValidation)

	// Blob errors
	ErrBlobTooLarge = fmt.Errorf("%w: file too large", ErrValidation)

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// MissingFields builds an [ErrValidation] naming the empty required fields.
//
// Returns nil when fields is empty so callers can collect and return unconditionally.
func MissingFields(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(fields, ", "))
}

// ErrorKind classifies err into one of the domain kinds, or "internal" when it wraps none of them.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, ErrUnauthorized):
		return "authorization"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
