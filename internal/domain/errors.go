package domain

import "errors"

// Failure taxonomy for the booking core. Callers match with errors.Is;
// the API layer maps each sentinel to a wire code and HTTP status.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrUnavailable     = errors.New("storage unavailable")
)

// Code returns the wire-level error code for err, or "" when err does not
// belong to the taxonomy.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	default:
		return ""
	}
}
