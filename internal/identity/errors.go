package identity

import (
	"errors"
	"net/http"
)

// Domain errors for identity and authorization.
var (
	ErrNoToken      = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
	ErrForbidden    = errors.New("action not permitted for this party")
	ErrNotReady     = errors.New("identity provider not ready")
)

// MapHTTPStatus maps identity errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoToken), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
