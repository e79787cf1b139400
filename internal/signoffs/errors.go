package signoffs

import (
	"errors"
	"net/http"
)

// Domain errors for signoff operations.
var (
	ErrNotFound      = errors.New("signoff not found")
	ErrDuplicate     = errors.New("signoff already exists")
	ErrAlreadySigned = errors.New("signoff already signed")
	ErrInvalidState  = errors.New("signoff not in a signable state")
	ErrNotPublished  = errors.New("signoff document not published")
	ErrUnknownType   = errors.New("unknown signoff type")
	ErrConfirmText   = errors.New("confirmation text required")
)

// MapHTTPStatus maps signoff domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrAlreadySigned),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrNotPublished):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownType), errors.Is(err, ErrConfirmText):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
