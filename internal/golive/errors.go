package golive

import (
	"errors"
	"net/http"
)

// Domain errors for go-live operations.
var (
	ErrNotFound           = errors.New("go-live checklist not found")
	ErrEventNotFound      = errors.New("go-live event not found")
	ErrAlreadyExists      = errors.New("go-live checklist already exists")
	ErrAlreadyTriggered   = errors.New("go-live already triggered")
	ErrPreconditionFailed = errors.New("go-live checklist not complete")
	ErrChecklistFrozen    = errors.New("checklist frozen after go-live")
	ErrItemNotFound       = errors.New("checklist item not found")
	ErrUnknownSide        = errors.New("unknown checklist side")
)

// MapHTTPStatus maps go-live domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrAlreadyTriggered),
		errors.Is(err, ErrPreconditionFailed),
		errors.Is(err, ErrChecklistFrozen):
		return http.StatusConflict
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrUnknownSide):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
