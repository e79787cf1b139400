package mapping

import (
	"errors"
	"net/http"
)

// Domain errors for mapping reconciliation operations.
var (
	ErrNotFound            = errors.New("mapping configuration not found")
	ErrAlreadyExists       = errors.New("mapping configuration already exists")
	ErrInvalidState        = errors.New("operation not valid in current status")
	ErrIncomplete          = errors.New("mapping configuration is empty")
	ErrNotApproved         = errors.New("configuration must be approved before export")
	ErrInvalidDecision     = errors.New("invalid review decision")
	ErrUnknownCategory     = errors.New("unknown mapping category")
	ErrSourceValueRequired = errors.New("source value is required")
	ErrTargetValueRequired = errors.New("target value is required")
	ErrSourceUnavailable   = errors.New("source system unavailable")
)

// MapHTTPStatus maps mapping domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrNotApproved):
		return http.StatusConflict
	case errors.Is(err, ErrIncomplete),
		errors.Is(err, ErrSourceValueRequired),
		errors.Is(err, ErrTargetValueRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidDecision), errors.Is(err, ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, ErrSourceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
