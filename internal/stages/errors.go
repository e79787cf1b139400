package stages

import (
	"errors"
	"net/http"
)

// Domain errors for stage artifact operations.
var (
	ErrNotFound         = errors.New("stage artifact not found")
	ErrAlreadyExists    = errors.New("stage artifact already exists")
	ErrInvalidState     = errors.New("operation not allowed in current status")
	ErrValidation       = errors.New("payload incomplete")
	ErrInvalidDecision  = errors.New("unknown review decision")
	ErrUnknownStageType = errors.New("unknown stage type")
)

// MapHTTPStatus maps stage domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidDecision), errors.Is(err, ErrUnknownStageType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
