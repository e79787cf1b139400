package projects

import (
	"errors"
	"net/http"
)

// Domain errors for project operations.
var (
	ErrNotFound             = errors.New("project not found")
	ErrDuplicate            = errors.New("project already exists")
	ErrUnknownStage         = errors.New("unknown lifecycle stage")
	ErrStageBoundary        = errors.New("no lifecycle stage in that direction")
	ErrStageConflict        = errors.New("project stage changed concurrently")
	ErrNameRequired         = errors.New("project name required")
	ErrClientRequired       = errors.New("client id required")
	ErrInvalidPayrollSystem = errors.New("unsupported payroll system")
)

// MapHTTPStatus maps project domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrStageConflict):
		return http.StatusConflict
	case errors.Is(err, ErrStageBoundary):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownStage),
		errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrClientRequired),
		errors.Is(err, ErrInvalidPayrollSystem):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
