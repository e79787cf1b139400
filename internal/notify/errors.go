package notify

import (
	"errors"
	"net/http"
)

// Domain errors for notification operations.
var (
	ErrNotFound  = errors.New("notification not found")
	ErrDuplicate = errors.New("notification already exists")
)

// MapHTTPStatus maps notification domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
