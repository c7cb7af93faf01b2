package groups

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("group not found")
	ErrDuplicate    = errors.New("group name already exists")
	ErrNameRequired = errors.New("group name required")
	ErrUserNotFound = errors.New("user not found")
)

// MapHTTPStatus converts domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrNameRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
