package users

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrDuplicate        = errors.New("username already exists")
	ErrInvalidRole      = errors.New("invalid role")
	ErrUsernameRequired = errors.New("username required")
)

// MapHTTPStatus converts domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrUsernameRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
