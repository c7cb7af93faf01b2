package access

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrSubjectNotFound = errors.New("user not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrForbidden       = errors.New("access denied")
	ErrConflict        = errors.New("permission list changed concurrently, retry the request")
	ErrInvalidKind     = errors.New("invalid resource kind")
	ErrInvalidLevel    = errors.New("invalid access level")
	ErrEmptyGrant      = errors.New("grant must include at least one permission")
)

// MapHTTPStatus converts domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrSubjectNotFound),
		errors.Is(err, ErrGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidKind),
		errors.Is(err, ErrInvalidLevel),
		errors.Is(err, ErrEmptyGrant):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
