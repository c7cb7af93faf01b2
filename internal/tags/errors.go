package tags

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/docman/internal/access"
)

var (
	ErrNotFound     = errors.New("tag not found")
	ErrDuplicate    = errors.New("tag name already exists")
	ErrNameRequired = errors.New("tag name required")
)

// MapHTTPStatus converts domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrNameRequired):
		return http.StatusBadRequest
	default:
		return access.MapHTTPStatus(err)
	}
}
