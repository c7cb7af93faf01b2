package folders

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/docman/internal/access"
)

var (
	ErrNotFound      = errors.New("folder not found")
	ErrDuplicate     = errors.New("folder already exists")
	ErrNameRequired  = errors.New("folder name required")
	ErrParentMissing = errors.New("parent folder not found")
	ErrSelfParent    = errors.New("folder cannot be its own parent")
	ErrCycle         = errors.New("folder cannot be moved beneath its own descendant")
	ErrNotEmpty      = errors.New("folder contains sub-folders or documents")
)

// MapHTTPStatus converts domain errors to HTTP status codes. Access engine
// errors keep their own mapping.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrParentMissing):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrNotEmpty):
		return http.StatusConflict
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrSelfParent), errors.Is(err, ErrCycle):
		return http.StatusBadRequest
	default:
		return access.MapHTTPStatus(err)
	}
}
