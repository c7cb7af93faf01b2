package documents

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/docman/internal/access"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicate     = errors.New("document storage key already exists")
	ErrFileTooLarge  = errors.New("file exceeds maximum upload size")
	ErrInvalidFile   = errors.New("invalid file")
	ErrNameRequired  = errors.New("document name required")
	ErrFolderMissing = errors.New("target folder not found")
	ErrCorruptCopy   = errors.New("copied content does not match source checksum")
)

// MapHTTPStatus converts domain errors to HTTP status codes. Access engine
// errors keep their own mapping.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrFolderMissing):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile), errors.Is(err, ErrNameRequired):
		return http.StatusBadRequest
	default:
		return access.MapHTTPStatus(err)
	}
}
