// Package annotations stores reviewer notes pinned to document pages.
package annotations

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
)

// Annotation is a note on a document page. X and Y locate it on the page
// as fractions of width and height.
type Annotation struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	Page       int       `json:"page"`
	Content    string    `json:"content"`
	X          *float64  `json:"x,omitempty"`
	Y          *float64  `json:"y,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateCommand struct {
	Page    int      `json:"page"`
	Content string   `json:"content"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
}

func (c CreateCommand) validate() error {
	if c.Content == "" {
		return ErrContentRequired
	}
	if c.Page < 1 {
		return ErrInvalidPosition
	}
	for _, v := range []*float64{c.X, c.Y} {
		if v != nil && (*v < 0 || *v > 1) {
			return ErrInvalidPosition
		}
	}
	return nil
}

var (
	ErrNotFound        = errors.New("annotation not found")
	ErrContentRequired = errors.New("annotation content required")
	ErrInvalidPosition = errors.New("annotation page must be positive and coordinates within [0, 1]")
)

// MapHTTPStatus converts domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrContentRequired), errors.Is(err, ErrInvalidPosition):
		return http.StatusBadRequest
	default:
		return access.MapHTTPStatus(err)
	}
}
