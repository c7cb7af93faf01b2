// Package tags manages the global tag vocabulary and the tags attached to
// documents.
package tags

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tag is a label shared across documents. Names are unique after normalization.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Normalize trims and lower-cases a tag name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type CreateCommand struct {
	Name string `json:"name"`
}

type UpdateCommand struct {
	Name string `json:"name"`
}

// ReplaceCommand sets the complete tag list of a document.
type ReplaceCommand struct {
	TagIDs []uuid.UUID `json:"tag_ids"`
}
