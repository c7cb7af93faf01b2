// Package folders organizes documents into a hierarchy. Folders are
// hard-deleted and only when empty; reparenting never creates a cycle.
package folders

import (
	"time"

	"github.com/google/uuid"
)

type Folder struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateCommand struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// UpdateCommand renames, describes and optionally reparents a folder.
// ParentID is applied only when SetParent is true; a nil ParentID then
// moves the folder to the root.
type UpdateCommand struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	SetParent   bool       `json:"set_parent"`
	ParentID    *uuid.UUID `json:"parent_id"`
}
