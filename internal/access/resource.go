package access

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/users"
)

// Kind distinguishes the resource types that carry an accessibility list.
type Kind string

const (
	KindDocument Kind = "document"
	KindFolder   Kind = "folder"
)

// ParseKind accepts the singular and plural forms used in URLs.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "document", "documents":
		return KindDocument, nil
	case "folder", "folders":
		return KindFolder, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Ref addresses one resource.
type Ref struct {
	Kind Kind      `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

func DocumentRef(id uuid.UUID) Ref { return Ref{Kind: KindDocument, ID: id} }
func FolderRef(id uuid.UUID) Ref   { return Ref{Kind: KindFolder, ID: id} }

func (r Ref) String() string {
	return string(r.Kind) + "/" + r.ID.String()
}

// Resource is the view of a document or folder the engine needs.
type Resource struct {
	Ref
	OwnerID uuid.UUID
	Name    string
}

// Subject is a user as seen by authorization checks.
type Subject struct {
	ID       uuid.UUID
	Username string
	Role     users.Role
}

// List is an accessibility list handle inside a transaction. Version is
// the concurrency token read when the list was loaded.
type List struct {
	ID      uuid.UUID
	Ref     Ref
	Version int64
}

// Item is one user's stored grant on a resource.
type Item struct {
	UserID uuid.UUID `json:"user_id"`
	Flags
	Level Level `json:"level"`
}

// Record is a grant joined with the resource and the grantee's username.
type Record struct {
	Kind         Kind      `json:"kind"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	Owner        bool      `json:"owner"`
	Flags
	Level Level `json:"level"`
}

// Viewer scopes listings to what a user may see. Admins see everything.
type Viewer struct {
	UserID uuid.UUID
	Admin  bool
}
