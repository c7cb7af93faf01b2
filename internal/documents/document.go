// Package documents coordinates the document lifecycle: upload, retrieval,
// soft deletion, moves and copies. Every operation is authorized against
// the access engine, and each new document is created together with its
// accessibility list.
package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/tags"
)

// Document is a stored file with its metadata.
type Document struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	PageCount   *int       `json:"page_count,omitempty"`
	Checksum    string     `json:"checksum"`
	StorageKey  string     `json:"-"`
	FolderID    *uuid.UUID `json:"folder_id,omitempty"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Version     int64      `json:"version"`
	Tags        []tags.Tag `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UploadCommand carries a new file and its placement. TagNames are created
// on demand; TagIDs must already exist.
type UploadCommand struct {
	Name        string
	Description string
	Filename    string
	ContentType string
	Data        []byte
	FolderID    *uuid.UUID
	TagNames    []string
	TagIDs      []uuid.UUID
}

// UpdateCommand changes display metadata. The stored file is immutable.
type UpdateCommand struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MoveCommand places a document in a folder, or at the root when FolderID is nil.
type MoveCommand struct {
	FolderID *uuid.UUID `json:"folder_id"`
}

// CopyCommand duplicates a document into FolderID, or the root when nil.
type CopyCommand struct {
	FolderID *uuid.UUID `json:"folder_id"`
	Name     string     `json:"name,omitempty"`
}
