package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/pkg/pagination"
)

// System defines document lifecycle operations on behalf of an acting user.
type System interface {
	Upload(ctx context.Context, actor uuid.UUID, cmd UploadCommand) (*Document, error)
	Find(ctx context.Context, actor, id uuid.UUID) (*Document, error)
	Download(ctx context.Context, actor, id uuid.UUID) (*Document, []byte, error)
	List(ctx context.Context, actor uuid.UUID, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	Update(ctx context.Context, actor, id uuid.UUID, cmd UpdateCommand) (*Document, error)
	Delete(ctx context.Context, actor, id uuid.UUID) error
	Move(ctx context.Context, actor, id uuid.UUID, cmd MoveCommand) (*Document, error)
	Copy(ctx context.Context, actor, id uuid.UUID, cmd CopyCommand) (*Document, error)
}

// Repository persists document metadata. Soft-deleted documents are
// invisible to every method.
type Repository interface {
	// Create inserts doc, its accessibility list with an Owner item for
	// doc.OwnerID, and its tags in one transaction.
	Create(ctx context.Context, doc Document, tagNames []string, tagIDs []uuid.UUID) (*Document, error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	List(ctx context.Context, viewer access.Viewer, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Document, error)
	Move(ctx context.Context, id uuid.UUID, folderID *uuid.UUID) (*Document, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
