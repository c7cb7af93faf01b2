package folders

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/pkg/pagination"
)

// System defines folder operations on behalf of an acting user.
type System interface {
	Create(ctx context.Context, actor uuid.UUID, cmd CreateCommand) (*Folder, error)
	Find(ctx context.Context, actor, id uuid.UUID) (*Folder, error)

	// List returns visible root folders, or the children of parentID when set.
	List(ctx context.Context, actor uuid.UUID, parentID *uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Folder], error)
	Update(ctx context.Context, actor, id uuid.UUID, cmd UpdateCommand) (*Folder, error)
	Delete(ctx context.Context, actor, id uuid.UUID) error
}

// Repository persists folders.
type Repository interface {
	// Create inserts the folder with its accessibility list and an Owner
	// item for f.OwnerID in one transaction.
	Create(ctx context.Context, f Folder) (*Folder, error)
	Find(ctx context.Context, id uuid.UUID) (*Folder, error)
	List(ctx context.Context, viewer access.Viewer, parentID *uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Folder], error)

	// Update applies f. With reparent set, the new parent's ancestry is
	// checked inside the transaction and ErrCycle returned if f would
	// become its own ancestor.
	Update(ctx context.Context, f Folder, reparent bool) (*Folder, error)

	// Delete removes an empty folder or returns ErrNotEmpty.
	Delete(ctx context.Context, id uuid.UUID) error
}
