package tags

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/pkg/pagination"
)

// System defines tag vocabulary and document tagging operations.
// Document operations take the acting user and enforce document permissions.
type System interface {
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Tag], error)
	Find(ctx context.Context, id uuid.UUID) (*Tag, error)

	// Create returns the existing tag when the normalized name is taken.
	Create(ctx context.Context, cmd CreateCommand) (*Tag, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ForDocument(ctx context.Context, actor, documentID uuid.UUID) ([]Tag, error)
	Attach(ctx context.Context, actor, documentID, tagID uuid.UUID) error
	Detach(ctx context.Context, actor, documentID, tagID uuid.UUID) error
	Replace(ctx context.Context, actor, documentID uuid.UUID, tagIDs []uuid.UUID) ([]Tag, error)
}
