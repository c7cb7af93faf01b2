package groups

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/pkg/pagination"
)

// System defines group and membership operations.
type System interface {
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Group], error)
	Find(ctx context.Context, id uuid.UUID) (*Group, error)
	Create(ctx context.Context, cmd CreateCommand) (*Group, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Group, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Members(ctx context.Context, id uuid.UUID) ([]Member, error)

	// AddMember is idempotent.
	AddMember(ctx context.Context, id, userID uuid.UUID) error
	RemoveMember(ctx context.Context, id, userID uuid.UUID) error
}
