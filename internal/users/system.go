package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/pkg/pagination"
)

// System defines user account operations.
type System interface {
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[User], error)
	Find(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, cmd CreateCommand) (*User, error)
}
