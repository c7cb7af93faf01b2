package access

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence the engine reads and mutates. Reads never
// cache; every call observes committed state.
type Store interface {
	// Resource returns ErrNotFound for missing resources and soft-deleted documents.
	Resource(ctx context.Context, ref Ref) (*Resource, error)

	// Subject returns ErrSubjectNotFound for unknown users.
	Subject(ctx context.Context, userID uuid.UUID) (*Subject, error)

	// Item returns nil when the user holds no stored grant.
	Item(ctx context.Context, ref Ref, userID uuid.UUID) (*Item, error)

	Records(ctx context.Context, ref Ref) ([]Record, error)
	Accessible(ctx context.Context, userID uuid.UUID) ([]Record, error)

	// Update runs fn in one transaction. A stale list version surfaces
	// as repository.ErrConcurrency and nothing fn wrote is kept.
	Update(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the mutation surface available inside Store.Update.
type Tx interface {
	Resource(ctx context.Context, ref Ref) (*Resource, error)

	// Members returns the group's current roster or ErrGroupNotFound.
	Members(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)

	// List loads the resource's accessibility list, creating it when absent.
	List(ctx context.Context, ref Ref) (*List, error)

	// Put upserts the user's item. Unknown users return ErrSubjectNotFound.
	Put(ctx context.Context, list *List, userID uuid.UUID, flags Flags) error

	// Remove deletes the user's item if present.
	Remove(ctx context.Context, list *List, userID uuid.UUID) error

	// Save advances the list version. It returns repository.ErrConcurrency
	// when another transaction saved the list first.
	Save(ctx context.Context, list *List) error
}
