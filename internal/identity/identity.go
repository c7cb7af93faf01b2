// Package identity verifies bearer tokens and carries the caller's
// user ID and role through the request context. Tokens are issued
// elsewhere; this package only validates them.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/users"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidToken    = errors.New("invalid bearer token")
	ErrAdminRequired   = errors.New("admin role required")
)

// Identity is the authenticated caller.
type Identity struct {
	UserID uuid.UUID  `json:"user_id"`
	Role   users.Role `json:"role"`
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Require returns the identity in ctx or ErrUnauthenticated.
func Require(ctx context.Context) (Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return Identity{}, ErrUnauthenticated
	}
	return id, nil
}
