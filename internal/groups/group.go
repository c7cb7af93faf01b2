// Package groups manages named sets of users. Group membership is
// independent of resource permissions; grants to a group are copied to its
// members when they are made.
package groups

import (
	"time"

	"github.com/google/uuid"
)

type Group struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CanCreate   bool      `json:"can_create"`
	CanRead     bool      `json:"can_read"`
	CanUpdate   bool      `json:"can_update"`
	CanDelete   bool      `json:"can_delete"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Member is a user in a group.
type Member struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	AddedAt  time.Time `json:"added_at"`
}

type CreateCommand struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CanCreate   bool   `json:"can_create"`
	CanRead     bool   `json:"can_read"`
	CanUpdate   bool   `json:"can_update"`
	CanDelete   bool   `json:"can_delete"`
	IsAdmin     bool   `json:"is_admin"`
}

type UpdateCommand CreateCommand
