// Package users manages user accounts and their system-wide role.
package users

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the system-wide role of a user. Admins bypass every
// per-resource permission check.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// ParseRole validates s as a Role. Matching is exact.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// IsAdmin reports whether the role carries the global override.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// User is an account known to the system.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommand holds the fields for a new user. Role defaults to RoleUser.
type CreateCommand struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Validate checks required fields and normalizes the role.
func (c *CreateCommand) Validate() error {
	if c.Username == "" {
		return ErrUsernameRequired
	}
	if c.Role == "" {
		c.Role = RoleUser
	}
	if _, err := ParseRole(string(c.Role)); err != nil {
		return err
	}
	return nil
}
