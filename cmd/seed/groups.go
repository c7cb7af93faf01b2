package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// GroupSeed is one group and its members, referenced by username.
type GroupSeed struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	CanCreate   bool     `yaml:"can_create"`
	CanRead     bool     `yaml:"can_read"`
	CanUpdate   bool     `yaml:"can_update"`
	CanDelete   bool     `yaml:"can_delete"`
	IsAdmin     bool     `yaml:"is_admin"`
	Members     []string `yaml:"members"`
}

// GroupSeeder saves groups and adds their members. Existing memberships
// are left in place.
type GroupSeeder struct{}

func (s *GroupSeeder) Name() string { return "groups" }

func (s *GroupSeeder) Description() string {
	return "Seeds groups and group memberships"
}

func (s *GroupSeeder) Seed(ctx context.Context, tx *sql.Tx, data *SeedData) error {
	for _, g := range data.Groups {
		if g.Name == "" {
			return errors.New("group name required")
		}

		id, err := s.saveGroup(ctx, tx, g)
		if err != nil {
			return fmt.Errorf("save group %s: %w", g.Name, err)
		}

		for _, username := range g.Members {
			if err := s.addMember(ctx, tx, id, username); err != nil {
				return fmt.Errorf("add %s to %s: %w", username, g.Name, err)
			}
		}
	}
	return nil
}

func (s *GroupSeeder) saveGroup(ctx context.Context, tx *sql.Tx, g GroupSeed) (uuid.UUID, error) {
	const query = `
		INSERT INTO groups (id, name, description, can_create, can_read, can_update, can_delete, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description,
			can_create = EXCLUDED.can_create,
			can_read = EXCLUDED.can_read,
			can_update = EXCLUDED.can_update,
			can_delete = EXCLUDED.can_delete,
			is_admin = EXCLUDED.is_admin,
			updated_at = NOW()
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRowContext(ctx, query,
		uuid.New(), g.Name, g.Description,
		g.CanCreate, g.CanRead, g.CanUpdate, g.CanDelete, g.IsAdmin,
	).Scan(&id)
	return id, err
}

func (s *GroupSeeder) addMember(ctx context.Context, tx *sql.Tx, groupID uuid.UUID, username string) error {
	const query = `
		INSERT INTO group_members (group_id, user_id)
		SELECT $1, id FROM users WHERE username = $2
		ON CONFLICT (group_id, user_id) DO NOTHING`

	res, err := tx.ExecContext(ctx, query, groupID, username)
	if err != nil {
		return err
	}

	// Zero rows is either an unknown username or an existing membership.
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("unknown user %q", username)
		}
	}
	return nil
}
