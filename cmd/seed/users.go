package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/docman/internal/users"
)

// UserSeed is one account in the seed document.
type UserSeed struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
}

// UserSeeder inserts accounts, updating email and role of existing usernames.
type UserSeeder struct{}

func (s *UserSeeder) Name() string { return "users" }

func (s *UserSeeder) Description() string {
	return "Seeds user accounts and their system-wide role"
}

func (s *UserSeeder) Seed(ctx context.Context, tx *sql.Tx, data *SeedData) error {
	const query = `
		INSERT INTO users (id, username, email, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE SET
			email = EXCLUDED.email,
			role = EXCLUDED.role`

	for _, u := range data.Users {
		cmd := users.CreateCommand{
			Username: u.Username,
			Email:    u.Email,
			Role:     users.Role(u.Role),
		}
		if err := cmd.Validate(); err != nil {
			return fmt.Errorf("user %q: %w", u.Username, err)
		}

		if _, err := tx.ExecContext(ctx, query, uuid.New(), cmd.Username, cmd.Email, cmd.Role.String()); err != nil {
			return fmt.Errorf("save user %s: %w", cmd.Username, err)
		}
	}
	return nil
}
