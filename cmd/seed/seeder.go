// Package main provides the seed command for populating the database with
// accounts and groups. Seeders run in registration order inside a single
// transaction.
package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seeds/*.yaml
var seedFiles embed.FS

const defaultSeedFile = "seeds/dev.yaml"

// Seeder populates one domain's data from the shared seed document.
type Seeder interface {
	Name() string
	Description() string

	// Seed writes data within tx. Implementations must be idempotent.
	Seed(ctx context.Context, tx *sql.Tx, data *SeedData) error
}

// SeedData is the YAML seed document.
type SeedData struct {
	Users  []UserSeed  `yaml:"users"`
	Groups []GroupSeed `yaml:"groups"`
}

// seeders run in this order; groups reference users by username.
var seeders = []Seeder{
	&UserSeeder{},
	&GroupSeeder{},
}

func getSeeder(name string) (Seeder, bool) {
	for _, s := range seeders {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// loadSeedData reads path, or the embedded default when path is empty.
func loadSeedData(path string) (*SeedData, error) {
	var (
		content []byte
		err     error
	)

	if path != "" {
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	} else {
		content, err = seedFiles.ReadFile(defaultSeedFile)
		if err != nil {
			return nil, fmt.Errorf("read embedded seed file: %w", err)
		}
	}

	var data SeedData
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &data, nil
}

// runSeeders executes the selected seeders within one transaction. With
// dryRun set the transaction is rolled back after every seeder succeeds.
func runSeeders(ctx context.Context, db *sql.DB, selected []Seeder, data *SeedData, dryRun bool) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, s := range selected {
		if err := s.Seed(ctx, tx, data); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}

	if dryRun {
		return tx.Rollback()
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
