// Command migrate applies or reverts the embedded database schema.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/JaimeStill/docman/internal/config"
	"github.com/JaimeStill/docman/internal/migrations"
	"github.com/JaimeStill/docman/pkg/database"
	"github.com/JaimeStill/docman/pkg/logging"
)

func main() {
	var (
		up      = pflag.Bool("up", false, "Apply all pending migrations")
		down    = pflag.Bool("down", false, "Revert all applied migrations")
		steps   = pflag.Int("steps", 0, "Apply n migrations forward, or -n backward")
		version = pflag.Bool("version", false, "Print the current schema version")
	)
	pflag.Parse()

	if err := run(*up, *down, *steps, *version); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(up, down bool, steps int, version bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(&cfg.Logging).With("service", "docman-migrate")

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return err
	}

	m, err := database.NewMigrator(db.Connection(), migrations.FS, migrations.Dir, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	switch {
	case up:
		return m.Up()
	case down:
		return m.Down()
	case steps != 0:
		return m.Steps(steps)
	case version:
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", v, dirty)
		return nil
	default:
		fmt.Println("usage: migrate [--up|--down|--steps n|--version]")
		pflag.PrintDefaults()
		return nil
	}
}
