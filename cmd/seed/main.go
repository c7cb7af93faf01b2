package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/pflag"

	"github.com/JaimeStill/docman/internal/config"
)

const EnvDatabaseDSN = "DATABASE_DSN"

func main() {
	var (
		dsn    = pflag.String("dsn", "", "Database connection string (defaults to config.toml)")
		all    = pflag.Bool("all", false, "Run all seeders")
		only   = pflag.StringSlice("only", nil, "Run the named seeders")
		file   = pflag.String("file", "", "External YAML seed file (overrides embedded)")
		dryRun = pflag.Bool("dry-run", false, "Roll back after seeding")
		list   = pflag.Bool("list", false, "List available seeders")
	)
	pflag.Parse()

	if *list {
		fmt.Println("Available seeders:")
		for _, s := range seeders {
			fmt.Printf("  - %s: %s\n", s.Name(), s.Description())
		}
		return
	}

	selected, err := selectSeeders(*all, *only)
	if err != nil {
		log.Fatal(err)
	}
	if len(selected) == 0 {
		fmt.Println("usage: seed [--all|--only users,groups] [--file <path>] [--dry-run] [--list]")
		pflag.PrintDefaults()
		return
	}

	data, err := loadSeedData(*file)
	if err != nil {
		log.Fatalf("load seed data: %v", err)
	}

	if *dsn == "" {
		*dsn = os.Getenv(EnvDatabaseDSN)
	}
	if *dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		*dsn = cfg.Database.Dsn()
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := runSeeders(ctx, db, selected, data, *dryRun); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	if *dryRun {
		fmt.Println("dry run completed, changes rolled back")
		return
	}
	fmt.Println("seeding completed successfully")
}

func selectSeeders(all bool, only []string) ([]Seeder, error) {
	if all {
		return seeders, nil
	}

	selected := make([]Seeder, 0, len(only))
	for _, name := range only {
		s, ok := getSeeder(name)
		if !ok {
			return nil, fmt.Errorf("seeder not found: %s", name)
		}
		selected = append(selected, s)
	}
	return selected, nil
}
