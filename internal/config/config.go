// Package config provides application configuration management with support for
// TOML files, .env files, environment variable overrides, and configuration overlays.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/docman/internal/identity"
	"github.com/JaimeStill/docman/pkg/database"
	"github.com/JaimeStill/docman/pkg/logging"
	"github.com/JaimeStill/docman/pkg/middleware"
	"github.com/JaimeStill/docman/pkg/pagination"
	"github.com/JaimeStill/docman/pkg/repository"
	"github.com/JaimeStill/docman/pkg/storage"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "config.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	// DotEnvFile is loaded into the process environment before any override is read.
	DotEnvFile = ".env"

	// EnvServiceEnv selects the configuration overlay.
	EnvServiceEnv = "DOCMAN_ENV"

	// EnvServiceVersion overrides the reported service version.
	EnvServiceVersion = "DOCMAN_VERSION"
)

// Config represents the root service configuration.
type Config struct {
	Version    string                 `toml:"version"`
	Server     ServerConfig           `toml:"server"`
	Database   database.Config        `toml:"database"`
	Logging    logging.Config         `toml:"logging"`
	Storage    storage.Config         `toml:"storage"`
	Pagination pagination.Config      `toml:"pagination"`
	CORS       middleware.CORSConfig  `toml:"cors"`
	Identity   identity.Config        `toml:"identity"`
	Access     repository.RetryConfig `toml:"access"`
}

// Load reads .env, the base configuration file and any environment-specific
// overlay, then finalizes the result.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg, err := load(BaseConfigFile)
	if err != nil {
		return nil, err
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.Server.Finalize(serverEnv); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Identity.Finalize(identityEnv); err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if err := c.Access.Finalize(accessEnv); err != nil {
		return fmt.Errorf("access: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Logging.Merge(&overlay.Logging)
	c.Storage.Merge(&overlay.Storage)
	c.Pagination.Merge(&overlay.Pagination)
	c.CORS.Merge(&overlay.CORS)
	c.Identity.Merge(&overlay.Identity)
	c.Access.Merge(&overlay.Access)
}

// ShutdownTimeoutDuration is the bound on graceful shutdown.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return c.Server.ShutdownTimeoutDuration()
}

func (c *Config) loadDefaults() {
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvServiceVersion); v != "" {
		c.Version = v
	}
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvServiceEnv); env != "" {
		overlayPath := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(overlayPath); err == nil {
			return overlayPath
		}
	}
	return ""
}
