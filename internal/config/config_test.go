package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/docman/internal/config"
	"github.com/JaimeStill/docman/pkg/logging"
)

const secret = "0123456789abcdef0123456789abcdef"

const baseConfig = `
[server]
port = 9000

[database]
name = "docman"
user = "docman"

[logging]
level = "warn"

[identity]
issuer = "docman"
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)
	t.Setenv("DOCMAN_JWT_SECRET", secret)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:9000" {
		t.Errorf("Addr() = %q, want %q", cfg.Server.Addr(), "0.0.0.0:9000")
	}
	if cfg.Server.BasePath != "/api" {
		t.Errorf("BasePath = %q, want %q", cfg.Server.BasePath, "/api")
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("ShutdownTimeoutDuration() = %v, want 30s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Logging.Level != logging.LevelWarn {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, logging.LevelWarn)
	}
	if cfg.Access.MaxAttempts != 3 {
		t.Errorf("Access.MaxAttempts = %d, want 3", cfg.Access.MaxAttempts)
	}
	if cfg.Storage.MaxUploadSizeBytes() <= 0 {
		t.Errorf("MaxUploadSizeBytes() = %d, want positive", cfg.Storage.MaxUploadSizeBytes())
	}
	if cfg.Identity.Secret != secret {
		t.Error("identity secret not loaded from environment")
	}
}

func TestLoad_DotEnvAndOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.BaseConfigFile, baseConfig)
	writeFile(t, dir, "config.staging.toml", "[server]\nport = 9443\n\n[access]\nmax_attempts = 5\n")
	writeFile(t, dir, config.DotEnvFile, "DOCMAN_JWT_SECRET="+secret+"\nDOCMAN_DB_HOST=db.internal\n")
	t.Chdir(dir)
	t.Setenv(config.EnvServiceEnv, "staging")

	// Variables loaded from .env must not leak into later tests.
	t.Cleanup(func() {
		os.Unsetenv("DOCMAN_JWT_SECRET")
		os.Unsetenv("DOCMAN_DB_HOST")
	})

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9443 {
		t.Errorf("Server.Port = %d, want 9443", cfg.Server.Port)
	}
	if cfg.Access.MaxAttempts != 5 {
		t.Errorf("Access.MaxAttempts = %d, want 5", cfg.Access.MaxAttempts)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "db.internal")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.BaseConfigFile, baseConfig)
	t.Chdir(dir)
	t.Setenv("DOCMAN_JWT_SECRET", secret)
	t.Setenv("DOCMAN_SERVER_PORT", "7000")
	t.Setenv("DOCMAN_ACCESS_BACKOFF", "50ms")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Access.BackoffDuration() != 50*time.Millisecond {
		t.Errorf("Access.BackoffDuration() = %v, want 50ms", cfg.Access.BackoffDuration())
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		config string
		secret string
	}{
		{"missing secret", baseConfig, ""},
		{"nested base path", "[server]\nbase_path = \"/api/v1\"\n[database]\nname = \"d\"\nuser = \"u\"\n", secret},
		{"bad port", "[server]\nport = 70000\n[database]\nname = \"d\"\nuser = \"u\"\n", secret},
		{"missing database name", "[database]\nuser = \"u\"\n", secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, config.BaseConfigFile, tt.config)
			t.Chdir(dir)
			t.Setenv("DOCMAN_JWT_SECRET", tt.secret)

			if _, err := config.Load(); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := config.Load(); err == nil {
		t.Error("Load() error = nil, want error for missing config.toml")
	}
}
