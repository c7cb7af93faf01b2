package database_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/docman/pkg/database"
)

func TestConfig_Finalize_Defaults(t *testing.T) {
	cfg := &database.Config{Name: "docman", User: "docman"}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want %q", cfg.Host, "localhost")
	}
	if cfg.Port != 5432 {
		t.Errorf("Port = %d, want %d", cfg.Port, 5432)
	}
	if cfg.MaxOpenConns != 25 {
		t.Errorf("MaxOpenConns = %d, want %d", cfg.MaxOpenConns, 25)
	}
	if cfg.ConnMaxLifetime != "15m" {
		t.Errorf("ConnMaxLifetime = %q, want %q", cfg.ConnMaxLifetime, "15m")
	}
	if cfg.SSLMode != "disable" {
		t.Errorf("SSLMode = %q, want %q", cfg.SSLMode, "disable")
	}
}

func TestConfig_Finalize_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "envhost")
	t.Setenv("TEST_DB_PORT", "5434")
	t.Setenv("TEST_DB_NAME", "envdb")
	t.Setenv("TEST_DB_USER", "envuser")
	t.Setenv("TEST_DB_SSL", "require")

	cfg := &database.Config{}
	env := &database.Env{
		Host:    "TEST_DB_HOST",
		Port:    "TEST_DB_PORT",
		Name:    "TEST_DB_NAME",
		User:    "TEST_DB_USER",
		SSLMode: "TEST_DB_SSL",
	}

	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Host != "envhost" {
		t.Errorf("Host = %q, want %q", cfg.Host, "envhost")
	}
	if cfg.Port != 5434 {
		t.Errorf("Port = %d, want %d", cfg.Port, 5434)
	}
	if cfg.SSLMode != "require" {
		t.Errorf("SSLMode = %q, want %q", cfg.SSLMode, "require")
	}
}

func TestConfig_Finalize_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{"missing name", database.Config{User: "u"}, "name required"},
		{"missing user", database.Config{Name: "n"}, "user required"},
		{"bad lifetime", database.Config{Name: "n", User: "u", ConnMaxLifetime: "soon"}, "invalid conn_max_lifetime"},
		{"bad timeout", database.Config{Name: "n", User: "u", ConnTimeout: "later"}, "invalid conn_timeout"},
		{"bad ssl mode", database.Config{Name: "n", User: "u", SSLMode: "maybe"}, "invalid ssl_mode"},
		{"bad port", database.Config{Name: "n", User: "u", Port: 70000}, "invalid port"},
		{"idle above open", database.Config{Name: "n", User: "u", MaxOpenConns: 2, MaxIdleConns: 4}, "exceeds max_open_conns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Finalize() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := &database.Config{Host: "base", Port: 5432, Name: "base"}
	cfg.Merge(&database.Config{Host: "overlay", SSLMode: "require"})

	if cfg.Host != "overlay" {
		t.Errorf("Host = %q, want %q", cfg.Host, "overlay")
	}
	if cfg.Name != "base" {
		t.Errorf("Name = %q, want %q", cfg.Name, "base")
	}
	if cfg.SSLMode != "require" {
		t.Errorf("SSLMode = %q, want %q", cfg.SSLMode, "require")
	}
}

func TestConfig_Dsn(t *testing.T) {
	cfg := &database.Config{
		Host: "db", Port: 5433, Name: "docman", User: "app", Password: "pw", SSLMode: "disable",
	}

	want := "host=db port=5433 dbname=docman user=app password=pw sslmode=disable"
	if got := cfg.Dsn(); got != want {
		t.Errorf("Dsn() = %q, want %q", got, want)
	}
}

func TestConfig_Dsn_Quoting(t *testing.T) {
	cfg := &database.Config{
		Host: "db", Port: 5432, Name: "docman", User: "app", Password: `it's a\pw`, SSLMode: "disable",
	}

	want := `host=db port=5432 dbname=docman user=app password='it\'s a\\pw' sslmode=disable`
	if got := cfg.Dsn(); got != want {
		t.Errorf("Dsn() = %q, want %q", got, want)
	}

	cfg.Password = ""
	if got := cfg.Dsn(); !strings.Contains(got, "password='' ") {
		t.Errorf("Dsn() = %q, want empty password quoted", got)
	}
}

func TestErrNotReady(t *testing.T) {
	if database.ErrNotReady.Error() != "database not ready" {
		t.Errorf("ErrNotReady.Error() = %q, want %q", database.ErrNotReady.Error(), "database not ready")
	}
}
