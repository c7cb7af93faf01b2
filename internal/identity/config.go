package identity

import (
	"fmt"
	"os"
	"time"
)

// Env maps environment variable names for identity configuration.
type Env struct {
	Secret   string
	Issuer   string
	Audience string
	Leeway   string
}

// Config holds bearer token verification settings.
type Config struct {
	Secret   string `toml:"secret"`
	Issuer   string `toml:"issuer"`
	Audience string `toml:"audience"`
	Leeway   string `toml:"leeway"`
}

// LeewayDuration parses the allowed clock skew.
func (c *Config) LeewayDuration() time.Duration {
	d, _ := time.ParseDuration(c.Leeway)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	if c.Leeway == "" {
		c.Leeway = "30s"
	}
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.Audience != "" {
		c.Audience = overlay.Audience
	}
	if overlay.Leeway != "" {
		c.Leeway = overlay.Leeway
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.Secret); env.Secret != "" && v != "" {
		c.Secret = v
	}
	if v := os.Getenv(env.Issuer); env.Issuer != "" && v != "" {
		c.Issuer = v
	}
	if v := os.Getenv(env.Audience); env.Audience != "" && v != "" {
		c.Audience = v
	}
	if v := os.Getenv(env.Leeway); env.Leeway != "" && v != "" {
		c.Leeway = v
	}
}

func (c *Config) validate() error {
	if len(c.Secret) < 32 {
		return fmt.Errorf("secret must be at least 32 bytes")
	}
	if _, err := time.ParseDuration(c.Leeway); err != nil {
		return fmt.Errorf("invalid leeway: %w", err)
	}
	return nil
}
