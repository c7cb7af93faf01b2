package repository

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ErrRetriesExhausted wraps the last concurrency failure once every attempt is spent.
type ErrRetriesExhausted struct {
	Attempts int
	Err      error
}

func (e *ErrRetriesExhausted) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ErrRetriesExhausted) Unwrap() error {
	return e.Err
}

// RetryEnv maps environment variable names for retry configuration.
type RetryEnv struct {
	MaxAttempts string
	Backoff     string
}

// RetryConfig bounds optimistic-concurrency retries.
type RetryConfig struct {
	MaxAttempts int    `toml:"max_attempts"`
	Backoff     string `toml:"backoff"`
}

// BackoffDuration parses the delay between attempts.
func (c *RetryConfig) BackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.Backoff)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *RetryConfig) Finalize(env *RetryEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *RetryConfig) Merge(overlay *RetryConfig) {
	if overlay.MaxAttempts != 0 {
		c.MaxAttempts = overlay.MaxAttempts
	}
	if overlay.Backoff != "" {
		c.Backoff = overlay.Backoff
	}
}

func (c *RetryConfig) loadDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.Backoff == "" {
		c.Backoff = "10ms"
	}
}

func (c *RetryConfig) loadEnv(env *RetryEnv) {
	if env.MaxAttempts != "" {
		if v := os.Getenv(env.MaxAttempts); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxAttempts = n
			}
		}
	}
	if env.Backoff != "" {
		if v := os.Getenv(env.Backoff); v != "" {
			c.Backoff = v
		}
	}
}

func (c *RetryConfig) validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be positive")
	}
	if _, err := time.ParseDuration(c.Backoff); err != nil {
		return fmt.Errorf("invalid backoff: %w", err)
	}
	return nil
}

// WithRetry runs fn until it succeeds, fails with a non-concurrency error,
// or MaxAttempts is reached. Each attempt must start from fresh state;
// fn is expected to open its own transaction.
func WithRetry(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	attempts := max(cfg.MaxAttempts, 1)
	backoff := cfg.BackoffDuration()

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil || !IsConcurrency(err) {
			return err
		}

		if attempt == attempts {
			break
		}

		if backoff > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff * time.Duration(attempt)):
			}
		}
	}

	return &ErrRetriesExhausted{Attempts: attempts, Err: err}
}
