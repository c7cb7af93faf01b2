// Package storage provides blob storage for uploaded document content.
// Keys are slash-separated relative paths; the filesystem implementation
// maps them under a configured base directory.
package storage

import (
	"context"
	"errors"

	"github.com/JaimeStill/docman/pkg/lifecycle"
)

// Storage errors returned by System implementations.
var (
	// ErrNotFound indicates the requested key does not exist in storage.
	ErrNotFound = errors.New("storage: key not found")

	// ErrPermissionDenied indicates insufficient permissions to access the key.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates the key is empty or escapes the base path.
	ErrInvalidKey = errors.New("storage: invalid key")
)

// System stores and retrieves blobs by key.
type System interface {
	// Store writes data at key, replacing any existing content.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the data at key, or ErrNotFound.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Copy duplicates the blob at src to dst.
	Copy(ctx context.Context, src, dst string) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Validate reports whether key exists and is readable.
	Validate(ctx context.Context, key string) (bool, error)

	// Start registers lifecycle hooks with the coordinator.
	Start(lc *lifecycle.Coordinator) error
}
