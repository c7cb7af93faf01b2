package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/docman/pkg/storage"
)

func newStorage(t *testing.T) (storage.System, string) {
	t.Helper()
	dir := t.TempDir()

	sys, err := storage.New(&storage.Config{BasePath: dir}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return sys, dir
}

func TestNew_EmptyBasePath(t *testing.T) {
	if _, err := storage.New(&storage.Config{}, slog.Default()); err == nil {
		t.Fatal("New() succeeded with empty BasePath, want error")
	}
}

func TestStore_Retrieve_RoundTrip(t *testing.T) {
	sys, dir := newStorage(t)
	ctx := context.Background()
	key := "documents/abc/report.pdf"

	if err := sys.Store(ctx, key, []byte("%PDF-1.7")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "documents", "abc", "report.pdf")); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	got, err := sys.Retrieve(ctx, key)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if string(got) != "%PDF-1.7" {
		t.Errorf("Retrieve() = %q, want %q", got, "%PDF-1.7")
	}
}

func TestRetrieve_NotFound(t *testing.T) {
	sys, _ := newStorage(t)

	_, err := sys.Retrieve(context.Background(), "documents/missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Retrieve() error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestCopy(t *testing.T) {
	sys, _ := newStorage(t)
	ctx := context.Background()

	if err := sys.Store(ctx, "documents/a/f.txt", []byte("hello")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := sys.Copy(ctx, "documents/a/f.txt", "documents/b/f.txt"); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	got, err := sys.Retrieve(ctx, "documents/b/f.txt")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("Retrieve() = %q, want %q", got, "hello")
	}

	if err := sys.Copy(ctx, "documents/none", "documents/c"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Copy() missing source error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestDelete(t *testing.T) {
	sys, dir := newStorage(t)
	ctx := context.Background()

	if err := sys.Store(ctx, "documents/x/f.txt", []byte("data")); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := sys.Delete(ctx, "documents/x/f.txt"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if ok, _ := sys.Validate(ctx, "documents/x/f.txt"); ok {
		t.Error("Validate() = true after delete")
	}
	if _, err := os.Stat(filepath.Join(dir, "documents", "x")); !os.IsNotExist(err) {
		t.Error("empty parent directory should be removed")
	}

	if err := sys.Delete(ctx, "documents/never"); err != nil {
		t.Errorf("Delete() of missing key error = %v, want nil", err)
	}
}

func TestInvalidKeys(t *testing.T) {
	sys, _ := newStorage(t)
	ctx := context.Background()

	keys := []string{"", "../escape", "/etc/passwd", "documents/../../escape"}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			if err := sys.Store(ctx, key, []byte("x")); !errors.Is(err, storage.ErrInvalidKey) {
				t.Errorf("Store(%q) error = %v, want %v", key, err, storage.ErrInvalidKey)
			}
			if _, err := sys.Retrieve(ctx, key); !errors.Is(err, storage.ErrInvalidKey) {
				t.Errorf("Retrieve(%q) error = %v, want %v", key, err, storage.ErrInvalidKey)
			}
		})
	}
}

func TestConfig_Finalize(t *testing.T) {
	cfg := &storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.BasePath != ".data/blobs" {
		t.Errorf("BasePath = %q, want %q", cfg.BasePath, ".data/blobs")
	}
	if cfg.MaxUploadSizeBytes() != 100*1000*1000 {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", cfg.MaxUploadSizeBytes(), 100*1000*1000)
	}

	bad := &storage.Config{MaxUploadSize: "lots"}
	if err := bad.Finalize(nil); err == nil {
		t.Error("Finalize() should reject unparseable max_upload_size")
	}
}
