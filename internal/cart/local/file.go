package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend persists cart records as one JSON file per key under a
// directory. Used by single-node deployments with no Redis.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file-backed storage rooted at dir.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cart store directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(key string) string {
	name := strings.ReplaceAll(key, ":", "_")
	return filepath.Join(b.dir, name+".json")
}

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("read cart file: %w", err)
	}
	return data, nil
}

func (b *FileBackend) Set(_ context.Context, key string, data []byte) error {
	if err := os.WriteFile(b.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write cart file: %w", err)
	}
	return nil
}

func (b *FileBackend) Delete(_ context.Context, key string) error {
	if err := os.Remove(b.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete cart file: %w", err)
	}
	return nil
}

// Exists reports whether a record is present for the key. Exposed for
// tests that assert Clear deletes the record rather than writing "[]".
func (b *FileBackend) Exists(key string) bool {
	_, err := os.Stat(b.path(key))
	return err == nil
}
