package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
)

const fileExtension = ".json"

// FileStore keeps one file per key in a directory. Writes go to a temp
// file that is renamed over the target.
type FileStore struct {
	dir    string
	closed atomic.Bool
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: dir is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("file store: create dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+fileExtension)
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	if s.closed.Load() {
		return "", ErrClosed
	}
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("file store: read: %w", err)
	}
	return string(data), nil
}

// Set implements Store.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	if s.closed.Load() {
		return ErrClosed
	}

	tmp, err := os.CreateTemp(s.dir, ".pagekeep-*.tmp")
	if err != nil {
		return fmt.Errorf("file store: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: close: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path(key)); err != nil {
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file store: remove: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *FileStore) Close() error {
	s.closed.Store(true)
	return nil
}
