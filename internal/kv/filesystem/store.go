package filesystem

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/artpar/gallery/internal/kv"
)

const valueExt = ".val"

// Store implements kv.Store with one file per key under a directory.
type Store struct {
	mu       sync.RWMutex
	basePath string
	closed   bool
}

// New creates a filesystem-based store rooted at basePath.
func New(basePath string) (*Store, error) {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create kv directory: %w", err)
	}

	return &Store{basePath: basePath}, nil
}

// Path returns the directory the store writes to.
func (s *Store) Path() string {
	return s.basePath
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", kv.ErrStoreClosed
	}
	if key == "" {
		return "", kv.ErrInvalidKey
	}

	content, err := os.ReadFile(s.keyPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", kv.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key %q: %w", key, err)
	}

	return string(content), nil
}

// Set writes value under key. The file is replaced atomically so a reader
// never sees a partial value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return kv.ErrStoreClosed
	}
	if key == "" {
		return kv.ErrInvalidKey
	}

	tmp, err := os.CreateTemp(s.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	if err := os.Rename(tmpPath, s.keyPath(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return kv.ErrStoreClosed
	}
	if key == "" {
		return nil
	}

	err := os.Remove(s.keyPath(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}

	return nil
}

// Keys returns all stored keys in ascending order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, kv.ErrStoreClosed
	}

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read kv directory: %w", err)
	}

	keys := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, valueExt) {
			continue
		}
		key, err := decodeKey(strings.TrimSuffix(name, valueExt))
		if err != nil {
			continue // Skip foreign files
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)

	return keys, nil
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// keyPath maps a key to a file name that cannot escape basePath.
func (s *Store) keyPath(key string) string {
	return filepath.Join(s.basePath, base64.RawURLEncoding.EncodeToString([]byte(key))+valueExt)
}

func decodeKey(name string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
