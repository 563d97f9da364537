// Package credstore persists opaque credential strings across runs.
package credstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenKey is the key the session token is stored under.
const TokenKey = "token"

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("credstore: not found")

// Store is a scoped key-value capability for credential strings.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// FileStore keeps one file per key under a private directory,
// ~/.maquis by default.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. An empty dir resolves to
// ~/.maquis.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("credstore: get home dir: %w", err)
		}
		dir = filepath.Join(home, ".maquis")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("credstore: read %s: %w", key, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("credstore: create %s: %w", s.dir, err)
	}
	if err := os.WriteFile(s.path(key), []byte(value), 0600); err != nil {
		return fmt.Errorf("credstore: write %s: %w", key, err)
	}
	return nil
}

// Remove deletes the stored value. Removing a missing key is not an error.
func (s *FileStore) Remove(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("credstore: remove %s: %w", key, err)
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (s *MemStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
