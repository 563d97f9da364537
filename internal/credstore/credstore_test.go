package credstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Get(ctx, TokenKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store = %v, want ErrNotFound", err)
	}

	if err := s.Set(ctx, TokenKey, "tok-1"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := s.Get(ctx, TokenKey)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "tok-1" {
		t.Errorf("Get() = %q, want %q", got, "tok-1")
	}

	if err := s.Remove(ctx, TokenKey); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := s.Get(ctx, TokenKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Remove = %v, want ErrNotFound", err)
	}
}

func TestFileStoreRemoveMissingKey(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(context.Background(), TokenKey); err != nil {
		t.Errorf("Remove on missing key = %v, want nil", err)
	}
}

func TestFileStoreTrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	// Hand-edited token files often end with a newline.
	if err := os.WriteFile(filepath.Join(dir, TokenKey), []byte("tok-2\n"), 0600); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(context.Background(), TokenKey)
	if err != nil {
		t.Fatal(err)
	}
	if got != "tok-2" {
		t.Errorf("Get() = %q, want %q", got, "tok-2")
	}
}

func TestFileStorePermissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(context.Background(), TokenKey, "tok"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(dir, TokenKey))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file mode = %o, want 0600", perm)
	}
}

func TestMemStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	if _, err := s.Get(ctx, TokenKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store = %v, want ErrNotFound", err)
	}
	if err := s.Set(ctx, TokenKey, "abc"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, TokenKey)
	if err != nil || got != "abc" {
		t.Errorf("Get() = (%q, %v), want (abc, nil)", got, err)
	}
	if err := s.Remove(ctx, TokenKey); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, TokenKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Remove = %v, want ErrNotFound", err)
	}
}
