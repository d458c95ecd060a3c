package testutil

import (
	"path/filepath"
	"testing"

	"github.com/nhle/obra-tracker/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestFileStore creates a FileStore backed by a file in t.TempDir().
func NewTestFileStore(t *testing.T) *store.FileStore {
	t.Helper()

	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "overrides.json"))
	if err != nil {
		t.Fatalf("creating test file store: %v", err)
	}
	return s
}
