// Package testutil provides shared fixtures for merchops tests: seeded
// repositories, migrated snapshot databases and a fluent merchant builder.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/seed"
	"github.com/Veraticus/merchant-ops/internal/storage"
)

// SetupRepository returns an in-memory repository holding merchants, or the
// built-in seed when none are given.
func SetupRepository(t *testing.T, merchants ...model.Merchant) *storage.MemoryRepository {
	t.Helper()

	if len(merchants) == 0 {
		merchants = seed.Default()
	}
	repo, err := storage.NewMemoryRepository(merchants)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	return repo
}

// SetupSnapshot creates a migrated snapshot database in a temp directory and
// closes it when the test ends.
func SetupSnapshot(t *testing.T) *storage.SQLiteSnapshot {
	t.Helper()

	snap, err := storage.NewSQLiteSnapshot(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("failed to create snapshot database: %v", err)
	}
	if err := snap.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := snap.Close(); err != nil {
			t.Errorf("failed to close snapshot database: %v", err)
		}
	})
	return snap
}
