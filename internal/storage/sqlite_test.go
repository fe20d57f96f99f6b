package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/service"
)

func createTestSnapshot(t *testing.T) (*SQLiteSnapshot, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "snapshot.db")

	snap, err := NewSQLiteSnapshot(dbPath)
	require.NoError(t, err)

	if err := snap.Migrate(context.Background()); err != nil {
		_ = snap.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return snap, func() { _ = snap.Close() }
}

func countRows(t *testing.T, s *SQLiteSnapshot, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestNewSQLiteSnapshot_EmptyPath(t *testing.T) {
	_, err := NewSQLiteSnapshot("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSQLiteSnapshot_MigrateIsIdempotent(t *testing.T) {
	snap, cleanup := createTestSnapshot(t)
	defer cleanup()

	require.NoError(t, snap.Migrate(context.Background()))

	version, err := snap.schemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSQLiteSnapshot_WriteMerchants(t *testing.T) {
	snap, cleanup := createTestSnapshot(t)
	defer cleanup()
	ctx := context.Background()

	merchants := []model.Merchant{testMerchant("m1", "One"), testMerchant("m2", "Two")}
	summary := service.ReportSummary{GeneratedAt: time.Now(), TotalVolume: 2000, ActiveMerchants: 2}

	var calls [][2]int
	err := snap.WriteMerchants(ctx, merchants, summary, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	require.NoError(t, err)

	assert.Equal(t, 2, countRows(t, snap, "merchants"))
	assert.Equal(t, 2, countRows(t, snap, "merchant_monthly_data"))
	assert.Equal(t, 1, countRows(t, snap, "export_runs"))
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, calls)

	var name string
	var position int
	require.NoError(t, snap.db.QueryRow(`SELECT name, position FROM merchants WHERE id = 'm2'`).Scan(&name, &position))
	assert.Equal(t, "Two", name)
	assert.Equal(t, 1, position)
}

func TestSQLiteSnapshot_WriteReplacesPreviousContents(t *testing.T) {
	snap, cleanup := createTestSnapshot(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, snap.WriteMerchants(ctx, []model.Merchant{testMerchant("m1", "One"), testMerchant("m2", "Two")}, service.ReportSummary{}, nil))
	require.NoError(t, snap.WriteMerchants(ctx, []model.Merchant{testMerchant("m3", "Three")}, service.ReportSummary{}, nil))

	assert.Equal(t, 1, countRows(t, snap, "merchants"))
	assert.Equal(t, 2, countRows(t, snap, "export_runs"))
}

func TestSQLiteSnapshot_InvalidMerchantRollsBack(t *testing.T) {
	snap, cleanup := createTestSnapshot(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, snap.WriteMerchants(ctx, []model.Merchant{testMerchant("m1", "One")}, service.ReportSummary{}, nil))

	bad := testMerchant("m2", "Bad")
	bad.Status = "unknown"
	err := snap.WriteMerchants(ctx, []model.Merchant{testMerchant("m3", "Three"), bad}, service.ReportSummary{}, nil)
	assert.ErrorIs(t, err, ErrInvalidMerchant)

	var id string
	require.NoError(t, snap.db.QueryRow(`SELECT id FROM merchants`).Scan(&id))
	assert.Equal(t, "m1", id)
}
