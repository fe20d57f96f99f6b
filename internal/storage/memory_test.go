package storage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/merchant-ops/internal/common"
	"github.com/Veraticus/merchant-ops/internal/model"
)

func testMerchant(id, name string) model.Merchant {
	return model.Merchant{
		ID:              id,
		Name:            name,
		Country:         "US",
		Status:          model.StatusActive,
		RiskLevel:       model.RiskLow,
		MonthlyVolume:   1000,
		ChargebackRatio: 0.5,
		MonthlyData:     []model.MonthlyData{{Month: "Jan", Volume: 1000, SuccessRate: 97, Transactions: 10}},
	}
}

func createTestRepository(t *testing.T, merchants ...model.Merchant) *MemoryRepository {
	t.Helper()
	repo, err := NewMemoryRepository(merchants)
	require.NoError(t, err)
	return repo
}

func TestNewMemoryRepository_RejectsDuplicateSeed(t *testing.T) {
	_, err := NewMemoryRepository([]model.Merchant{
		testMerchant("m1", "One"),
		testMerchant("m1", "Other"),
	})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestMemoryRepository_Add(t *testing.T) {
	tests := []struct {
		name     string
		merchant model.Merchant
		wantErr  error
		wantLen  int
	}{
		{name: "new merchant", merchant: testMerchant("m3", "Three"), wantLen: 3},
		{name: "duplicate id", merchant: testMerchant("m1", "Dup"), wantErr: common.ErrDuplicateEntry, wantLen: 2},
		{
			name: "empty id",
			merchant: func() model.Merchant {
				m := testMerchant("", "NoID")
				return m
			}(),
			wantErr: ErrInvalidMerchant,
			wantLen: 2,
		},
		{
			name: "ratio out of range",
			merchant: func() model.Merchant {
				m := testMerchant("m4", "Bad")
				m.ChargebackRatio = 101
				return m
			}(),
			wantErr: common.ErrValidation,
			wantLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := createTestRepository(t, testMerchant("m1", "One"), testMerchant("m2", "Two"))
			err := repo.Add(tt.merchant)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantLen, repo.Len())
		})
	}
}

func TestMemoryRepository_ListPreservesInsertionOrder(t *testing.T) {
	repo := createTestRepository(t, testMerchant("b", "B"), testMerchant("a", "A"))
	require.NoError(t, repo.Add(testMerchant("c", "C")))

	ids := make([]string, 0, 3)
	for _, m := range repo.List() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestMemoryRepository_ListReturnsCopies(t *testing.T) {
	repo := createTestRepository(t, testMerchant("m1", "One"))

	list := repo.List()
	list[0].Name = "Mutated"
	list[0].MonthlyData[0].Volume = 0

	got, err := repo.GetByID("m1")
	require.NoError(t, err)
	assert.Equal(t, "One", got.Name)
	assert.InDelta(t, 1000.0, got.MonthlyData[0].Volume, 0.001)
}

func TestMemoryRepository_Update(t *testing.T) {
	repo := createTestRepository(t, testMerchant("m1", "One"))

	status := model.StatusPaused
	risk := model.RiskHigh
	require.NoError(t, repo.Update("m1", model.MerchantPatch{Status: &status, RiskLevel: &risk}))

	got, err := repo.GetByID("m1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaused, got.Status)
	assert.Equal(t, model.RiskHigh, got.RiskLevel)
	assert.Equal(t, "One", got.Name)
}

func TestMemoryRepository_UpdateMissing(t *testing.T) {
	repo := createTestRepository(t, testMerchant("m1", "One"))
	before := repo.List()

	name := "Ghost"
	err := repo.Update("missing", model.MerchantPatch{Name: &name})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, before, repo.List())
}

func TestMemoryRepository_UpdateRejectedLeavesRecord(t *testing.T) {
	repo := createTestRepository(t, testMerchant("m1", "One"))

	ratio := 150.0
	name := "Changed"
	err := repo.Update("m1", model.MerchantPatch{Name: &name, ChargebackRatio: &ratio})
	assert.ErrorIs(t, err, ErrInvalidMerchant)

	got, err := repo.GetByID("m1")
	require.NoError(t, err)
	assert.Equal(t, "One", got.Name)
}

func TestMemoryRepository_Delete(t *testing.T) {
	repo := createTestRepository(t, testMerchant("m1", "One"), testMerchant("m2", "Two"))

	assert.True(t, repo.Delete("m1"))
	assert.False(t, repo.Delete("m1"))
	assert.Equal(t, 1, repo.Len())

	_, err := repo.GetByID("m1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryRepository_Subscribe(t *testing.T) {
	repo := createTestRepository(t, testMerchant("m1", "One"))

	calls := 0
	unsubscribe := repo.Subscribe(func() {
		calls++
		// Subscribers may read the repository.
		_ = repo.List()
	})

	require.NoError(t, repo.Add(testMerchant("m2", "Two")))
	risk := model.RiskMedium
	require.NoError(t, repo.Update("m2", model.MerchantPatch{RiskLevel: &risk}))
	repo.Delete("m2")
	assert.Equal(t, 3, calls)

	// Failed mutations do not notify.
	_ = repo.Add(testMerchant("m1", "Dup"))
	assert.Equal(t, 3, calls)

	unsubscribe()
	require.NoError(t, repo.Add(testMerchant("m3", "Three")))
	assert.Equal(t, 3, calls)
}

func TestMemoryRepository_ConcurrentAccess(t *testing.T) {
	repo := createTestRepository(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = repo.Add(testMerchant(id, "Concurrent"))
			_ = repo.List()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, repo.Len())
}
