package viewmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/merchant-ops/internal/common"
	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/storage"
)

var fixedNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func createTestRepo(t *testing.T) *storage.MemoryRepository {
	t.Helper()
	repo, err := storage.NewMemoryRepository([]model.Merchant{
		merchantFixture("low", "Calm Traders", model.StatusPaused, model.RiskLow, 1000, 1),
		merchantFixture("high", "Risky Business", model.StatusPaused, model.RiskHigh, 5000, 4),
		merchantFixture("warn", "Chargeback Central", model.StatusActive, model.RiskMedium, 7000, 3.0),
		merchantFixture("edge", "Borderline Co", model.StatusActive, model.RiskMedium, 7000, 2.0),
	})
	require.NoError(t, err)
	return repo
}

func openDetail(t *testing.T, repo *storage.MemoryRepository, mode DetailMode, id string) *DetailView {
	t.Helper()
	v, err := NewDetailView(repo, mode, id,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "merchant-test" }),
	)
	require.NoError(t, err)
	return v
}

func TestNewDetailView_NotFound(t *testing.T) {
	repo := createTestRepo(t)

	for _, mode := range []DetailMode{ModeView, ModeEdit} {
		v, err := NewDetailView(repo, mode, "missing")
		assert.ErrorIs(t, err, common.ErrNotFound)
		assert.Nil(t, v)
	}

	v, err := NewDetailView(repo, ModeCreate, "missing")
	require.NoError(t, err)
	assert.Equal(t, "Create Merchant", v.Title())
}

func TestDetailView_ViewModeSave(t *testing.T) {
	repo := createTestRepo(t)
	v := openDetail(t, repo, ModeView, "low")

	assert.False(t, v.CanSave(), "no changes yet")
	assert.Equal(t, "Save", v.SaveLabel())
	assert.Equal(t, "Calm Traders", v.Title())

	applied, err := v.RequestStatus(model.StatusActive)
	require.NoError(t, err)
	assert.True(t, applied)
	require.NoError(t, v.SetRisk(model.RiskMedium))
	assert.True(t, v.CanSave())

	saved, err := v.Save()
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, saved.Status)
	assert.Equal(t, model.RiskMedium, saved.RiskLevel)

	stored, err := repo.GetByID("low")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, stored.Status)
	assert.Equal(t, model.RiskMedium, stored.RiskLevel)
	assert.Equal(t, "Calm Traders", stored.Name)
}

func TestDetailView_ViewModeRevertDisablesSave(t *testing.T) {
	v := openDetail(t, createTestRepo(t), ModeView, "low")

	_, err := v.RequestStatus(model.StatusBlocked)
	require.NoError(t, err)
	assert.True(t, v.CanSave())

	_, err = v.RequestStatus(model.StatusPaused)
	require.NoError(t, err)
	assert.False(t, v.CanSave())

	_, err = v.Save()
	assert.ErrorIs(t, err, ErrCannotSave)
}

func TestDetailView_ViewModeIgnoresForm(t *testing.T) {
	v := openDetail(t, createTestRepo(t), ModeView, "low")
	v.SetForm(MerchantFormInput{Name: "Changed"})
	assert.Equal(t, "Calm Traders", v.Form().Name)
	assert.Empty(t, v.FormErrors())
}

func TestDetailView_HazardousActivation(t *testing.T) {
	repo := createTestRepo(t)
	v := openDetail(t, repo, ModeView, "high")

	applied, err := v.RequestStatus(model.StatusActive)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, model.StatusPaused, v.Status(), "held status is not applied")
	assert.True(t, v.Gate().Pending())
	assert.False(t, v.CanSave())

	_, err = v.RequestStatus(model.StatusBlocked)
	assert.ErrorIs(t, err, ErrConfirmationPending)
	assert.Equal(t, model.StatusPaused, v.Status())

	v.CancelStatus()
	assert.Equal(t, model.StatusPaused, v.Status(), "cancel leaves the status as before the request")
	assert.False(t, v.Gate().Pending())

	_, err = v.RequestStatus(model.StatusActive)
	require.NoError(t, err)
	assert.True(t, v.ConfirmStatus())
	assert.Equal(t, model.StatusActive, v.Status())
	assert.True(t, v.CanSave())

	stored, err := repo.GetByID("high")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaused, stored.Status, "repository untouched until save")

	_, err = v.Save()
	require.NoError(t, err)
	stored, err = repo.GetByID("high")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, stored.Status)
}

func TestDetailView_GateUsesPendingRisk(t *testing.T) {
	v := openDetail(t, createTestRepo(t), ModeView, "low")

	require.NoError(t, v.SetRisk(model.RiskHigh))
	applied, err := v.RequestStatus(model.StatusActive)
	require.NoError(t, err)
	assert.False(t, applied, "unsaved high risk still gates activation")

	v.CancelStatus()
	require.NoError(t, v.SetRisk(model.RiskLow))
	applied, err = v.RequestStatus(model.StatusActive)
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestDetailView_ShowWarning(t *testing.T) {
	repo := createTestRepo(t)

	tests := []struct {
		name   string
		id     string
		mode   DetailMode
		status model.MerchantStatus
		want   bool
	}{
		{name: "ratio above 2 and active", id: "warn", mode: ModeView, want: true},
		{name: "ratio exactly 2", id: "edge", mode: ModeView, want: false},
		{name: "pending pause clears warning", id: "warn", mode: ModeView, status: model.StatusPaused, want: false},
		{name: "edit mode never warns", id: "warn", mode: ModeEdit, want: false},
		{name: "high ratio but paused", id: "high", mode: ModeView, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := openDetail(t, repo, tt.mode, tt.id)
			if tt.status != "" {
				_, err := v.RequestStatus(tt.status)
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, v.ShowWarning())
		})
	}
}

func TestDetailView_EditMode(t *testing.T) {
	repo := createTestRepo(t)
	v := openDetail(t, repo, ModeEdit, "low")
	assert.Equal(t, "Update", v.SaveLabel())
	assert.True(t, v.CanSave(), "prefilled form is valid")

	v.SetForm(MerchantFormInput{Name: "Calm Traders Intl", Country: "CA", MonthlyVolume: "2500", ChargebackRatio: ""})
	require.NoError(t, v.SetRisk(model.RiskMedium))

	saved, err := v.Save()
	require.NoError(t, err)
	assert.Equal(t, "Calm Traders Intl", saved.Name)
	assert.Equal(t, "CA", saved.Country)
	assert.InDelta(t, 2500.0, saved.MonthlyVolume, 0.001)
	assert.InDelta(t, 0.0, saved.ChargebackRatio, 0.001, "omitted ratio defaults to 0")
	assert.Equal(t, model.RiskMedium, saved.RiskLevel)
	assert.Equal(t, model.StatusPaused, saved.Status)
}

func TestDetailView_EditModeInvalidLeavesRepository(t *testing.T) {
	repo := createTestRepo(t)
	before := repo.List()

	v := openDetail(t, repo, ModeEdit, "low")
	in := v.Form()
	in.Name = "Ab"
	v.SetForm(in)

	assert.False(t, v.CanSave())
	assert.Equal(t, "Name must be at least 3 characters", v.FormErrors()[FieldName])

	_, err := v.Save()
	assert.ErrorIs(t, err, ErrCannotSave)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, before, repo.List())
}

func TestDetailView_CreateMode(t *testing.T) {
	repo := createTestRepo(t)
	v := openDetail(t, repo, ModeCreate, "")
	assert.Equal(t, "Create", v.SaveLabel())

	v.SetForm(MerchantFormInput{Name: "Acme Co", Country: "US", MonthlyVolume: "500", ChargebackRatio: "1.5"})
	assert.False(t, v.CanSave(), "status and risk must be chosen")

	_, err := v.RequestStatus(model.StatusActive)
	require.NoError(t, err)
	assert.False(t, v.CanSave())
	require.NoError(t, v.SetRisk(model.RiskLow))
	require.True(t, v.CanSave())

	saved, err := v.Save()
	require.NoError(t, err)

	assert.Equal(t, model.Merchant{
		ID:              "merchant-test",
		Name:            "Acme Co",
		Country:         "US",
		Status:          model.StatusActive,
		RiskLevel:       model.RiskLow,
		MonthlyVolume:   500,
		ChargebackRatio: 1.5,
		Volume:          500,
		SuccessRate:     95,
		Transactions:    5,
		LastActivity:    "2024-06-15",
		MonthlyData:     []model.MonthlyData{},
	}, saved)

	all := repo.List()
	assert.Len(t, all, 5)
	assert.Equal(t, "merchant-test", all[4].ID)
}

func TestDetailView_CreateTransactionsFloor(t *testing.T) {
	repo := createTestRepo(t)
	v := openDetail(t, repo, ModeCreate, "")
	v.SetForm(MerchantFormInput{Name: "Tiny Shop", Country: "US", MonthlyVolume: "199.99"})
	_, err := v.RequestStatus(model.StatusPaused)
	require.NoError(t, err)
	require.NoError(t, v.SetRisk(model.RiskMedium))

	saved, err := v.Save()
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Transactions)
	assert.InDelta(t, 0.0, saved.ChargebackRatio, 0.001)
}

func TestDetailView_CreateDuplicateID(t *testing.T) {
	repo := createTestRepo(t)
	v, err := NewDetailView(repo, ModeCreate, "", WithIDGenerator(func() string { return "low" }))
	require.NoError(t, err)

	v.SetForm(validInput())
	_, err = v.RequestStatus(model.StatusPaused)
	require.NoError(t, err)
	require.NoError(t, v.SetRisk(model.RiskLow))

	_, err = v.Save()
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
	assert.Len(t, repo.List(), 4)
}

func TestDetailView_SaveAfterDelete(t *testing.T) {
	repo := createTestRepo(t)
	v := openDetail(t, repo, ModeView, "low")
	_, err := v.RequestStatus(model.StatusBlocked)
	require.NoError(t, err)

	require.True(t, repo.Delete("low"))
	_, err = v.Save()
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDetailView_InvalidInputs(t *testing.T) {
	v := openDetail(t, createTestRepo(t), ModeView, "low")
	_, err := v.RequestStatus("closed")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorIs(t, v.SetRisk("extreme"), common.ErrValidation)
}

func TestNewMerchantID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewMerchantID(fixedNow)
		assert.False(t, seen[id])
		seen[id] = true
		assert.Contains(t, id, "merchant-1718447400000-")
	}
}
