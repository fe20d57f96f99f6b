package viewmodel

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/merchant-ops/internal/common"
	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/service"
)

// Defaults applied to merchants created from the form.
const (
	DefaultSuccessRate = 95.0
	VolumePerTxn       = 100.0
)

// Banner texts shown by the detail panel.
const (
	WarningText      = "Warning: This merchant has a chargeback ratio above 2% and is currently active."
	ConfirmationText = "Are you sure you want to set status to active for a high-risk merchant?"
)

// ErrCannotSave is returned by Save when the save action is disabled.
var ErrCannotSave = fmt.Errorf("%w: nothing to save", common.ErrValidation)

// DetailMode selects what the detail panel lets the operator change.
type DetailMode int

const (
	// ModeView allows only status and risk changes.
	ModeView DetailMode = iota
	// ModeEdit allows every form field plus status and risk.
	ModeEdit
	// ModeCreate builds a new merchant.
	ModeCreate
)

// DetailOption configures a DetailView.
type DetailOption func(*DetailView)

// WithIDGenerator overrides how new merchant ids are produced.
func WithIDGenerator(fn func() string) DetailOption {
	return func(v *DetailView) {
		v.newID = fn
	}
}

// WithClock overrides the time source used for lastActivity.
func WithClock(now func() time.Time) DetailOption {
	return func(v *DetailView) {
		v.now = now
	}
}

// NewMerchantID returns a collision-resistant id of the form
// merchant-<unix millis>-<random suffix>.
func NewMerchantID(now time.Time) string {
	return fmt.Sprintf("merchant-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

// DetailView holds the pending state of one open detail panel. Nothing
// reaches the repository until Save.
type DetailView struct {
	repo      service.MerchantRepository
	committed *model.Merchant
	newID     func() string
	now       func() time.Time
	form      MerchantFormInput
	status    model.MerchantStatus
	risk      model.RiskLevel
	gate      StatusGate
	mode      DetailMode
}

// NewDetailView opens a panel for id in the given mode. Outside create mode
// an unknown id yields common.ErrNotFound and no view.
func NewDetailView(repo service.MerchantRepository, mode DetailMode, id string, opts ...DetailOption) (*DetailView, error) {
	v := &DetailView{
		repo: repo,
		mode: mode,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.newID == nil {
		v.newID = func() string { return NewMerchantID(v.now()) }
	}

	if mode == ModeCreate {
		return v, nil
	}

	m, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	v.committed = m
	v.status = m.Status
	v.risk = m.RiskLevel
	v.form = FormInputFrom(*m)
	return v, nil
}

// Mode returns the panel mode.
func (v *DetailView) Mode() DetailMode {
	return v.mode
}

// Merchant returns the committed record, or false in create mode.
func (v *DetailView) Merchant() (model.Merchant, bool) {
	if v.committed == nil {
		return model.Merchant{}, false
	}
	return *v.committed, true
}

// Status returns the pending status, empty if none was chosen yet.
func (v *DetailView) Status() model.MerchantStatus {
	return v.status
}

// Risk returns the pending risk level, empty if none was chosen yet.
func (v *DetailView) Risk() model.RiskLevel {
	return v.risk
}

// Gate exposes the confirmation state for rendering.
func (v *DetailView) Gate() *StatusGate {
	return &v.gate
}

// Form returns the current form input.
func (v *DetailView) Form() MerchantFormInput {
	return v.form
}

// SetForm replaces the form input. It is ignored in view mode.
func (v *DetailView) SetForm(in MerchantFormInput) {
	if v.mode == ModeView {
		return
	}
	v.form = in
}

// FormErrors returns per-field validation messages for the current input.
func (v *DetailView) FormErrors() FieldErrors {
	if v.mode == ModeView {
		return FieldErrors{}
	}
	_, errs := v.form.Validate()
	return errs
}

// RequestStatus asks to change the pending status. It reports whether the
// change was applied; activating a high-risk merchant is held until
// ConfirmStatus instead.
func (v *DetailView) RequestStatus(status model.MerchantStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: unknown status %q", common.ErrValidation, status)
	}
	apply, err := v.gate.Request(status, v.risk)
	if err != nil || !apply {
		return false, err
	}
	v.status = status
	return true, nil
}

// ConfirmStatus applies the held status.
func (v *DetailView) ConfirmStatus() bool {
	status, ok := v.gate.Confirm()
	if ok {
		v.status = status
	}
	return ok
}

// CancelStatus discards the held status.
func (v *DetailView) CancelStatus() {
	v.gate.Cancel()
}

// SetRisk changes the pending risk level immediately.
func (v *DetailView) SetRisk(risk model.RiskLevel) error {
	if !risk.Valid() {
		return fmt.Errorf("%w: unknown risk level %q", common.ErrValidation, risk)
	}
	v.risk = risk
	return nil
}

// HasChanges reports whether pending status or risk differ from the record.
func (v *DetailView) HasChanges() bool {
	if v.committed == nil {
		return v.status != "" || v.risk != ""
	}
	return v.status != v.committed.Status || v.risk != v.committed.RiskLevel
}

// CanSave reports whether the save action is enabled.
func (v *DetailView) CanSave() bool {
	switch v.mode {
	case ModeView:
		return v.HasChanges()
	case ModeEdit:
		return v.form.Valid()
	case ModeCreate:
		return v.form.Valid() && v.status != "" && v.risk != ""
	default:
		return false
	}
}

// ShowWarning reports whether the view-mode chargeback warning applies: the
// ratio is strictly above 2% and the effective status is active.
func (v *DetailView) ShowWarning() bool {
	if v.mode != ModeView || v.committed == nil {
		return false
	}
	return v.committed.ChargebackRatio > 2 && v.status == model.StatusActive
}

// Title returns the panel heading.
func (v *DetailView) Title() string {
	if v.mode == ModeCreate {
		return "Create Merchant"
	}
	if v.committed != nil && v.committed.Name != "" {
		return v.committed.Name
	}
	return "Merchant Details"
}

// SaveLabel returns the caption of the save action.
func (v *DetailView) SaveLabel() string {
	switch v.mode {
	case ModeCreate:
		return "Create"
	case ModeEdit:
		return "Update"
	default:
		return "Save"
	}
}

// Save commits the pending state and returns the stored merchant. A status
// still awaiting confirmation is not part of the commit.
func (v *DetailView) Save() (model.Merchant, error) {
	if !v.CanSave() {
		return model.Merchant{}, ErrCannotSave
	}

	switch v.mode {
	case ModeView:
		status, risk := v.status, v.risk
		return v.update(model.MerchantPatch{Status: &status, RiskLevel: &risk})
	case ModeEdit:
		data, _ := v.form.Validate()
		status, risk := v.status, v.risk
		ratio := data.Ratio()
		return v.update(model.MerchantPatch{
			Name:            &data.Name,
			Country:         &data.Country,
			Status:          &status,
			RiskLevel:       &risk,
			MonthlyVolume:   &data.MonthlyVolume,
			ChargebackRatio: &ratio,
		})
	case ModeCreate:
		return v.create()
	default:
		return model.Merchant{}, fmt.Errorf("unknown detail mode %d", v.mode)
	}
}

func (v *DetailView) update(patch model.MerchantPatch) (model.Merchant, error) {
	id := v.committed.ID
	if err := v.repo.Update(id, patch); err != nil {
		return model.Merchant{}, fmt.Errorf("failed to update merchant %s: %w", id, err)
	}
	m, err := v.repo.GetByID(id)
	if err != nil {
		return model.Merchant{}, fmt.Errorf("failed to reload merchant %s: %w", id, err)
	}
	v.committed = m
	v.gate.Reset()
	return *m, nil
}

func (v *DetailView) create() (model.Merchant, error) {
	data, _ := v.form.Validate()
	m := model.Merchant{
		ID:              v.newID(),
		Name:            data.Name,
		Country:         data.Country,
		Status:          v.status,
		RiskLevel:       v.risk,
		MonthlyVolume:   data.MonthlyVolume,
		ChargebackRatio: data.Ratio(),
		Volume:          data.MonthlyVolume,
		SuccessRate:     DefaultSuccessRate,
		Transactions:    int(math.Floor(data.MonthlyVolume / VolumePerTxn)),
		LastActivity:    FormatDate(v.now()),
		MonthlyData:     []model.MonthlyData{},
	}

	if err := v.repo.Add(m); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			return model.Merchant{}, fmt.Errorf("generated merchant id %s collided: %w", m.ID, err)
		}
		return model.Merchant{}, fmt.Errorf("failed to add merchant: %w", err)
	}
	v.committed = &m
	v.gate.Reset()
	return m, nil
}
