// Package storage provides the merchant repository and the sqlite export snapshot.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/merchant-ops/internal/common"
	"github.com/Veraticus/merchant-ops/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidMerchant = fmt.Errorf("%w: invalid merchant", common.ErrValidation)
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateMerchant checks the record-level invariants. Form rules such as
// minimum name length are enforced by the edit view, not here.
func validateMerchant(m *model.Merchant) error {
	if m == nil {
		return fmt.Errorf("%w: merchant", ErrNilParameter)
	}
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidMerchant)
	}
	if !m.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidMerchant, m.Status)
	}
	if !m.RiskLevel.Valid() {
		return fmt.Errorf("%w: unknown risk level %q", ErrInvalidMerchant, m.RiskLevel)
	}
	if m.ChargebackRatio < 0 || m.ChargebackRatio > 100 {
		return fmt.Errorf("%w: chargeback ratio %.2f outside [0,100]", ErrInvalidMerchant, m.ChargebackRatio)
	}
	if m.MonthlyVolume < 0 {
		return fmt.Errorf("%w: negative monthly volume", ErrInvalidMerchant)
	}
	return nil
}
