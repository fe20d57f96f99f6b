// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/merchant-ops/internal/model"
)

// MerchantRepository owns the canonical in-memory merchant collection.
type MerchantRepository interface {
	// Add appends a merchant; it fails with common.ErrDuplicateEntry if the id exists.
	Add(merchant model.Merchant) error
	// Update merges patch into the merchant; it fails with common.ErrNotFound if the id is absent.
	Update(id string, patch model.MerchantPatch) error
	// Delete removes the merchant and reports whether anything was removed.
	Delete(id string) bool
	// GetByID returns a copy of the merchant or common.ErrNotFound.
	GetByID(id string) (*model.Merchant, error)
	// List returns copies of all merchants in insertion order.
	List() []model.Merchant
}

// ChangeNotifier is implemented by repositories that can report mutations.
type ChangeNotifier interface {
	// Subscribe registers fn to be called after every successful mutation and
	// returns a function that removes the subscription.
	Subscribe(fn func()) (unsubscribe func())
}

// ReportWriter exports a merchant report to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, merchants []model.Merchant, summary ReportSummary) error
}

// ReportSummary contains aggregate information for the report.
type ReportSummary struct {
	GeneratedAt       time.Time
	TotalVolume       float64
	AvgSuccessRate    float64
	ActiveMerchants   int
	TotalTransactions int
	MerchantCount     int
	ByStatus          map[model.MerchantStatus]int
	ByRisk            map[model.RiskLevel]int
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// WithDefaults fills zero fields with sensible values.
func (o RetryOptions) WithDefaults() RetryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = 100 * time.Millisecond
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}
	if o.Multiplier <= 0 {
		o.Multiplier = 2.0
	}
	return o
}
