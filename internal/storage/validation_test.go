package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/merchant-ops/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{name: "valid context", ctx: context.Background()},
		{name: "nil context", ctx: nil, wantErr: true},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "non-empty", value: "m1"},
		{name: "empty", value: "", wantErr: true},
		{name: "whitespace", value: " \t", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.value, "id")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrEmptyString) {
				t.Errorf("validateString() error = %v, want ErrEmptyString", err)
			}
		})
	}
}

func TestValidateMerchant(t *testing.T) {
	tests := []struct {
		mutate  func(*model.Merchant)
		name    string
		wantErr bool
	}{
		{name: "valid", mutate: func(*model.Merchant) {}},
		{name: "short name allowed", mutate: func(m *model.Merchant) { m.Name = "A" }},
		{name: "missing id", mutate: func(m *model.Merchant) { m.ID = " " }, wantErr: true},
		{name: "unknown status", mutate: func(m *model.Merchant) { m.Status = "closed" }, wantErr: true},
		{name: "unknown risk", mutate: func(m *model.Merchant) { m.RiskLevel = "" }, wantErr: true},
		{name: "negative ratio", mutate: func(m *model.Merchant) { m.ChargebackRatio = -0.1 }, wantErr: true},
		{name: "ratio at upper bound", mutate: func(m *model.Merchant) { m.ChargebackRatio = 100 }},
		{name: "negative volume", mutate: func(m *model.Merchant) { m.MonthlyVolume = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMerchant("m1", "Merchant")
			tt.mutate(&m)
			err := validateMerchant(&m)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateMerchant() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := validateMerchant(nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("validateMerchant(nil) error = %v, want ErrNilParameter", err)
	}
}
