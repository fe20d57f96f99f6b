package testutil

import (
	"strconv"

	"github.com/Veraticus/merchant-ops/internal/model"
)

// MerchantBuilder builds merchants for tests. Unset fields get values that
// pass validation: active, low risk, $10,000 monthly volume.
//
// Example:
//
//	m := testutil.NewMerchant("m1").Named("Acme").Status(model.StatusPaused).Build()
type MerchantBuilder struct {
	m model.Merchant
}

// NewMerchant starts a builder for a merchant with the given id.
func NewMerchant(id string) *MerchantBuilder {
	return &MerchantBuilder{m: model.Merchant{
		ID:              id,
		Name:            "Merchant " + id,
		Country:         "United States",
		Status:          model.StatusActive,
		RiskLevel:       model.RiskLow,
		LastActivity:    "2024-01-15",
		MonthlyVolume:   10000,
		ChargebackRatio: 0.5,
		Volume:          10000,
		SuccessRate:     95,
		Transactions:    100,
	}}
}

func (b *MerchantBuilder) Named(name string) *MerchantBuilder {
	b.m.Name = name
	return b
}

func (b *MerchantBuilder) Country(country string) *MerchantBuilder {
	b.m.Country = country
	return b
}

func (b *MerchantBuilder) Status(status model.MerchantStatus) *MerchantBuilder {
	b.m.Status = status
	return b
}

func (b *MerchantBuilder) Risk(risk model.RiskLevel) *MerchantBuilder {
	b.m.RiskLevel = risk
	return b
}

// Volume sets both the monthly and the total volume.
func (b *MerchantBuilder) Volume(v float64) *MerchantBuilder {
	b.m.MonthlyVolume = v
	b.m.Volume = v
	return b
}

func (b *MerchantBuilder) Chargebacks(ratio float64) *MerchantBuilder {
	b.m.ChargebackRatio = ratio
	return b
}

func (b *MerchantBuilder) History(data ...model.MonthlyData) *MerchantBuilder {
	b.m.MonthlyData = data
	return b
}

// Build returns a copy of the merchant.
func (b *MerchantBuilder) Build() model.Merchant {
	return b.m.Clone()
}

// Merchants builds merchants with ids "1".."n" and the given volumes, in order.
func Merchants(volumes ...float64) []model.Merchant {
	out := make([]model.Merchant, 0, len(volumes))
	for i, v := range volumes {
		out = append(out, NewMerchant(strconv.Itoa(i+1)).Volume(v).Build())
	}
	return out
}
