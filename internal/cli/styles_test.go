package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/merchant-ops/internal/model"
)

func TestRenderMerchantTable(t *testing.T) {
	merchants := []model.Merchant{
		{ID: "1", Name: "TechCorp Solutions", Country: "United States", Status: model.StatusActive, RiskLevel: model.RiskLow, MonthlyVolume: 125000, ChargebackRatio: 0.8},
		{ID: "2", Name: "Baltic Books", Country: "Latvia", Status: model.StatusBlocked, RiskLevel: model.RiskHigh, MonthlyVolume: 19000, ChargebackRatio: 3.1},
	}

	out := RenderMerchantTable(merchants)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Contains(t, lines[0], "Monthly Volume")
	assert.Contains(t, out, "TechCorp Solutions")
	assert.Contains(t, out, "$125,000")
	assert.Contains(t, out, "3.10%")
	assert.Contains(t, out, "blocked")
}

func TestRenderMerchant(t *testing.T) {
	m := model.Merchant{ID: "4", Name: "DigitalStore", Status: model.StatusActive, RiskLevel: model.RiskHigh, ChargebackRatio: 3.4, LastActivity: "2024-01-12"}

	withWarning := RenderMerchant(m, true)
	assert.Contains(t, withWarning, "chargeback ratio above 2%")
	assert.Contains(t, withWarning, "2024-01-12")

	assert.NotContains(t, RenderMerchant(m, false), "chargeback ratio above 2%")
}

func TestBadges(t *testing.T) {
	for _, s := range model.AllStatuses {
		assert.Contains(t, StatusBadge(s), string(s))
	}
	for _, r := range model.AllRiskLevels {
		assert.Contains(t, RiskBadge(r), string(r))
	}
}
