package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/seed"
)

func months(volume, rate float64, txns int) []model.MonthlyData {
	out := make([]model.MonthlyData, 0, len(seed.Months))
	for _, m := range seed.Months {
		out = append(out, model.MonthlyData{Month: m, Volume: volume, SuccessRate: rate, Transactions: txns})
	}
	return out
}

func fixtures() []model.Merchant {
	return []model.Merchant{
		{ID: "a", Status: model.StatusActive, RiskLevel: model.RiskLow, Volume: 1000, SuccessRate: 96, Transactions: 10, MonthlyData: months(1000, 96, 10)},
		{ID: "b", Status: model.StatusActive, RiskLevel: model.RiskHigh, Volume: 2500, SuccessRate: 93, Transactions: 25, MonthlyData: months(2500, 93, 0)},
		{ID: "c", Status: model.StatusPaused, RiskLevel: model.RiskLow, Volume: 500, SuccessRate: 90.2, Transactions: 5, MonthlyData: months(500, 90.2, 5)},
		{ID: "d", Status: model.StatusActive, RiskLevel: model.RiskMedium, Volume: 100, SuccessRate: 95.2, Transactions: 1, MonthlyData: []model.MonthlyData{}},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixtures())
	assert.InDelta(t, 4100.0, s.TotalVolume, 0.001)
	assert.InDelta(t, 93.6, s.AvgSuccessRate, 0.001) // (96+93+90.2+95.2)/4
	assert.Equal(t, 3, s.ActiveMerchants)
	assert.Equal(t, 41, s.TotalTransactions)

	assert.Equal(t, Stats{}, Summarize(nil))
}

func TestChart_Volume(t *testing.T) {
	points := Chart(ChartVolume, fixtures())
	require.Len(t, points, 6)
	for i, p := range points {
		assert.Equal(t, seed.Months[i], p.Month)
		assert.InDelta(t, 4000.0, p.Value, 0.001)
		assert.Equal(t, "$4,000", p.FormattedValue)
	}
}

func TestChart_SuccessRate(t *testing.T) {
	points := Chart(ChartSuccessRate, fixtures())
	require.Len(t, points, 6)
	// Merchant d has no monthly data and is excluded from the average.
	assert.InDelta(t, 93.1, points[0].Value, 0.001)
	assert.Equal(t, "93.1%", points[0].FormattedValue)

	empty := Chart(ChartSuccessRate, nil)
	assert.InDelta(t, 0.0, empty[0].Value, 0.001)
	assert.Equal(t, "0%", empty[0].FormattedValue)
}

func TestChart_ActiveMerchants(t *testing.T) {
	points := Chart(ChartActiveMerchants, fixtures())
	require.Len(t, points, 6)
	// a is active with transactions; b has zero transactions; c is paused; d has no data.
	assert.InDelta(t, 1.0, points[0].Value, 0.001)
	assert.Equal(t, "1", points[0].FormattedValue)
}

func TestChart_UnknownFallsBackToVolume(t *testing.T) {
	assert.Equal(t, Chart(ChartVolume, fixtures()), Chart(ChartType("bogus"), fixtures()))
}

func TestTitle(t *testing.T) {
	tests := []struct {
		chart ChartType
		want  string
	}{
		{ChartVolume, "Total Volume"},
		{ChartSuccessRate, "Average Success Rate"},
		{ChartActiveMerchants, "Active Merchants"},
		{ChartType("other"), "Total Volume"},
	}
	for _, tt := range tests {
		t.Run(string(tt.chart), func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.chart))
		})
	}
}

func TestYDomain(t *testing.T) {
	lo, hi := YDomain(ChartSuccessRate, nil)
	assert.InDelta(t, 85.0, lo, 0.001)
	assert.InDelta(t, 100.0, hi, 0.001)

	lo, hi = YDomain(ChartActiveMerchants, nil)
	assert.InDelta(t, 0.0, lo, 0.001)
	assert.InDelta(t, 12.0, hi, 0.001)

	lo, hi = YDomain(ChartVolume, []ChartPoint{{Value: 1000}, {Value: 2000}})
	assert.InDelta(t, 900.0, lo, 0.001)
	assert.InDelta(t, 2100.0, hi, 0.001)

	lo, hi = YDomain(ChartVolume, []ChartPoint{{Value: 50}, {Value: 50}})
	assert.InDelta(t, 45.0, lo, 0.001)
	assert.InDelta(t, 55.0, hi, 0.001)
}

func TestParseChartType(t *testing.T) {
	got, err := ParseChartType("SUCCESSRATE")
	require.NoError(t, err)
	assert.Equal(t, ChartSuccessRate, got)

	_, err = ParseChartType("pie")
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	r := Report(fixtures(), now)
	assert.Equal(t, now, r.GeneratedAt)
	assert.Equal(t, 4, r.MerchantCount)
	assert.Equal(t, 3, r.ByStatus[model.StatusActive])
	assert.Equal(t, 1, r.ByStatus[model.StatusPaused])
	assert.Equal(t, 2, r.ByRisk[model.RiskLow])
}
