// Package dashboard aggregates the merchant collection into headline stats
// and per-month chart series.
package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/seed"
	"github.com/Veraticus/merchant-ops/internal/service"
	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

// ChartType selects which monthly aggregate a chart shows.
type ChartType string

const (
	// ChartVolume sums monthly volume across merchants.
	ChartVolume ChartType = "volume"
	// ChartSuccessRate averages monthly success rates.
	ChartSuccessRate ChartType = "successRate"
	// ChartActiveMerchants counts active merchants with transactions that month.
	ChartActiveMerchants ChartType = "merchants"
)

// ChartTypes lists every chart in display order.
var ChartTypes = []ChartType{ChartVolume, ChartSuccessRate, ChartActiveMerchants}

// ParseChartType converts user input into a ChartType.
func ParseChartType(s string) (ChartType, error) {
	for _, t := range ChartTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown chart type %q (want volume, successRate or merchants)", s)
}

// Stats are the dashboard headline numbers.
type Stats struct {
	TotalVolume       float64
	AvgSuccessRate    float64
	ActiveMerchants   int
	TotalTransactions int
}

// ChartPoint is one month of a chart series.
type ChartPoint struct {
	Month          string
	FormattedValue string
	Value          float64
}

// Summarize computes the headline stats. The average success rate is
// rounded to one decimal.
func Summarize(merchants []model.Merchant) Stats {
	var s Stats
	var rateSum float64
	for _, m := range merchants {
		s.TotalVolume += m.Volume
		s.TotalTransactions += m.Transactions
		rateSum += m.SuccessRate
		if m.Status == model.StatusActive {
			s.ActiveMerchants++
		}
	}
	if len(merchants) > 0 {
		s.AvgSuccessRate = round1(rateSum / float64(len(merchants)))
	}
	return s
}

// Report builds the export summary for merchants.
func Report(merchants []model.Merchant, generatedAt time.Time) service.ReportSummary {
	stats := Summarize(merchants)
	r := service.ReportSummary{
		GeneratedAt:       generatedAt,
		TotalVolume:       stats.TotalVolume,
		AvgSuccessRate:    stats.AvgSuccessRate,
		ActiveMerchants:   stats.ActiveMerchants,
		TotalTransactions: stats.TotalTransactions,
		MerchantCount:     len(merchants),
		ByStatus:          make(map[model.MerchantStatus]int),
		ByRisk:            make(map[model.RiskLevel]int),
	}
	for _, m := range merchants {
		r.ByStatus[m.Status]++
		r.ByRisk[m.RiskLevel]++
	}
	return r
}

// Chart returns the six-month series for chartType. Unknown types fall back
// to volume.
func Chart(chartType ChartType, merchants []model.Merchant) []ChartPoint {
	switch chartType {
	case ChartSuccessRate:
		return successRateChart(merchants)
	case ChartActiveMerchants:
		return activeMerchantsChart(merchants)
	default:
		return volumeChart(merchants)
	}
}

// Title returns the heading for chartType.
func Title(chartType ChartType) string {
	switch chartType {
	case ChartSuccessRate:
		return "Average Success Rate"
	case ChartActiveMerchants:
		return "Active Merchants"
	default:
		return "Total Volume"
	}
}

// YDomain returns the value axis range for a chart. Success rate and active
// merchants use fixed ranges; volume pads the data range by 10%.
func YDomain(chartType ChartType, points []ChartPoint) (lo, hi float64) {
	switch chartType {
	case ChartSuccessRate:
		return 85, 100
	case ChartActiveMerchants:
		return 0, 12
	}

	if len(points) == 0 {
		return 0, 1
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = math.Max(hi*0.1, 1)
	}
	return math.Max(0, lo-pad), hi + pad
}

func monthData(m model.Merchant, month string) (model.MonthlyData, bool) {
	for _, d := range m.MonthlyData {
		if d.Month == month {
			return d, true
		}
	}
	return model.MonthlyData{}, false
}

func volumeChart(merchants []model.Merchant) []ChartPoint {
	points := make([]ChartPoint, 0, len(seed.Months))
	for _, month := range seed.Months {
		var total float64
		for _, m := range merchants {
			if d, ok := monthData(m, month); ok {
				total += d.Volume
			}
		}
		points = append(points, ChartPoint{
			Month:          month,
			Value:          total,
			FormattedValue: viewmodel.FormatCurrency(total),
		})
	}
	return points
}

func successRateChart(merchants []model.Merchant) []ChartPoint {
	points := make([]ChartPoint, 0, len(seed.Months))
	for _, month := range seed.Months {
		var sum float64
		var n int
		for _, m := range merchants {
			if d, ok := monthData(m, month); ok {
				sum += d.SuccessRate
				n++
			}
		}
		var avg float64
		if n > 0 {
			avg = round1(sum / float64(n))
		}
		points = append(points, ChartPoint{
			Month:          month,
			Value:          avg,
			FormattedValue: strconv.FormatFloat(avg, 'f', -1, 64) + "%",
		})
	}
	return points
}

func activeMerchantsChart(merchants []model.Merchant) []ChartPoint {
	points := make([]ChartPoint, 0, len(seed.Months))
	for _, month := range seed.Months {
		count := 0
		for _, m := range merchants {
			if m.Status != model.StatusActive {
				continue
			}
			if d, ok := monthData(m, month); ok && d.Transactions > 0 {
				count++
			}
		}
		points = append(points, ChartPoint{
			Month:          month,
			Value:          float64(count),
			FormattedValue: strconv.Itoa(count),
		})
	}
	return points
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
