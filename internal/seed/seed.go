// Package seed provides the initial merchant collection loaded at startup.
package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/merchant-ops/internal/common"
	"github.com/Veraticus/merchant-ops/internal/model"
)

// Months are the chart labels every merchant carries monthly data for.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

// variationSeed keeps generated monthly data identical across runs.
const variationSeed = 20240115

type baseline struct {
	id, name, country string
	status            model.MerchantStatus
	risk              model.RiskLevel
	lastActivity      string
	volume            float64
	successRate       float64
	chargeback        float64
	transactions      int
}

var baselines = []baseline{
	{"1", "TechCorp Solutions", "United States", model.StatusActive, model.RiskLow, "2024-01-15", 125000, 96.5, 0.8, 1245},
	{"2", "RetailMax Inc", "United States", model.StatusActive, model.RiskMedium, "2024-01-14", 89000, 94.2, 1.6, 892},
	{"3", "GlobalTrade Ltd", "United Kingdom", model.StatusActive, model.RiskLow, "2024-01-15", 156000, 97.8, 0.4, 1567},
	{"4", "DigitalStore Co", "Canada", model.StatusActive, model.RiskHigh, "2024-01-13", 67000, 92.1, 3.4, 678},
	{"5", "Ecommerce Pro", "Germany", model.StatusActive, model.RiskLow, "2024-01-15", 234000, 95.6, 0.9, 2345},
	{"6", "MarketPlace Hub", "France", model.StatusActive, model.RiskMedium, "2024-01-14", 189000, 93.4, 2.1, 1890},
	{"7", "ShopOnline Now", "Spain", model.StatusPaused, model.RiskMedium, "2024-01-12", 112000, 91.8, 1.9, 1123},
	{"8", "TradeConnect", "Netherlands", model.StatusActive, model.RiskLow, "2024-01-15", 145000, 96.9, 0.6, 1456},
	{"9", "Dormant Goods", "Italy", model.StatusBlocked, model.RiskHigh, "2024-01-05", 45000, 88.5, 5.2, 450},
	{"10", "QuickBuy Store", "Australia", model.StatusActive, model.RiskLow, "2024-01-15", 98000, 94.7, 1.1, 987},
	{"11", "Nordic Outfitters", "Sweden", model.StatusActive, model.RiskLow, "2024-01-14", 76000, 97.1, 0.5, 760},
	{"12", "Sunrise Electronics", "Japan", model.StatusActive, model.RiskMedium, "2024-01-15", 210000, 95.2, 1.4, 2100},
	{"13", "Andes Coffee Traders", "Colombia", model.StatusPaused, model.RiskHigh, "2024-01-09", 38000, 90.3, 4.1, 380},
	{"14", "Maple Leaf Crafts", "Canada", model.StatusActive, model.RiskLow, "2024-01-13", 27000, 98.0, 0.2, 270},
	{"15", "Harbor Freight Online", "United States", model.StatusActive, model.RiskHigh, "2024-01-15", 172000, 92.6, 2.8, 1720},
	{"16", "Atlas Travel Group", "Morocco", model.StatusBlocked, model.RiskHigh, "2024-01-02", 54000, 86.9, 6.7, 540},
	{"17", "Kiwi Gadgets", "New Zealand", model.StatusActive, model.RiskLow, "2024-01-14", 43000, 96.2, 0.7, 430},
	{"18", "Lisbon Leather Co", "Portugal", model.StatusActive, model.RiskMedium, "2024-01-11", 61000, 94.0, 1.8, 610},
	{"19", "Pampas Sports", "Argentina", model.StatusPaused, model.RiskLow, "2024-01-10", 33000, 93.1, 1.2, 330},
	{"20", "Alpine Watches", "Switzerland", model.StatusActive, model.RiskLow, "2024-01-15", 198000, 98.4, 0.3, 990},
	{"21", "Sahara Solar", "Egypt", model.StatusActive, model.RiskMedium, "2024-01-12", 88000, 93.7, 2.4, 880},
	{"22", "Baltic Books", "Estonia", model.StatusActive, model.RiskLow, "2024-01-13", 19000, 97.5, 0.1, 190},
	{"23", "Seoul Beauty Lab", "South Korea", model.StatusActive, model.RiskHigh, "2024-01-15", 143000, 91.2, 3.9, 1430},
	{"24", "Cape Wine Cellars", "South Africa", model.StatusPaused, model.RiskMedium, "2024-01-08", 52000, 92.8, 2.2, 520},
	{"25", "Mumbai Textiles", "India", model.StatusActive, model.RiskLow, "2024-01-14", 117000, 95.9, 0.9, 1170},
}

// Default returns the built-in merchant collection.
func Default() []model.Merchant {
	rng := newRand()
	out := make([]model.Merchant, 0, len(baselines))
	for _, b := range baselines {
		out = append(out, model.Merchant{
			ID:              b.id,
			Name:            b.name,
			Country:         b.country,
			Status:          b.status,
			RiskLevel:       b.risk,
			MonthlyVolume:   b.volume,
			ChargebackRatio: b.chargeback,
			Volume:          b.volume,
			SuccessRate:     b.successRate,
			Transactions:    b.transactions,
			LastActivity:    b.lastActivity,
			MonthlyData:     GenerateMonthlyData(rng, b.volume, b.successRate, b.transactions),
		})
	}
	return out
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(variationSeed, variationSeed))
}

// GenerateMonthlyData derives six months of history around the given baselines:
// volume varies by up to ±10%, success rate by ±15% and transactions by ±7.5%.
// Success rates are capped at 100.
func GenerateMonthlyData(rng *rand.Rand, volume, successRate float64, transactions int) []model.MonthlyData {
	data := make([]model.MonthlyData, 0, len(Months))
	for _, month := range Months {
		rateVariation := (rng.Float64() - 0.5) * 0.3
		volumeVariation := (rng.Float64() - 0.5) * 0.2
		txnVariation := (rng.Float64() - 0.5) * 0.15

		data = append(data, model.MonthlyData{
			Month:        month,
			Volume:       math.Round(volume * (1 + volumeVariation)),
			SuccessRate:  math.Min(100, math.Round(successRate*(1+rateVariation)*10)/10),
			Transactions: int(math.Round(float64(transactions) * (1 + txnVariation))),
		})
	}
	return data
}

// File is the YAML layout accepted by Load.
type File struct {
	Merchants []model.Merchant `yaml:"merchants"`
}

// Load reads merchants from a YAML file. Records without monthly data get
// generated history; dashboard fields left at zero are derived from the
// monthly volume the same way the create flow does.
func Load(path string) ([]model.Merchant, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates YAML seed data.
func Parse(raw []byte) ([]model.Merchant, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	rng := newRand()
	seen := make(map[string]struct{}, len(f.Merchants))
	for i := range f.Merchants {
		m := &f.Merchants[i]
		if err := check(m, seen); err != nil {
			return nil, fmt.Errorf("seed merchant %d: %w", i, err)
		}
		if m.Volume == 0 {
			m.Volume = m.MonthlyVolume
		}
		if m.SuccessRate == 0 {
			m.SuccessRate = 95
		}
		if m.Transactions == 0 {
			m.Transactions = int(math.Floor(m.MonthlyVolume / 100))
		}
		if len(m.MonthlyData) == 0 {
			m.MonthlyData = GenerateMonthlyData(rng, m.Volume, m.SuccessRate, m.Transactions)
		}
	}
	return f.Merchants, nil
}

func check(m *model.Merchant, seen map[string]struct{}) error {
	m.ID = strings.TrimSpace(m.ID)
	if m.ID == "" {
		return fmt.Errorf("%w: missing id", common.ErrValidation)
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: merchant %s has no name", common.ErrValidation, m.ID)
	}
	if _, ok := seen[m.ID]; ok {
		return fmt.Errorf("%w: merchant id %q", common.ErrDuplicateEntry, m.ID)
	}
	seen[m.ID] = struct{}{}

	status, err := model.ParseStatus(string(m.Status))
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	risk, err := model.ParseRiskLevel(string(m.RiskLevel))
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	m.Status, m.RiskLevel = status, risk

	if m.ChargebackRatio < 0 || m.ChargebackRatio > 100 {
		return fmt.Errorf("%w: merchant %s chargeback ratio %.2f outside [0,100]", common.ErrValidation, m.ID, m.ChargebackRatio)
	}
	return nil
}
