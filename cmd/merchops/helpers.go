package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/merchant-ops/internal/config"
	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/seed"
	"github.com/Veraticus/merchant-ops/internal/storage"
	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

// loadRepository builds the in-memory repository from the configured seed.
func loadRepository(app config.App) (*storage.MemoryRepository, error) {
	merchants := seed.Default()
	if app.SeedPath != "" {
		loaded, err := seed.Load(app.SeedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed %s: %w", app.SeedPath, err)
		}
		merchants = loaded
	}
	return storage.NewMemoryRepository(merchants)
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("search", "s", "", "Case-insensitive name search")
	cmd.Flags().StringSlice("status", nil, "Only these statuses (active, paused, blocked)")
	cmd.Flags().StringSlice("risk", nil, "Only these risk levels (low, medium, high)")
	cmd.Flags().String("sort", "", "Sort by field (volume, chargeback)")
	cmd.Flags().Bool("desc", false, "Sort descending")
}

func queryFromFlags(cmd *cobra.Command) (viewmodel.ListQuery, error) {
	var q viewmodel.ListQuery

	q.Search, _ = cmd.Flags().GetString("search")

	statuses, _ := cmd.Flags().GetStringSlice("status")
	for _, s := range statuses {
		status, err := model.ParseStatus(s)
		if err != nil {
			return q, err
		}
		q.Statuses = append(q.Statuses, status)
	}

	risks, _ := cmd.Flags().GetStringSlice("risk")
	for _, r := range risks {
		risk, err := model.ParseRiskLevel(r)
		if err != nil {
			return q, err
		}
		q.RiskLevels = append(q.RiskLevels, risk)
	}

	sortBy, _ := cmd.Flags().GetString("sort")
	field, err := parseSortField(sortBy)
	if err != nil {
		return q, err
	}
	q.SortBy = field

	if desc, _ := cmd.Flags().GetBool("desc"); desc {
		q.SortOrder = viewmodel.SortDescending
	}
	return q, nil
}

func parseSortField(s string) (viewmodel.SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return viewmodel.SortNone, nil
	case "volume", "monthlyvolume", "monthly_volume":
		return viewmodel.SortByMonthlyVolume, nil
	case "chargeback", "chargebackratio", "chargeback_ratio":
		return viewmodel.SortByChargebackRatio, nil
	}
	return viewmodel.SortNone, fmt.Errorf("unknown sort field %q (want volume or chargeback)", s)
}
