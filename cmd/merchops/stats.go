package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/merchant-ops/internal/cli"
	"github.com/Veraticus/merchant-ops/internal/config"
	"github.com/Veraticus/merchant-ops/internal/dashboard"
	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

const chartWidth = 40

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard stats and a monthly chart",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}

	cmd.Flags().String("chart", string(dashboard.ChartVolume), "Chart to print (volume, successRate, merchants)")

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	chartName, _ := cmd.Flags().GetString("chart")
	chart, err := dashboard.ParseChartType(chartName)
	if err != nil {
		return err
	}

	app, err := config.LoadApp()
	if err != nil {
		return err
	}
	repo, err := loadRepository(app)
	if err != nil {
		return err
	}

	merchants := repo.List()
	stats := dashboard.Summarize(merchants)

	summary := strings.Join([]string{
		fmt.Sprintf("Total Volume:       %s", viewmodel.FormatCurrency(stats.TotalVolume)),
		fmt.Sprintf("Avg Success Rate:   %.1f%%", stats.AvgSuccessRate),
		fmt.Sprintf("Active Merchants:   %s", viewmodel.FormatNumber(stats.ActiveMerchants)),
		fmt.Sprintf("Total Transactions: %s", viewmodel.FormatNumber(stats.TotalTransactions)),
	}, "\n")

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, cli.RenderBox("Dashboard", summary)); err != nil {
		return err
	}
	_, err = fmt.Fprint(out, renderChart(chart, dashboard.Chart(chart, merchants)))
	return err
}

// renderChart draws one horizontal bar per month, scaled to the chart's
// y-axis domain.
func renderChart(chart dashboard.ChartType, points []dashboard.ChartPoint) string {
	lo, hi := dashboard.YDomain(chart, points)

	var b strings.Builder
	b.WriteString(cli.FormatTitle(cli.ChartIcon + " " + dashboard.Title(chart)))
	b.WriteString("\n")
	for _, p := range points {
		filled := 0
		if hi > lo {
			frac := min(max((p.Value-lo)/(hi-lo), 0), 1)
			filled = int(frac*chartWidth + 0.5)
		}
		bar := cli.InfoStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("·", chartWidth-filled)
		fmt.Fprintf(&b, "%-4s %s %s\n", p.Month, bar, p.FormattedValue)
	}
	return b.String()
}
