package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/merchant-ops/internal/dashboard"
	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/tui/themes"
	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

var chartKeys = struct {
	Select key.Binding
	Next   key.Binding
	Prev   key.Binding
}{
	Select: key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "select chart")),
	Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next chart")),
	Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous chart")),
}

// DashboardHelp returns the dashboard bindings for the help overlay.
func DashboardHelp() []key.Binding {
	return []key.Binding{chartKeys.Select, chartKeys.Next, chartKeys.Prev}
}

// DashboardModel shows the headline stats and one monthly chart.
type DashboardModel struct {
	theme     themes.Theme
	chart     dashboard.ChartType
	merchants []model.Merchant
	bar       progress.Model
	stats     dashboard.Stats
	width     int
	height    int
}

// NewDashboard creates the dashboard over merchants.
func NewDashboard(merchants []model.Merchant, theme themes.Theme) DashboardModel {
	bar := progress.New(
		progress.WithSolidFill(string(theme.Primary)),
		progress.WithoutPercentage(),
		progress.WithWidth(40),
	)
	bar.EmptyColor = string(theme.Border)

	m := DashboardModel{
		theme: theme,
		chart: dashboard.ChartVolume,
		bar:   bar,
		width: 100,
	}
	m.SetMerchants(merchants)
	return m
}

// SetMerchants recomputes the stats for a new collection.
func (m *DashboardModel) SetMerchants(merchants []model.Merchant) {
	m.merchants = merchants
	m.stats = dashboard.Summarize(merchants)
}

// Chart returns the selected chart.
func (m DashboardModel) Chart() dashboard.ChartType {
	return m.chart
}

// Stats returns the current headline numbers.
func (m DashboardModel) Stats() dashboard.Stats {
	return m.stats
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(dashboard.ChartTypes)
		current := 0
		for i, t := range dashboard.ChartTypes {
			if t == m.chart {
				current = i
			}
		}
		switch {
		case key.Matches(msg, chartKeys.Select):
			m.chart = dashboard.ChartTypes[digit(msg)-1]
		case key.Matches(msg, chartKeys.Next):
			m.chart = dashboard.ChartTypes[(current+1)%n]
		case key.Matches(msg, chartKeys.Prev):
			m.chart = dashboard.ChartTypes[(current-1+n)%n]
		}
	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
	}
	return m, nil
}

// Resize updates the component size.
func (m *DashboardModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = max(10, min(width-30, 60))
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Dashboard"),
		m.renderCards(),
		"",
		m.renderChartTabs(),
		"",
		m.renderChart(),
	)
}

func (m DashboardModel) renderCards() string {
	card := func(title, value string) string {
		return m.theme.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Foreground(m.theme.Muted).Render(title),
			m.theme.Bold.Render(value),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Volume", viewmodel.FormatCurrency(m.stats.TotalVolume)),
		card("Avg Success Rate", fmt.Sprintf("%.1f%%", m.stats.AvgSuccessRate)),
		card("Active Merchants", viewmodel.FormatNumber(m.stats.ActiveMerchants)),
		card("Total Transactions", viewmodel.FormatNumber(m.stats.TotalTransactions)),
	)
}

func (m DashboardModel) renderChartTabs() string {
	tabs := make([]string, 0, len(dashboard.ChartTypes))
	for i, t := range dashboard.ChartTypes {
		label := fmt.Sprintf("[%d] %s", i+1, dashboard.Title(t))
		if t == m.chart {
			tabs = append(tabs, m.theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.theme.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m DashboardModel) renderChart() string {
	points := dashboard.Chart(m.chart, m.merchants)
	lo, hi := dashboard.YDomain(m.chart, points)

	lines := []string{m.theme.Subtitle.Render(dashboard.Title(m.chart) + " by month")}
	for _, p := range points {
		lines = append(lines, fmt.Sprintf("%-4s %s %s",
			p.Month,
			m.bar.ViewAs(scale(p.Value, lo, hi)),
			m.theme.Normal.Render(p.FormattedValue),
		))
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.Muted).Render(
		fmt.Sprintf("%s%s", strings.Repeat(" ", 5), axisLabel(m.chart, lo, hi))))
	return strings.Join(lines, "\n")
}

// scale maps v into [0,1] over the axis range.
func scale(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return max(0, min(1, (v-lo)/(hi-lo)))
}

func axisLabel(chart dashboard.ChartType, lo, hi float64) string {
	switch chart {
	case dashboard.ChartVolume:
		return fmt.Sprintf("axis %s – %s", viewmodel.FormatCompactCurrency(lo), viewmodel.FormatCompactCurrency(hi))
	case dashboard.ChartSuccessRate:
		return fmt.Sprintf("axis %.0f%% – %.0f%%", lo, hi)
	default:
		return fmt.Sprintf("axis %.0f – %.0f", lo, hi)
	}
}
