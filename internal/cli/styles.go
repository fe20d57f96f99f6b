// Package cli provides styled terminal output for the merchops commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

var (
	// PrimaryColor is the main brand color.
	PrimaryColor = lipgloss.Color("#3B82F6")
	// SuccessColor indicates successful operations and active merchants.
	SuccessColor = lipgloss.Color("#22C55E")
	// WarningColor indicates warnings and paused merchants.
	WarningColor = lipgloss.Color("#EAB308")
	// ErrorColor indicates errors and blocked merchants.
	ErrorColor = lipgloss.Color("#EF4444")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#60A5FA")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#6B7280")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SubtitleStyle is used for secondary headings.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(SubtleColor)

	// TableCellStyle pads table cells.
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠"
	InfoIcon    = "ℹ"
	ChartIcon   = "▤"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a section title.
func FormatTitle(title string) string {
	return TitleStyle.Render(title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return BoldStyle.Foreground(PrimaryColor).Render(prompt + " → ")
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}

// StatusBadge colors a merchant status.
func StatusBadge(s model.MerchantStatus) string {
	switch s {
	case model.StatusActive:
		return SuccessStyle.Render(string(s))
	case model.StatusPaused:
		return WarningStyle.Render(string(s))
	case model.StatusBlocked:
		return ErrorStyle.Render(string(s))
	}
	return SubtleStyle.Render(string(s))
}

// RiskBadge colors a risk level.
func RiskBadge(r model.RiskLevel) string {
	switch r {
	case model.RiskLow:
		return SuccessStyle.Render(string(r))
	case model.RiskMedium:
		return WarningStyle.Render(string(r))
	case model.RiskHigh:
		return ErrorStyle.Render(string(r))
	}
	return SubtleStyle.Render(string(r))
}

var tableColumns = []string{"ID", "Name", "Country", "Status", "Monthly Volume", "Chargeback", "Risk"}

// RenderMerchantTable lays out merchants as an aligned table.
func RenderMerchantTable(merchants []model.Merchant) string {
	rows := make([][]string, 0, len(merchants))
	for _, m := range merchants {
		rows = append(rows, []string{
			m.ID,
			viewmodel.TruncateString(viewmodel.SanitizeForDisplay(m.Name), 28),
			m.Country,
			string(m.Status),
			viewmodel.FormatCurrency(m.MonthlyVolume),
			viewmodel.FormatPercent(m.ChargebackRatio),
			string(m.RiskLevel),
		})
	}

	widths := make([]int, len(tableColumns))
	for i, h := range tableColumns {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	header := make([]string, len(tableColumns))
	for i, h := range tableColumns {
		header[i] = TableCellStyle.Width(widths[i] + 2).Render(h)
	}
	b.WriteString(TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, header...)))
	b.WriteString("\n")

	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			switch i {
			case 3:
				cell = StatusBadge(merchants[r].Status)
			case 6:
				cell = RiskBadge(merchants[r].RiskLevel)
			}
			cells[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderMerchant renders a single merchant card.
func RenderMerchant(m model.Merchant, warn bool) string {
	lines := []string{
		fmt.Sprintf("%s %s", SubtleStyle.Render("ID:"), m.ID),
		fmt.Sprintf("%s %s", SubtleStyle.Render("Country:"), m.Country),
		fmt.Sprintf("%s %s", SubtleStyle.Render("Status:"), StatusBadge(m.Status)),
		fmt.Sprintf("%s %s", SubtleStyle.Render("Risk Level:"), RiskBadge(m.RiskLevel)),
		fmt.Sprintf("%s %s", SubtleStyle.Render("Monthly Volume:"), viewmodel.FormatCurrency(m.MonthlyVolume)),
		fmt.Sprintf("%s %s", SubtleStyle.Render("Chargeback Ratio:"), viewmodel.FormatPercent(m.ChargebackRatio)),
		fmt.Sprintf("%s %s", SubtleStyle.Render("Success Rate:"), fmt.Sprintf("%.1f%%", m.SuccessRate)),
		fmt.Sprintf("%s %s", SubtleStyle.Render("Transactions:"), viewmodel.FormatNumber(m.Transactions)),
		fmt.Sprintf("%s %s", SubtleStyle.Render("Last Activity:"), m.LastActivity),
	}
	if warn {
		lines = append([]string{FormatWarning(viewmodel.WarningText), ""}, lines...)
	}
	return RenderBox(viewmodel.SanitizeForDisplay(m.Name), strings.Join(lines, "\n"))
}
