// Package themes defines the color schemes of the merchant console.
package themes

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/merchant-ops/internal/model"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Selected      lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPending lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Box           lipgloss.Style
	BorderedBox   lipgloss.Style
	RoundedBox    lipgloss.Style
	Card          lipgloss.Style
	TabActive     lipgloss.Style
	TabInactive   lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

type palette struct {
	primary, secondary, success, warning, errColor, info string
	foreground, subtle, border, surface, onPrimary       string
	muted                                                string
}

func build(p palette) Theme {
	fg := lipgloss.Color(p.foreground)
	border := lipgloss.Color(p.border)

	return Theme{
		Primary:    lipgloss.Color(p.primary),
		Secondary:  lipgloss.Color(p.secondary),
		Success:    lipgloss.Color(p.success),
		Warning:    lipgloss.Color(p.warning),
		Error:      lipgloss.Color(p.errColor),
		Info:       lipgloss.Color(p.info),
		Foreground: fg,
		Border:     border,
		Muted:      lipgloss.Color(p.muted),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.subtle)),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.primary)).
			Foreground(lipgloss.Color(p.onPrimary)).
			Bold(true),

		Box: lipgloss.NewStyle().
			Padding(0, 1),
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(border).
			Padding(0, 1),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			Width(22),
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.onPrimary)).
			Background(lipgloss.Color(p.primary)).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Background(lipgloss.Color(p.surface)).
			Padding(0, 2),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warning)).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.errColor)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.info)).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)).
			Italic(true),
	}
}

// Default is the default theme.
var Default = build(palette{
	primary:    "#7c3aed",
	secondary:  "#a78bfa",
	success:    "#10b981",
	warning:    "#f59e0b",
	errColor:   "#ef4444",
	info:       "#3b82f6",
	foreground: "#fafafa",
	subtle:     "#a3a3a3",
	border:     "#404040",
	surface:    "#262626",
	onPrimary:  "#fafafa",
	muted:      "#737373",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(palette{
	primary:    "#cba6f7",
	secondary:  "#f5c2e7",
	success:    "#a6e3a1",
	warning:    "#f9e2af",
	errColor:   "#f38ba8",
	info:       "#89dceb",
	foreground: "#cdd6f4",
	subtle:     "#a6adc8",
	border:     "#45475a",
	surface:    "#313244",
	onPrimary:  "#1e1e2e",
	muted:      "#6c7086",
})

// Names lists the selectable theme names.
var Names = []string{"default", "catppuccin-mocha"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// StatusStyle returns the badge style for a merchant status.
func (t Theme) StatusStyle(s model.MerchantStatus) lipgloss.Style {
	switch s {
	case model.StatusActive:
		return t.StatusSuccess
	case model.StatusPaused:
		return t.StatusWarning
	case model.StatusBlocked:
		return t.StatusError
	default:
		return t.StatusPending
	}
}

// RiskStyle returns the badge style for a risk level.
func (t Theme) RiskStyle(r model.RiskLevel) lipgloss.Style {
	switch r {
	case model.RiskLow:
		return t.StatusSuccess
	case model.RiskMedium:
		return t.StatusWarning
	case model.RiskHigh:
		return t.StatusError
	default:
		return t.StatusPending
	}
}
