package viewmodel

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// String returns a string representation of the sort field.
func (f SortField) String() string {
	switch f {
	case SortNone:
		return "None"
	case SortByMonthlyVolume:
		return "Monthly Volume"
	case SortByChargebackRatio:
		return "Chargeback Ratio"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// String returns a string representation of the sort order.
func (o SortOrder) String() string {
	switch o {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return fmt.Sprintf("Unknown(%d)", o)
	}
}

// String returns a string representation of the detail mode.
func (m DetailMode) String() string {
	switch m {
	case ModeView:
		return "View"
	case ModeEdit:
		return "Edit"
	case ModeCreate:
		return "Create"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// String returns a string representation of the gate state.
func (s GateState) String() string {
	switch s {
	case GateIdle:
		return "Idle"
	case GatePendingConfirmation:
		return "PendingConfirmation"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// String returns a string representation of the app state.
func (s AppState) String() string {
	switch s {
	case StateList:
		return "List"
	case StateDetail:
		return "Detail"
	case StateHelp:
		return "Help"
	case StateError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// FormatCurrency formats an amount as whole US dollars, e.g. $125,000.
func FormatCurrency(amount float64) string {
	n := int64(math.Round(amount))
	if n < 0 {
		return "-$" + printer.Sprintf("%d", -n)
	}
	return "$" + printer.Sprintf("%d", n)
}

// FormatCompactCurrency abbreviates large amounts for chart axes, e.g. $1.2M.
func FormatCompactCurrency(amount float64) string {
	abs := math.Abs(amount)
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, abs/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%s$%.0fK", sign, abs/1_000)
	default:
		return FormatCurrency(amount)
	}
}

// FormatPercent formats a percentage with two decimals, e.g. 1.50%.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatNumber formats an integer with thousands separators.
func FormatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatDate formats a date for consistent display.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// TruncateString truncates a string to maxLen runes with ellipsis.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:max(maxLen, 0)])
	}
	return string(runes[:maxLen-3]) + "..."
}

// SanitizeForDisplay removes potentially problematic characters for terminal display.
func SanitizeForDisplay(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return ' '
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}
