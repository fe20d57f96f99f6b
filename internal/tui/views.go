package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

// View renders the current UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	if m.state == viewmodel.StateHelp {
		body = m.renderHelp()
	} else {
		body = m.renderBody()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTabs(),
		body,
		m.renderStatusBar(),
	)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, 2)
	for _, v := range []View{ViewMerchants, ViewDashboard} {
		style := m.theme.TabInactive
		if v == m.view {
			style = m.theme.TabActive
		}
		tabs = append(tabs, style.Render(v.String()))
	}

	title := m.theme.Title.Render("Merchant Operations")
	return lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...))
}

func (m Model) renderBody() string {
	if m.view == ViewDashboard {
		return m.dashboard.View()
	}

	list := m.list.View()
	if m.detail == nil {
		return list
	}

	detail := m.detail.View()
	if m.sideBySide() {
		return lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail)
	}
	return detail
}

func (m Model) renderHelp() string {
	m.help.ShowAll = true
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render("Keyboard Shortcuts"),
		"",
		m.help.View(m.keymap),
		"",
		m.theme.Subtitle.Render("Press ? or esc to return"),
	)
	return m.theme.RoundedBox.Render(content)
}

func (m Model) renderStatusBar() string {
	av := m.AppView()

	var left string
	switch {
	case av.HasError():
		left = m.theme.StatusError.Render("✗ " + av.Error)
	case av.StatusMessage != "":
		left = m.theme.StatusSuccess.Render(av.StatusMessage)
	default:
		left = m.theme.StatusInfo.Render(av.State.String())
	}

	hints := make([]string, 0, len(av.KeyBindings))
	for _, kb := range av.GetActiveKeyBindings() {
		hints = append(hints, kb.Key+" "+kb.Description)
	}
	right := lipgloss.NewStyle().Foreground(m.theme.Muted).Render(strings.Join(hints, " • "))

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}
