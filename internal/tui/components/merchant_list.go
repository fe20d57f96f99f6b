package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/tui/themes"
	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

// LoadMoreThreshold is how close to the last row the cursor must be before
// the next page is requested.
const LoadMoreThreshold = 2

// ListMode represents the current input mode of the list.
type ListMode int

// List modes.
const (
	ModeNormal ListMode = iota
	ModeSearch
)

type listKeyMap struct {
	Up           key.Binding
	Down         key.Binding
	PageDown     key.Binding
	Home         key.Binding
	End          key.Binding
	Search       key.Binding
	StatusFilter key.Binding
	RiskFilter   key.Binding
	SortVolume   key.Binding
	SortRatio    key.Binding
	ClearFilters key.Binding
	View         key.Binding
	Edit         key.Binding
	Create       key.Binding
}

var listKeys = listKeyMap{
	Up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
	Down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
	PageDown:     key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("PgDn", "page down")),
	Home:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	End:          key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	StatusFilter: key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "status filter")),
	RiskFilter:   key.NewBinding(key.WithKeys("4", "5", "6"), key.WithHelp("4-6", "risk filter")),
	SortVolume:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "sort volume")),
	SortRatio:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "sort chargeback")),
	ClearFilters: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
	View:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view")),
	Edit:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Create:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new merchant")),
}

// ListHelp returns the list bindings for the help overlay.
func ListHelp() []key.Binding {
	k := listKeys
	return []key.Binding{
		k.Up, k.Down, k.PageDown, k.Home, k.End, k.Search, k.StatusFilter,
		k.RiskFilter, k.SortVolume, k.SortRatio, k.ClearFilters, k.View, k.Edit, k.Create,
	}
}

// MerchantListModel renders the merchant table over a MerchantListView.
type MerchantListModel struct {
	theme       themes.Theme
	view        *viewmodel.MerchantListView
	searchInput textinput.Model
	table       table.Model
	mode        ListMode
	width       int
	height      int
}

// NewMerchantList creates the merchant table and derives the first page.
func NewMerchantList(merchants []model.Merchant, theme themes.Theme) MerchantListModel {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(viewmodel.PageSize),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(true)
	s.Selected = theme.Selected
	t.SetStyles(s)

	searchInput := textinput.New()
	searchInput.Placeholder = "Search merchants..."
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 64

	m := MerchantListModel{
		theme:       theme,
		view:        viewmodel.NewMerchantListView(merchants),
		searchInput: searchInput,
		table:       t,
		mode:        ModeNormal,
		width:       100,
		height:      24,
	}
	m.view.Refresh()
	m.updateColumns()
	m.syncTable()
	return m
}

// ListView returns the underlying list state.
func (m MerchantListModel) ListView() *viewmodel.MerchantListView {
	return m.view
}

// Mode returns the current input mode.
func (m MerchantListModel) Mode() ListMode {
	return m.mode
}

// Searching reports whether keystrokes go to the search box.
func (m MerchantListModel) Searching() bool {
	return m.mode == ModeSearch
}

// Update handles messages.
func (m MerchantListModel) Update(msg tea.Msg) (MerchantListModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == ModeSearch {
			cmd = m.handleSearchMode(msg)
		} else {
			cmd = m.handleNormalMode(msg)
		}
		m.syncTable()

	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
	}

	return m, cmd
}

func (m *MerchantListModel) handleNormalMode(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, listKeys.Up):
		m.view.MoveCursor(-1)
	case key.Matches(msg, listKeys.Down):
		m.view.MoveCursor(1)
		return m.maybeLoadMore()
	case key.Matches(msg, listKeys.PageDown):
		m.view.MoveCursor(viewmodel.PageSize)
		return m.maybeLoadMore()
	case key.Matches(msg, listKeys.Home):
		m.view.Cursor = 0
	case key.Matches(msg, listKeys.End):
		m.view.MoveCursor(len(m.view.Displayed()))
		return m.maybeLoadMore()

	case key.Matches(msg, listKeys.Search):
		m.mode = ModeSearch
		m.searchInput.Focus()
		return textinput.Blink

	case key.Matches(msg, listKeys.StatusFilter):
		m.view.ToggleStatus(model.AllStatuses[digit(msg)-1])
	case key.Matches(msg, listKeys.RiskFilter):
		m.view.ToggleRisk(model.AllRiskLevels[digit(msg)-4])
	case key.Matches(msg, listKeys.SortVolume):
		m.view.ToggleSort(viewmodel.SortByMonthlyVolume)
	case key.Matches(msg, listKeys.SortRatio):
		m.view.ToggleSort(viewmodel.SortByChargebackRatio)
	case key.Matches(msg, listKeys.ClearFilters):
		if !m.view.HasFilter() && m.view.Query().SortBy == viewmodel.SortNone {
			return nil
		}
		m.searchInput.SetValue("")
		m.view.ClearFilters()
		return func() tea.Msg { return StatusMsg{Text: "Filters cleared"} }

	case key.Matches(msg, listKeys.View):
		return m.openSelected(viewmodel.ModeView)
	case key.Matches(msg, listKeys.Edit):
		return m.openSelected(viewmodel.ModeEdit)
	case key.Matches(msg, listKeys.Create):
		return func() tea.Msg { return OpenDetailMsg{Mode: viewmodel.ModeCreate} }
	}
	return nil
}

func (m *MerchantListModel) handleSearchMode(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.mode = ModeNormal
		m.searchInput.Blur()
		return nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != m.view.Query().Search {
		m.view.SetSearch(m.searchInput.Value())
	}
	return cmd
}

func (m *MerchantListModel) openSelected(mode viewmodel.DetailMode) tea.Cmd {
	selected, ok := m.view.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg { return OpenDetailMsg{ID: selected.ID, Mode: mode} }
}

func (m *MerchantListModel) maybeLoadMore() tea.Cmd {
	if !m.view.NearBottom(LoadMoreThreshold) || !m.view.BeginLoadMore() {
		return nil
	}
	return func() tea.Msg { return LoadMoreRequestMsg{} }
}

// CompleteLoadMore appends the pending page and returns the rows added.
func (m *MerchantListModel) CompleteLoadMore() int {
	n := m.view.CompleteLoadMore()
	m.syncTable()
	return n
}

// CancelLoadMore abandons a pending page.
func (m *MerchantListModel) CancelLoadMore() {
	m.view.CancelLoadMore()
}

// SetMerchants replaces the source collection and re-derives.
func (m *MerchantListModel) SetMerchants(all []model.Merchant) {
	m.view.SetSource(all)
	m.syncTable()
}

func digit(msg tea.KeyMsg) int {
	s := msg.String()
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0
	}
	return int(s[0] - '0')
}

// View renders the merchant list.
func (m MerchantListModel) View() string {
	sections := []string{m.renderHeader(), m.renderFilters()}

	if m.mode == ModeSearch || m.searchInput.Value() != "" {
		sections = append(sections, m.searchInput.View())
	}

	if m.view.IsEmpty() {
		empty := "No merchants yet. Press n to create one."
		if m.view.HasFilter() {
			empty = "No merchants match the current filters. Press x to clear them."
		}
		sections = append(sections, "", m.theme.StatusPending.Render(empty))
	} else {
		sections = append(sections, m.table.View())
	}

	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m MerchantListModel) renderHeader() string {
	title := m.theme.Title.Render("Merchants")
	status := fmt.Sprintf("Showing %d of %d merchants",
		len(m.view.Displayed()), m.view.TotalCount())
	if q := m.view.Query(); q.SortBy != viewmodel.SortNone {
		status += fmt.Sprintf(" | sorted by %s (%s)", q.SortBy, q.SortOrder)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, m.theme.Subtitle.Render(status))
}

func (m MerchantListModel) renderFilters() string {
	q := m.view.Query()
	chip := func(n int, label string, on bool) string {
		text := fmt.Sprintf("[%d] %s", n, label)
		if on {
			return m.theme.Selected.Render(text)
		}
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render(text)
	}

	parts := []string{m.theme.Bold.Render("Status:")}
	for i, s := range model.AllStatuses {
		parts = append(parts, chip(i+1, string(s), slices.Contains(q.Statuses, s)))
	}
	parts = append(parts, " ", m.theme.Bold.Render("Risk:"))
	for i, r := range model.AllRiskLevels {
		parts = append(parts, chip(i+4, string(r), slices.Contains(q.RiskLevels, r)))
	}
	return strings.Join(parts, " ")
}

func (m MerchantListModel) renderFooter() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)
	switch {
	case m.view.Loading():
		return m.theme.StatusInfo.Render("Loading more merchants...")
	case m.view.HasMore():
		return muted.Render("Scroll down to load more")
	case m.mode == ModeSearch:
		return muted.Render("[enter/esc] done searching")
	default:
		return muted.Render("[/] search  [1-3] status  [4-6] risk  [v/c] sort  [enter] view  [e] edit  [n] new")
	}
}

func (m *MerchantListModel) syncTable() {
	displayed := m.view.Displayed()
	rows := make([]table.Row, 0, len(displayed))
	for _, merchant := range displayed {
		rows = append(rows, table.Row{
			viewmodel.TruncateString(viewmodel.SanitizeForDisplay(merchant.Name), 28),
			merchant.Country,
			string(merchant.Status),
			viewmodel.FormatCurrency(merchant.MonthlyVolume),
			viewmodel.FormatPercent(merchant.ChargebackRatio),
			string(merchant.RiskLevel),
		})
	}
	m.updateColumns()
	m.table.SetRows(rows)
	m.table.SetCursor(m.view.Cursor)
}

// Resize updates the component size.
func (m *MerchantListModel) Resize(width, height int) {
	m.width = width
	m.height = height
	// Header (3), filters (1), search (1), footer (1), table header (2).
	m.table.SetHeight(max(3, height-8))
	m.updateColumns()
}

func (m *MerchantListModel) updateColumns() {
	available := max(m.width-4, 72)
	q := m.view.Query()
	sortTitle := func(title string, field viewmodel.SortField) string {
		if q.SortBy != field {
			return title
		}
		if q.SortOrder == viewmodel.SortDescending {
			return title + " ↓"
		}
		return title + " ↑"
	}

	m.table.SetColumns([]table.Column{
		{Title: "Name", Width: max(16, int(float64(available)*0.28))},
		{Title: "Country", Width: max(7, int(float64(available)*0.1))},
		{Title: "Status", Width: max(8, int(float64(available)*0.12))},
		{Title: sortTitle("Monthly Volume", viewmodel.SortByMonthlyVolume), Width: max(16, int(float64(available)*0.18))},
		{Title: sortTitle("Chargeback Ratio", viewmodel.SortByChargebackRatio), Width: max(18, int(float64(available)*0.18))},
		{Title: "Risk Level", Width: max(10, int(float64(available)*0.12))},
	})
}
