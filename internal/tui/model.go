package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/merchant-ops/internal/common"
	"github.com/Veraticus/merchant-ops/internal/service"
	"github.com/Veraticus/merchant-ops/internal/tui/components"
	"github.com/Veraticus/merchant-ops/internal/tui/themes"
	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

// ErrNoRepository is returned by New when no repository was configured.
var ErrNoRepository = errors.New("tui: merchant repository is required")

// View represents the top-level screen.
type View int

const (
	// ViewMerchants is the merchant table.
	ViewMerchants View = iota
	// ViewDashboard is the stats and charts screen.
	ViewDashboard
)

func (v View) String() string {
	if v == ViewDashboard {
		return "Dashboard"
	}
	return "Merchants"
}

// Model holds the main TUI state.
type Model struct {
	theme         themes.Theme
	repo          service.MerchantRepository
	lastError     error
	loadCancel    context.CancelFunc
	changes       chan struct{}
	unsubscribe   func()
	detail        *components.MerchantDetailModel
	statusMessage string
	help          help.Model
	keymap        KeyMap
	config        Config
	list          components.MerchantListModel
	dashboard     components.DashboardModel
	width         int
	height        int
	loadSeq       int
	statusSeq     int
	state         viewmodel.AppState
	view          View
	quitting      bool
}

// New creates the root model.
func New(opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Repository == nil {
		return Model{}, ErrNoRepository
	}

	merchants := cfg.Repository.List()
	m := Model{
		theme:     cfg.Theme,
		repo:      cfg.Repository,
		config:    cfg,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		list:      components.NewMerchantList(merchants, cfg.Theme),
		dashboard: components.NewDashboard(merchants, cfg.Theme),
		width:     cfg.Width,
		height:    cfg.Height,
		state:     viewmodel.StateList,
		view:      ViewMerchants,
	}

	if notifier, ok := cfg.Repository.(service.ChangeNotifier); ok {
		changes := make(chan struct{}, 1)
		m.changes = changes
		m.unsubscribe = notifier.Subscribe(func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
	}

	m.resize()
	return m, nil
}

// Init starts listening for repository changes.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.LoadMoreRequestMsg:
		cmd := m.startLoadMore()
		return m, cmd

	case loadMoreDoneMsg:
		if m.loadCancel == nil || msg.seq != m.loadSeq {
			return m, nil
		}
		m.loadCancel()
		m.loadCancel = nil
		n := m.list.CompleteLoadMore()
		common.LogDebug("loaded merchant page", common.Fields{"rows": n, "seq": msg.seq})
		return m, nil

	case repoChangedMsg:
		m.refresh()
		return m, waitForChange(m.changes)

	case components.OpenDetailMsg:
		cmd := m.openDetail(msg)
		return m, cmd

	case components.CloseDetailMsg:
		m.closeDetail()
		return m, nil

	case components.MerchantSavedMsg:
		m.closeDetail()
		if m.changes == nil {
			m.refresh()
		}
		verb := "Saved"
		if msg.Mode == viewmodel.ModeCreate {
			verb = "Created"
		}
		common.LogInfo("merchant saved", common.Fields{"id": msg.Merchant.ID, "mode": msg.Mode.String()})
		cmd := m.setStatus(fmt.Sprintf("%s %s", verb, msg.Merchant.Name))
		return m, cmd

	case components.StatusMsg:
		if msg.Err != nil {
			m.lastError = msg.Err
		}
		cmd := m.setStatus(msg.Text)
		return m, cmd

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
			m.lastError = nil
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return m.quit()
	}

	if m.state == viewmodel.StateHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Quit) || msg.Type == tea.KeyEsc {
			m.state = viewmodel.StateList
		}
		return m, nil
	}

	if m.detail != nil {
		detail, cmd := m.detail.Update(msg)
		m.detail = &detail
		return m, cmd
	}

	if m.view == ViewMerchants && m.list.Searching() {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m.quit()
	case key.Matches(msg, m.keymap.Help):
		m.state = viewmodel.StateHelp
		return m, nil
	case key.Matches(msg, m.keymap.ClearScreen):
		return m, tea.ClearScreen
	case key.Matches(msg, m.keymap.ToggleView):
		if m.view == ViewMerchants {
			m.stopLoadMore()
			m.view = ViewDashboard
		} else {
			m.view = ViewMerchants
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.view == ViewMerchants {
		m.list, cmd = m.list.Update(msg)
	} else {
		m.dashboard, cmd = m.dashboard.Update(msg)
	}
	return m, cmd
}

func (m *Model) startLoadMore() tea.Cmd {
	if m.loadCancel != nil {
		m.loadCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.loadCancel = cancel
	m.loadSeq++
	return loadMoreCmd(ctx, m.config.LoadMoreDelay, m.loadSeq)
}

// stopLoadMore cancels a pending page so its timer never fires into a
// list that is no longer shown.
func (m *Model) stopLoadMore() {
	if m.loadCancel != nil {
		m.loadCancel()
		m.loadCancel = nil
	}
	m.list.CancelLoadMore()
}

func (m *Model) openDetail(msg components.OpenDetailMsg) tea.Cmd {
	detail, err := components.NewMerchantDetail(m.repo, msg.Mode, msg.ID, m.theme, m.config.DetailOptions...)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return m.setStatus(fmt.Sprintf("Merchant %s no longer exists", msg.ID))
		}
		m.lastError = err
		return m.setStatus("")
	}
	m.detail = &detail
	m.state = viewmodel.StateDetail
	m.resize()
	return nil
}

func (m *Model) closeDetail() {
	m.detail = nil
	m.state = viewmodel.StateList
	m.resize()
}

func (m *Model) refresh() {
	merchants := m.repo.List()
	m.list.SetMerchants(merchants)
	m.dashboard.SetMerchants(merchants)
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.statusSeq++
	m.statusMessage = text
	return clearStatusAfter(m.statusSeq)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.stopLoadMore()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	return m, tea.Quit
}

func (m *Model) resize() {
	bodyHeight := max(m.height-4, 10)
	m.list.Resize(m.listWidth(), bodyHeight)
	m.dashboard.Resize(m.width-2, bodyHeight)
	m.help.Width = m.width
	if m.detail != nil {
		detail, _ := m.detail.Update(tea.WindowSizeMsg{Width: m.detailWidth(), Height: bodyHeight})
		m.detail = &detail
	}
}

// sideBySide reports whether the detail panel fits next to the table.
func (m Model) sideBySide() bool {
	return m.width >= 140
}

func (m Model) listWidth() int {
	if m.detail != nil && m.sideBySide() {
		return m.width * 55 / 100
	}
	return m.width - 2
}

func (m Model) detailWidth() int {
	if m.sideBySide() {
		return m.width - m.width*55/100 - 3
	}
	return m.width - 2
}

// CurrentView returns the top-level screen.
func (m Model) CurrentView() View {
	return m.view
}

// List returns the merchant table component.
func (m Model) List() components.MerchantListModel {
	return m.list
}

// Detail returns the open detail panel, if any.
func (m Model) Detail() (components.MerchantDetailModel, bool) {
	if m.detail == nil {
		return components.MerchantDetailModel{}, false
	}
	return *m.detail, true
}

// AppView summarizes the screen for the status bar.
func (m Model) AppView() viewmodel.AppView {
	av := viewmodel.AppView{
		State:         m.state,
		StatusMessage: m.statusMessage,
		Width:         m.width,
		Height:        m.height,
	}
	if m.lastError != nil {
		av.Error = common.UserMessage(m.lastError)
	}
	for _, b := range m.keymap.ShortHelp() {
		av.KeyBindings = append(av.KeyBindings, viewmodel.KeyBinding{
			Key:         b.Help().Key,
			Description: b.Help().Desc,
			IsActive:    b.Enabled() && m.detail == nil,
		})
	}
	return av
}
