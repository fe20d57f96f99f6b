package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/storage"
	"github.com/Veraticus/merchant-ops/internal/testutil"
	"github.com/Veraticus/merchant-ops/internal/tui/components"
	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

func newTestModel(t *testing.T, opts ...Option) (Model, *storage.MemoryRepository) {
	t.Helper()
	repo := testutil.SetupRepository(t)

	opts = append([]Option{WithRepository(repo), WithSize(200, 40), WithLoadMoreDelay(0)}, opts...)
	m, err := New(opts...)
	require.NoError(t, err)
	return m, repo
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	require.True(t, ok)
	return result, cmd
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = update(t, m, keyPress(k))
	}
	return m, cmd
}

func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestNew_RequiresRepository(t *testing.T) {
	_, err := New()
	assert.ErrorIs(t, err, ErrNoRepository)
}

func TestModel_LoadMore(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := press(t, m, "G")
	require.Equal(t, components.LoadMoreRequestMsg{}, runCmd(cmd))

	m, cmd = update(t, m, components.LoadMoreRequestMsg{})
	done := runCmd(cmd)
	require.Equal(t, loadMoreDoneMsg{seq: 1}, done)

	m, _ = update(t, m, done)
	assert.Len(t, m.List().ListView().Displayed(), 20)
	assert.False(t, m.List().ListView().Loading())
}

func TestModel_StaleLoadMoreIgnored(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, "G")
	m, _ = update(t, m, components.LoadMoreRequestMsg{})

	m, _ = update(t, m, loadMoreDoneMsg{seq: 42})
	assert.Len(t, m.List().ListView().Displayed(), 10)
	assert.True(t, m.List().ListView().Loading())
}

func TestModel_TabCancelsPendingLoad(t *testing.T) {
	m, _ := newTestModel(t, WithLoadMoreDelay(time.Hour))

	m, _ = press(t, m, "G")
	m, cmd := update(t, m, components.LoadMoreRequestMsg{})
	require.NotNil(t, cmd)

	m, _ = press(t, m, "tab")
	assert.Equal(t, ViewDashboard, m.CurrentView())
	assert.False(t, m.List().ListView().Loading())
	assert.Nil(t, runCmd(cmd), "cancelled timer must not deliver a page")

	m, _ = update(t, m, loadMoreDoneMsg{seq: 1})
	assert.Len(t, m.List().ListView().Displayed(), 10)

	m, _ = press(t, m, "tab")
	assert.Equal(t, ViewMerchants, m.CurrentView())
}

func TestModel_OpenAndCloseDetail(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := press(t, m, "enter")
	open := runCmd(cmd)
	require.Equal(t, components.OpenDetailMsg{ID: "1", Mode: viewmodel.ModeView}, open)

	m, _ = update(t, m, open)
	detail, ok := m.Detail()
	require.True(t, ok)
	assert.Equal(t, viewmodel.ModeView, detail.DetailView().Mode())
	assert.Equal(t, viewmodel.StateDetail, m.AppView().State)

	// q belongs to the panel while it is open
	m, cmd = press(t, m, "q")
	assert.NotEqual(t, tea.QuitMsg{}, runCmd(cmd))

	m, cmd = press(t, m, "esc")
	m, _ = update(t, m, runCmd(cmd))
	_, ok = m.Detail()
	assert.False(t, ok)
	assert.Equal(t, viewmodel.StateList, m.AppView().State)
}

func TestModel_OpenMissingMerchant(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := update(t, m, components.OpenDetailMsg{ID: "nope", Mode: viewmodel.ModeEdit})
	assert.NotNil(t, cmd)
	_, ok := m.Detail()
	assert.False(t, ok)
	assert.Contains(t, m.AppView().StatusMessage, "nope")
}

func TestModel_RepositoryChangeRederives(t *testing.T) {
	m, repo := newTestModel(t)
	changed := m.Init()
	require.NotNil(t, changed)

	require.True(t, repo.Delete("1"))
	msg := runCmd(changed)
	require.Equal(t, repoChangedMsg{}, msg)

	m, cmd := update(t, m, msg)
	assert.NotNil(t, cmd, "model keeps listening for changes")
	assert.Equal(t, 24, m.List().ListView().TotalCount())
	assert.Equal(t, 18, m.dashboard.Stats().ActiveMerchants)
}

func TestModel_SavedMerchantSetsStatus(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, components.OpenDetailMsg{ID: "2", Mode: viewmodel.ModeEdit})
	_, ok := m.Detail()
	require.True(t, ok)

	m, cmd := update(t, m, components.MerchantSavedMsg{
		Merchant: model.Merchant{ID: "2", Name: "Renamed"},
		Mode:     viewmodel.ModeEdit,
	})
	require.NotNil(t, cmd)
	_, ok = m.Detail()
	assert.False(t, ok)
	assert.Equal(t, "Saved Renamed", m.AppView().StatusMessage)

	m, _ = update(t, m, clearStatusMsg{seq: m.statusSeq})
	assert.Empty(t, m.AppView().StatusMessage)
}

func TestModel_StatusExpiryIgnoresOlderMessages(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, components.StatusMsg{Text: "first"})
	m, _ = update(t, m, components.StatusMsg{Text: "second"})
	m, _ = update(t, m, clearStatusMsg{seq: 1})
	assert.Equal(t, "second", m.AppView().StatusMessage)
}

func TestModel_Help(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, "?")
	assert.Equal(t, viewmodel.StateHelp, m.AppView().State)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m, _ = press(t, m, "esc")
	assert.Equal(t, viewmodel.StateList, m.AppView().State)
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		wantQuit bool
	}{
		{name: "q quits", keys: []string{"q"}, wantQuit: true},
		{name: "ctrl+c quits", keys: []string{"ctrl+c"}, wantQuit: true},
		{name: "q while searching is text", keys: []string{"/", "q"}, wantQuit: false},
		{name: "ctrl+c while searching quits", keys: []string{"/", "ctrl+c"}, wantQuit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m, cmd := press(t, m, tt.keys...)

			if tt.wantQuit {
				assert.Equal(t, tea.QuitMsg{}, runCmd(cmd))
				assert.Empty(t, m.View())
				return
			}
			assert.NotEqual(t, tea.QuitMsg{}, runCmd(cmd))
			assert.True(t, m.List().Searching())
		})
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)

	out := m.View()
	assert.Contains(t, out, "Merchant Operations")
	assert.Contains(t, out, "Showing 10 of 25 merchants")

	m, _ = press(t, m, "tab")
	assert.Contains(t, m.View(), "Total Volume")
}
