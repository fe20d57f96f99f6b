package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// statusTTL is how long a status line message stays visible.
const statusTTL = 4 * time.Second

// loadMoreCmd waits delay and then reports completion. If ctx is cancelled
// first it returns nil, so a closed list never receives the page.
func loadMoreCmd(ctx context.Context, delay time.Duration, seq int) tea.Cmd {
	return func() tea.Msg {
		if delay <= 0 {
			if ctx.Err() != nil {
				return nil
			}
			return loadMoreDoneMsg{seq: seq}
		}

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			return loadMoreDoneMsg{seq: seq}
		}
	}
}

// waitForChange blocks until the repository signals a mutation.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return repoChangedMsg{}
	}
}

func clearStatusAfter(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
