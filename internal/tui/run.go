package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/merchant-ops/internal/common"
)

// Run starts the merchant console and blocks until the operator quits or
// ctx is cancelled.
func Run(ctx context.Context, opts ...Option) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := New(opts...)
	if err != nil {
		return err
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if m.config.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	common.LogInfo("starting merchant console", common.Fields{
		"merchants":       len(m.repo.List()),
		"load_more_delay": m.config.LoadMoreDelay.String(),
	})

	final, err := tea.NewProgram(m, programOpts...).Run()
	if fm, ok := final.(Model); ok {
		fm.shutdown()
	}
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// shutdown releases the repository subscription and any pending page load.
func (m Model) shutdown() {
	if m.loadCancel != nil {
		m.loadCancel()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}
