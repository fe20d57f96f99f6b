package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/Veraticus/merchant-ops/internal/tui/components"
)

// KeyMap defines the bindings that work on every screen.
type KeyMap struct {
	ToggleView  key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
	ClearScreen key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ToggleView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "merchants/dashboard"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		ClearScreen: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "redraw"),
		),
	}
}

// ShortHelp returns key bindings for the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleView, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the help screen.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleView, k.Help, k.Quit, k.ForceQuit, k.ClearScreen},
		components.ListHelp(),
		components.DetailHelp(),
		components.DashboardHelp(),
	}
}
