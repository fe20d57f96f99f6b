package viewmodel

// AppState represents the overall application state.
type AppState int

const (
	// StateList indicates the operator is browsing a list or the dashboard.
	StateList AppState = iota
	// StateDetail indicates a detail panel is open.
	StateDetail
	// StateHelp indicates the help overlay is shown.
	StateHelp
	// StateError indicates an error has occurred.
	StateError
)

// KeyBinding represents a keyboard shortcut.
type KeyBinding struct {
	Key         string
	Description string
	IsActive    bool
}

// AppView summarizes what the root model is showing.
type AppView struct {
	Error         string
	StatusMessage string
	KeyBindings   []KeyBinding
	State         AppState
	Width         int
	Height        int
}

// IsReady returns true if the application is ready for operator input.
func (av AppView) IsReady() bool {
	return av.State != StateError
}

// HasError returns true if the application has a global error.
func (av AppView) HasError() bool {
	return av.Error != ""
}

// GetActiveKeyBindings returns only the currently active key bindings.
func (av AppView) GetActiveKeyBindings() []KeyBinding {
	var active []KeyBinding
	for _, kb := range av.KeyBindings {
		if kb.IsActive {
			active = append(active, kb)
		}
	}
	return active
}
