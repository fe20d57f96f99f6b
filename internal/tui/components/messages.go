package components

import (
	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/tui/viewmodel"
)

// OpenDetailMsg requests the detail panel for a merchant. ID is ignored in
// create mode.
type OpenDetailMsg struct {
	ID   string
	Mode viewmodel.DetailMode
}

// CloseDetailMsg requests the detail panel to close without saving.
type CloseDetailMsg struct{}

// MerchantSavedMsg reports a successful save from the detail panel.
type MerchantSavedMsg struct {
	Merchant model.Merchant
	Mode     viewmodel.DetailMode
}

// LoadMoreRequestMsg asks the parent to schedule the next page.
type LoadMoreRequestMsg struct{}

// StatusMsg sets the status line text.
type StatusMsg struct {
	Err  error
	Text string
}
