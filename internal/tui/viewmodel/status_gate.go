package viewmodel

import (
	"errors"

	"github.com/Veraticus/merchant-ops/internal/model"
)

// ErrConfirmationPending is returned when a status change is requested while
// a hazardous change is still awaiting confirmation.
var ErrConfirmationPending = errors.New("a status change is awaiting confirmation")

// GateState is the confirmation state of a StatusGate.
type GateState int

const (
	// GateIdle means no status change is held.
	GateIdle GateState = iota
	// GatePendingConfirmation means an activation of a high-risk merchant is held.
	GatePendingConfirmation
)

// StatusGate holds a requested activation of a high-risk merchant until the
// operator confirms it. The held value and the applied value are kept apart.
type StatusGate struct {
	held  model.MerchantStatus
	state GateState
}

// State returns the gate's current state.
func (g *StatusGate) State() GateState {
	return g.state
}

// Pending returns true while a confirmation is outstanding.
func (g *StatusGate) Pending() bool {
	return g.state == GatePendingConfirmation
}

// Held returns the status awaiting confirmation, if any.
func (g *StatusGate) Held() (model.MerchantStatus, bool) {
	return g.held, g.state == GatePendingConfirmation
}

// Request asks for target given the merchant's effective risk. It returns
// true when target may be applied right away and false when it is now held
// for confirmation.
func (g *StatusGate) Request(target model.MerchantStatus, risk model.RiskLevel) (bool, error) {
	if g.state == GatePendingConfirmation {
		return false, ErrConfirmationPending
	}
	if target == model.StatusActive && risk == model.RiskHigh {
		g.held = target
		g.state = GatePendingConfirmation
		return false, nil
	}
	return true, nil
}

// Confirm releases the held status.
func (g *StatusGate) Confirm() (model.MerchantStatus, bool) {
	if g.state != GatePendingConfirmation {
		return "", false
	}
	status := g.held
	g.Reset()
	return status, true
}

// Cancel discards the held status.
func (g *StatusGate) Cancel() {
	g.Reset()
}

// Reset returns the gate to idle.
func (g *StatusGate) Reset() {
	g.held = ""
	g.state = GateIdle
}
