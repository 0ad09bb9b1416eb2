package services

import (
	"sync"

	"kiosk-terminal/models"
)

const expiryPlaceholder = "Gültig für --:--"

// Display is the mutable view model of the kiosk screen. Components write
// into it from their timer callbacks; the display API serves snapshots.
type Display struct {
	mu    sync.RWMutex
	state models.DisplayState
}

func NewDisplay() *Display {
	return &Display{
		state: models.DisplayState{
			StatusText: "Zahlungsformular wird erstellt...",
			Badge:      models.BadgePrimary,
			ExpiryText: expiryPlaceholder,
		},
	}
}

func (d *Display) Snapshot() models.DisplayState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

func (d *Display) SetStatus(text string, badge models.BadgeLevel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.StatusText = text
	d.state.Badge = badge
}

func (d *Display) SetError(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.ErrorText = msg
}

func (d *Display) ClearError() {
	d.SetError("")
}

func (d *Display) SetPaymentID(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.PaymentID = id
}

func (d *Display) SetAttemptID(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.AttemptID = id
}

func (d *Display) SetPayload(p *models.GraphicPayload) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Payload = p
}

func (d *Display) SetSuccessBanner(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.SuccessBanner = on
}

func (d *Display) SetCancelNotice(notice string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.CancelNotice = notice
}

func (d *Display) SetExpiryText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.ExpiryText = text
}

func (d *Display) ResetExpiryText() {
	d.SetExpiryText(expiryPlaceholder)
}

func (d *Display) SetOverlay(o *models.CommandOverlay) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Overlay = o
}
