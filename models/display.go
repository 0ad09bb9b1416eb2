package models

// BadgeLevel mirrors the severity styling of the kiosk status line.
type BadgeLevel string

const (
	BadgePrimary BadgeLevel = "primary"
	BadgeInfo    BadgeLevel = "info"
	BadgeWarning BadgeLevel = "warning"
	BadgeSuccess BadgeLevel = "success"
	BadgeError   BadgeLevel = "error"
)

// CommandOverlay is the device-command notice shown on top of the kiosk UI.
type CommandOverlay struct {
	Command string `json:"command"`
	Text    string `json:"text"`
}

// DisplayState is the full view model the kiosk front-end renders. It
// replaces direct DOM manipulation: components write here, the display API
// serves snapshots.
type DisplayState struct {
	StatusText    string          `json:"status_text"`
	Badge         BadgeLevel      `json:"badge"`
	ErrorText     string          `json:"error_text,omitempty"`
	PaymentID     string          `json:"payment_id,omitempty"`
	AttemptID     string          `json:"attempt_id,omitempty"`
	SuccessBanner bool            `json:"success_banner"`
	CancelNotice  string          `json:"cancel_notice,omitempty"`
	ExpiryText    string          `json:"expiry_text"`
	Payload       *GraphicPayload `json:"payload,omitempty"`
	Overlay       *CommandOverlay `json:"overlay,omitempty"`
}
