package models

import "time"

// ExecutingCommand is the device command the gateway reports as currently
// running on the physical unit. The terminal only observes and displays it.
type ExecutingCommand struct {
	Command string `json:"command"`
	Message string `json:"message,omitempty"`
}

type DeviceStatusResponse struct {
	ExecutingCommand *ExecutingCommand `json:"executing_command"`
	Error            string            `json:"error"`
}

// CommandObservation captures one reconciler poll result.
type CommandObservation struct {
	Command    string    `json:"command"`
	Message    string    `json:"message"`
	ObservedAt time.Time `json:"observed_at"`
}
