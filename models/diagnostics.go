package models

import "time"

// HealthStatus is the three-valued state of one diagnostics track.
type HealthStatus string

const (
	HealthPending HealthStatus = "pending"
	HealthOK      HealthStatus = "ok"
	HealthBad     HealthStatus = "bad"
)

// HealthSample is the presentable state of a diagnostics track. LatencyMs is
// nil when the last attempt never reached the remote side.
type HealthSample struct {
	Status    HealthStatus `json:"status"`
	LastAt    *time.Time   `json:"last_at,omitempty"`
	LatencyMs *int64       `json:"latency_ms,omitempty"`
}

// DiagnosticsReport bundles both independent health tracks.
type DiagnosticsReport struct {
	Gateway      HealthSample `json:"gateway"`
	Connectivity HealthSample `json:"connectivity"`
}
