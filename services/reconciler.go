package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"kiosk-terminal/metrics"
	"kiosk-terminal/models"
	"kiosk-terminal/scheduler"
)

// DeviceStatusSource is the slice of the gateway client the reconciler needs.
type DeviceStatusSource interface {
	DeviceStatus(ctx context.Context) (*models.DeviceStatusResponse, error)
}

// SessionCanceller is the lifecycle entry point a cancel command delegates to.
type SessionCanceller interface {
	CancelAndRestart(notice string)
}

const commandCancel = "cancel"

// Overlay texts for the known maintenance commands. Unrecognized commands
// fall back to a generic "running" line so the operator still sees activity.
var commandDisplayText = map[string]string{
	"extend":  "Bändeli wird ausgegeben...",
	"retract": "Ausgabearm wird eingezogen...",
	"home":    "Gerät fährt in Grundstellung...",
}

const messagePlaceholder = "Hinweis vom Betreiber"

// DeviceCommandReconciler polls the backend-reported device command on its
// own cadence and keeps the kiosk overlay consistent with it. Very short
// command reports flap: the backend may briefly report no command between two
// polls of the same run. The overlay therefore holds for a minimum duration
// from first observation before it may clear.
type DeviceCommandReconciler struct {
	source    DeviceStatusSource
	display   *Display
	audio     *AudioFeedback
	canceller SessionCanceller
	timings   Timings
	logger    *zap.Logger
	now       func() time.Time

	task scheduler.Task

	mu        sync.Mutex
	running   bool
	held      string    // normalized command currently displayed
	heldText  string
	heldSince time.Time // first observation of the held command
}

func NewDeviceCommandReconciler(source DeviceStatusSource, display *Display, audio *AudioFeedback, canceller SessionCanceller, timings Timings, logger *zap.Logger) *DeviceCommandReconciler {
	return &DeviceCommandReconciler{
		source:    source,
		display:   display,
		audio:     audio,
		canceller: canceller,
		timings:   timings,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *DeviceCommandReconciler) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()
	r.task.Schedule(0, r.poll)
}

func (r *DeviceCommandReconciler) Stop() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
	r.task.Stop()
}

func (r *DeviceCommandReconciler) poll() {
	resp, err := r.source.DeviceStatus(context.Background())

	delay := r.timings.DevicePoll
	if err != nil {
		// Transport failures never stop the loop and are not an
		// observation: the current overlay stays untouched.
		delay = r.timings.DevicePollRetry
		r.logger.Warn("device status poll failed", zap.Error(err))
	} else {
		r.observe(resp.ExecutingCommand)
	}

	r.mu.Lock()
	running := r.running
	r.mu.Unlock()
	if running {
		r.task.Schedule(delay, r.poll)
	}
}

func (r *DeviceCommandReconciler) observe(cmd *models.ExecutingCommand) {
	now := r.now()

	if cmd == nil || strings.TrimSpace(cmd.Command) == "" {
		r.observeIdle(now)
		return
	}

	name := strings.ToLower(strings.TrimSpace(cmd.Command))
	if name == commandCancel {
		// Never shown; delegates straight to the lifecycle.
		r.clearHeld()
		metrics.DeviceCommands.WithLabelValues(name).Inc()
		r.canceller.CancelAndRestart("Zahlung wurde abgebrochen.")
		return
	}

	r.mu.Lock()
	same := r.held == name
	if same {
		// Same command is not a new event; the hold clock keeps running
		// from its first observation. Only a changed message refreshes
		// the overlay text.
		text := overlayText(name, cmd.Message)
		changed := text != r.heldText
		if changed {
			r.heldText = text
		}
		r.mu.Unlock()
		if changed {
			r.display.SetOverlay(&models.CommandOverlay{Command: name, Text: text})
		}
		return
	}

	// A different command takes over immediately and resets the hold clock.
	previous := r.held
	text := overlayText(name, cmd.Message)
	r.held = name
	r.heldText = text
	r.heldSince = now
	r.mu.Unlock()

	metrics.DeviceCommands.WithLabelValues(name).Inc()
	if previous != "" {
		r.audio.CommandDone(previous)
	}
	r.audio.CommandStart(name)
	r.display.SetOverlay(&models.CommandOverlay{Command: name, Text: text})
	r.logger.Info("device command observed",
		zap.String("command", name),
		zap.String("previous", previous),
	)
}

func (r *DeviceCommandReconciler) observeIdle(now time.Time) {
	r.mu.Lock()
	if r.held == "" {
		r.mu.Unlock()
		return
	}
	if now.Sub(r.heldSince) < r.timings.OverlayHold {
		// Reporting gap shorter than the hold window; keep showing it.
		r.mu.Unlock()
		return
	}
	finished := r.held
	r.held = ""
	r.heldText = ""
	r.mu.Unlock()

	r.display.SetOverlay(nil)
	r.audio.CommandDone(finished)
	r.logger.Info("device command finished", zap.String("command", finished))
}

func (r *DeviceCommandReconciler) clearHeld() {
	r.mu.Lock()
	r.held = ""
	r.heldText = ""
	r.mu.Unlock()
	r.display.SetOverlay(nil)
}

func overlayText(name, message string) string {
	if name == "message" {
		if strings.TrimSpace(message) != "" {
			return message
		}
		return messagePlaceholder
	}
	if text, ok := commandDisplayText[name]; ok {
		return text
	}
	return fmt.Sprintf("Befehl läuft: %s", name)
}
