package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kiosk-terminal/config"
	"kiosk-terminal/gateway"
	"kiosk-terminal/metrics"
	"kiosk-terminal/models"
	"kiosk-terminal/scheduler"
)

// PaymentGateway is the slice of the gateway client the lifecycle needs.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.CreatePaymentResponse, error)
	PaymentStatus(ctx context.Context, id string) (*models.PaymentStatusResponse, time.Duration, error)
	Actuate(ctx context.Context) (*models.ActuateResponse, error)
}

// Lifecycle drives the unbounded session cycle: create, poll, expire or
// finish, restart. It owns every session-scoped timer and the generation
// counter that invalidates callbacks of superseded sessions.
type Lifecycle struct {
	cfg     *config.Config
	gw      PaymentGateway
	display *Display
	diag    *DiagnosticsAggregator
	audio   *AudioFeedback
	timings Timings
	logger  *zap.Logger
	now     func() time.Time

	pollTask    scheduler.Task
	expiryTask  scheduler.Task
	restartTask scheduler.Task

	mu         sync.Mutex
	session    *models.Session
	gen        uint64
	cancelling bool
}

func NewLifecycle(cfg *config.Config, gw PaymentGateway, display *Display, diag *DiagnosticsAggregator, audio *AudioFeedback, timings Timings, logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		cfg:     cfg,
		gw:      gw,
		display: display,
		diag:    diag,
		audio:   audio,
		timings: timings,
		logger:  logger,
		now:     time.Now,
	}
}

// Session returns a copy of the current session, if any.
func (l *Lifecycle) Session() *models.Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.session == nil {
		return nil
	}
	copied := *l.session
	return &copied
}

// Start begins the first session cycle. Safe to call from main; creation
// runs on the caller's goroutine like every later restart runs on a timer
// callback.
func (l *Lifecycle) Start() {
	l.start()
}

// Stop invalidates all timers and in-flight callbacks. The lifecycle can be
// restarted with Start.
func (l *Lifecycle) Stop() {
	l.mu.Lock()
	l.gen++
	l.session = nil
	l.mu.Unlock()
	l.pollTask.Stop()
	l.expiryTask.Stop()
	l.restartTask.Stop()
}

// start supersedes any live session: all pending timers are cancelled, the
// gateway diagnostics reset to pending, and a new payment is requested with
// the configured fixed amount.
func (l *Lifecycle) start() {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.session = nil
	l.cancelling = false
	l.mu.Unlock()

	l.pollTask.Stop()
	l.expiryTask.Stop()
	l.restartTask.Stop()
	l.diag.ResetGateway()

	attemptID := uuid.NewString()
	l.display.SetStatus("Zahlungsformular wird erstellt...", models.BadgePrimary)
	l.display.ClearError()
	l.display.SetSuccessBanner(false)
	l.display.SetCancelNotice("")
	l.display.SetPaymentID("")
	l.display.SetAttemptID(attemptID)
	l.display.SetPayload(nil)
	l.display.ResetExpiryText()

	req := models.CreatePaymentRequest{
		AmountCents:        l.cfg.DefaultAmount,
		Currency:           l.cfg.Currency,
		PaymentRedirectURL: l.cfg.RedirectURL,
	}
	resp, err := l.gw.CreatePayment(context.Background(), req)
	if l.stale(gen) {
		return
	}
	if err != nil {
		// Policy: unattended terminal, so creation failures retry
		// automatically after a fixed delay instead of waiting for a
		// manual retry.
		metrics.Sessions.WithLabelValues("create_failed").Inc()
		l.logger.Error("payment creation failed",
			zap.String("attempt_id", attemptID),
			zap.Error(err),
		)
		l.display.SetStatus("Etwas ist schiefgelaufen.", models.BadgeError)
		l.display.SetError("Die Zahlung konnte nicht gestartet werden. Bitte versuche es erneut.")
		l.restartTask.Schedule(l.timings.CreateRetry, l.start)
		return
	}

	l.display.SetStatus("Zahlung wird erstellt...", models.BadgePrimary)

	sess := &models.Session{
		ID:          resp.ID,
		AttemptID:   attemptID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		CreatedAt:   l.now(),
		ExpiresAt:   l.resolveExpiry(resp),
		Status:      models.StatusWaiting,
	}
	l.mu.Lock()
	if l.gen != gen {
		l.mu.Unlock()
		return
	}
	l.session = sess
	l.mu.Unlock()

	l.logger.Info("payment created",
		zap.String("attempt_id", attemptID),
		zap.String("payment_id", resp.ID),
		zap.Int("amount_cents", req.AmountCents),
	)

	if resp.ID != "" {
		l.display.SetPaymentID(resp.ID)
		id := resp.ID
		l.pollTask.Schedule(0, func() { l.pollStatus(gen, id) })
	}
	if !sess.ExpiresAt.IsZero() {
		l.tickExpiry(gen, sess.ExpiresAt)
	}

	payload := ResolveGraphicPayload(resp)
	l.display.SetPayload(&payload)
}

// resolveExpiry prefers the explicit expiry instant and falls back to
// valid_for_minutes from now. Zero means the session never expires locally.
func (l *Lifecycle) resolveExpiry(resp *models.CreatePaymentResponse) time.Time {
	if resp.ExpiresAt != "" {
		if parsed, err := time.Parse(time.RFC3339, resp.ExpiresAt); err == nil {
			return parsed
		}
	}
	if resp.ValidForMinutes > 0 {
		return l.now().Add(time.Duration(resp.ValidForMinutes) * time.Minute)
	}
	return time.Time{}
}

// pollStatus performs one status poll. Exactly one poll is in flight per
// session: the next one is armed only from this callback, and a superseded
// generation returns before touching shared state.
func (l *Lifecycle) pollStatus(gen uint64, id string) {
	if l.stale(gen) {
		return
	}

	resp, latency, err := l.gw.PaymentStatus(context.Background(), id)
	if l.stale(gen) {
		return
	}

	if err != nil {
		// Transport failure: transient, surfaced softly, retried on its
		// own cadence. Not a business failure.
		l.diag.RecordGateway(false, 0)
		l.display.SetError("Der Zahlungsstatus konnte nicht geprüft werden. Wir versuchen es gleich erneut.")
		l.display.SetStatus("Status wird überprüft...", models.BadgeWarning)
		l.logger.Warn("status poll failed", zap.String("payment_id", id), zap.Error(err))
		l.pollTask.Schedule(l.timings.PollRetry, func() { l.pollStatus(gen, id) })
		return
	}

	// Any reply that reached the backend is a healthy gateway sample, no
	// matter what the session status says.
	l.diag.RecordGateway(true, latency)
	l.display.ClearError()

	status := models.ParseSessionStatus(resp.Status)
	l.setSessionStatus(gen, status)

	switch status {
	case models.StatusWaiting:
		l.display.SetStatus("Warten auf Zahlung...", models.BadgeWarning)
		l.pollTask.Schedule(l.timings.PollWaiting, func() { l.pollStatus(gen, id) })
	case models.StatusSuccess:
		l.display.SetStatus("Zahlung erfolgreich", models.BadgeSuccess)
		l.succeed(gen, id)
	case models.StatusFailure:
		metrics.Sessions.WithLabelValues("failure").Inc()
		l.display.SetStatus("Zahlung fehlgeschlagen", models.BadgeError)
		l.audio.PaymentFailure()
		l.pollTask.Stop()
		l.expiryTask.Stop()
		l.logger.Info("payment failed", zap.String("payment_id", id))
		l.restartTask.Schedule(l.timings.FailureRestart, l.start)
	default:
		l.display.SetStatus("Unbekannter Status", models.BadgeWarning)
		l.pollTask.Schedule(l.timings.PollRetry, func() { l.pollStatus(gen, id) })
	}
}

// succeed runs the success path: banner up, dispense confirmation, then
// restart once the banner window elapsed. The actuation call may extend the
// window; its failure degrades the message but never undoes the success.
func (l *Lifecycle) succeed(gen uint64, id string) {
	l.pollTask.Stop()
	l.expiryTask.Stop()
	metrics.Sessions.WithLabelValues("success").Inc()
	l.audio.PaymentSuccess()
	l.display.SetSuccessBanner(true)
	l.display.ResetExpiryText()
	l.logger.Info("payment succeeded", zap.String("payment_id", id))

	bannerTime := time.Duration(l.cfg.SuccessOverlayMs) * time.Millisecond

	resp, err := l.gw.Actuate(context.Background())
	if l.stale(gen) {
		return
	}
	if err != nil {
		bannerTime = l.timings.ActuateFallback
		l.display.SetError(actuationErrorText(err))
		l.logger.Error("actuation failed", zap.String("payment_id", id), zap.Error(err))
	} else if resp.TotalTimeMs > 0 {
		if reported := time.Duration(resp.TotalTimeMs) * time.Millisecond; reported > bannerTime {
			bannerTime = reported
		}
		l.logger.Info("actuator completed", zap.Int("total_time_ms", resp.TotalTimeMs))
	}

	l.restartTask.Schedule(bannerTime, func() {
		l.display.SetSuccessBanner(false)
		l.display.ClearError()
		l.start()
	})
}

// tickExpiry recomputes the remaining time from the absolute expiry instant
// on every tick, so the countdown stays correct even when ticks are delayed
// or skipped.
func (l *Lifecycle) tickExpiry(gen uint64, target time.Time) {
	if l.stale(gen) {
		return
	}
	remaining := target.Sub(l.now())
	if remaining <= 0 {
		metrics.Sessions.WithLabelValues("expired").Inc()
		l.expiryTask.Stop()
		l.display.ResetExpiryText()
		l.logger.Info("session expired")
		// Restart on a fresh timer callback; an already-expired session
		// must not recurse into start on this stack.
		l.restartTask.Schedule(0, l.start)
		return
	}
	l.display.SetExpiryText(formatRemaining(remaining))
	l.expiryTask.Schedule(l.timings.ExpiryTick, func() { l.tickExpiry(gen, target) })
}

// CancelAndRestart short-circuits the running session on an externally
// observed cancel command. Overlapping cancel observations collapse into one
// restart via the single-flight guard.
func (l *Lifecycle) CancelAndRestart(notice string) {
	l.mu.Lock()
	if l.cancelling {
		l.mu.Unlock()
		return
	}
	l.cancelling = true
	l.gen++
	l.session = nil
	l.mu.Unlock()

	metrics.Sessions.WithLabelValues("cancelled").Inc()
	l.pollTask.Stop()
	l.expiryTask.Stop()

	l.display.SetPaymentID("")
	l.display.SetSuccessBanner(false)
	l.display.SetCancelNotice(notice)
	l.display.SetStatus("Zahlung abgebrochen", models.BadgeWarning)
	l.display.ResetExpiryText()
	l.logger.Info("session cancelled by device command")

	l.restartTask.Schedule(l.timings.CancelSettle, l.start)
}

func (l *Lifecycle) stale(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen != gen
}

func (l *Lifecycle) setSessionStatus(gen uint64, status models.SessionStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen == gen && l.session != nil {
		l.session.Status = status
	}
}

func actuationErrorText(err error) string {
	var statusErr *gateway.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return "Fehler beim Ausgeben des Solibändeli. Bitte kontaktiere den Betreiber."
}

func formatRemaining(remaining time.Duration) string {
	mins := int(remaining.Minutes())
	secs := int(remaining.Seconds()) % 60
	return fmt.Sprintf("Gültig für %02d:%02d", mins, secs)
}
