package services

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Tone is one note of a feedback cue.
type Tone struct {
	FreqHz   float64
	Duration time.Duration
}

// ToneEngine plays a tone sequence. Implementations must be safe for
// concurrent use; playback blocks until the sequence finished.
type ToneEngine interface {
	Play(tones []Tone)
}

// Cue tone tables. Keys are rate-limited independently, so unrelated cues
// never suppress one another.
var (
	tonesPaymentSuccess = []Tone{{660, 120 * time.Millisecond}, {880, 120 * time.Millisecond}, {1100, 160 * time.Millisecond}}
	tonesPaymentFailure = []Tone{{520, 160 * time.Millisecond}, {390, 220 * time.Millisecond}}
	tonesCommandStart   = []Tone{{440, 90 * time.Millisecond}, {660, 120 * time.Millisecond}}
	tonesCommandDone    = []Tone{{660, 100 * time.Millisecond}, {990, 140 * time.Millisecond}}
)

// AudioFeedback owns the lazily-created tone engine and the per-key rate
// limiter. The engine is only created after Unlock, the Go-side analog of
// the first user interaction; if creation fails every cue degrades to a
// silent no-op.
type AudioFeedback struct {
	mu        sync.Mutex
	engine    ToneEngine
	newEngine func() (ToneEngine, error)
	limiters  map[string]*rate.Limiter
	window    time.Duration
	logger    *zap.Logger
	unlocked  bool
}

func NewAudioFeedback(newEngine func() (ToneEngine, error), throttle time.Duration, logger *zap.Logger) *AudioFeedback {
	return &AudioFeedback{
		newEngine: newEngine,
		limiters:  make(map[string]*rate.Limiter),
		window:    throttle,
		logger:    logger,
	}
}

// Unlock creates the engine on first call. Repeated calls are no-ops, as is
// a failed creation: the kiosk never surfaces audio errors to the customer.
func (a *AudioFeedback) Unlock() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unlocked {
		return
	}
	a.unlocked = true

	engine, err := a.newEngine()
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("audio engine unavailable, cues disabled", zap.Error(err))
		}
		return
	}
	a.engine = engine
}

// Unlocked reports whether Unlock ran, regardless of engine availability.
func (a *AudioFeedback) Unlocked() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.unlocked
}

func (a *AudioFeedback) PaymentSuccess() {
	a.play("paymentSuccess", tonesPaymentSuccess)
}

func (a *AudioFeedback) PaymentFailure() {
	a.play("paymentFailure", tonesPaymentFailure)
}

func (a *AudioFeedback) CommandStart(command string) {
	a.play("commandStart:"+command, tonesCommandStart)
}

func (a *AudioFeedback) CommandDone(command string) {
	a.play("commandDone:"+command, tonesCommandDone)
}

func (a *AudioFeedback) play(key string, tones []Tone) {
	a.mu.Lock()
	limiter, ok := a.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(a.window), 1)
		a.limiters[key] = limiter
	}
	engine := a.engine
	a.mu.Unlock()

	if !limiter.Allow() {
		return
	}
	if engine == nil {
		return
	}
	go engine.Play(tones)
}
