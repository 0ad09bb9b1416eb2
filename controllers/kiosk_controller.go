package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kiosk-terminal/services"
)

// KioskController serves the view model the kiosk front-end polls, plus the
// diagnostics panel and the interaction hook that unlocks audio.
type KioskController struct {
	Display   *services.Display
	Diag      *services.DiagnosticsAggregator
	Audio     *services.AudioFeedback
	Lifecycle *services.Lifecycle
	Logger    *zap.Logger
}

// GetDisplay returns the full display snapshot.
func (k *KioskController) GetDisplay(c *gin.Context) {
	c.JSON(http.StatusOK, k.Display.Snapshot())
}

// GetDiagnostics returns both health tracks.
func (k *KioskController) GetDiagnostics(c *gin.Context) {
	c.JSON(http.StatusOK, k.Diag.Report())
}

// PostInteraction records a user touch. The first one unlocks the audio
// engine; host audio policy requires a user gesture before playback.
func (k *KioskController) PostInteraction(c *gin.Context) {
	k.Audio.Unlock()
	c.JSON(http.StatusOK, gin.H{"audio_unlocked": k.Audio.Unlocked()})
}

// GetHealth is the liveness endpoint.
func (k *KioskController) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
