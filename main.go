package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"kiosk-terminal/config"
	"kiosk-terminal/controllers"
	"kiosk-terminal/gateway"
	"kiosk-terminal/logger"
	"kiosk-terminal/middleware"
	"kiosk-terminal/routes"
	"kiosk-terminal/services"
)

func main() {
	// Load configuration
	if err := godotenv.Load(); err != nil {
		log.Println("[KioskTerminal] No .env file found, using environment")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[KioskTerminal] ❌ Failed to load config:", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Env)
	defer logger.Sync()

	timings := services.DefaultTimings()

	// Gateway client + core components
	gw := gateway.NewClient(cfg.GatewayURL, cfg.GatewayAPIKey, logger.Log)
	display := services.NewDisplay()
	diag := services.NewDiagnosticsAggregator(cfg.ProbeURL, timings, logger.Log)
	audio := services.NewAudioFeedback(services.NewOtoEngine, timings.AudioThrottle, logger.Log)

	lifecycle := services.NewLifecycle(cfg, gw, display, diag, audio, timings, logger.Log)
	reconciler := services.NewDeviceCommandReconciler(gw, display, audio, lifecycle, timings, logger.Log)

	// Start the background loops
	diag.StartProbe()
	reconciler.Start()
	go lifecycle.Start()

	// HTTP server
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.CORS())

	kc := &controllers.KioskController{
		Display:   display,
		Diag:      diag,
		Audio:     audio,
		Lifecycle: lifecycle,
		Logger:    logger.Log,
	}
	routes.RegisterKioskRoutes(r, kc)

	log.Println("[KioskTerminal] ✅ Running on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[KioskTerminal] ❌ Server failed:", err)
	}
}
