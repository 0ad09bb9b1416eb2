package routes

import (
	"github.com/gin-gonic/gin"

	"kiosk-terminal/controllers"
	"kiosk-terminal/metrics"
)

func RegisterKioskRoutes(r *gin.Engine, kc *controllers.KioskController) {
	api := r.Group("/api")
	api.GET("/display", kc.GetDisplay)
	api.GET("/diagnostics", kc.GetDiagnostics)
	api.POST("/interaction", kc.PostInteraction)

	r.GET("/healthz", kc.GetHealth)
	r.GET("/metrics", metrics.Handler())
}
