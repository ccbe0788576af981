package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ntwoods/dealerdocs/internal/infrastructure/metrics"
)

// SetupOpsRoutes exposes liveness and Prometheus metrics outside /api.
func SetupOpsRoutes(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))
}
