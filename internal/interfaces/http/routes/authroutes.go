package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ntwoods/dealerdocs/internal/interfaces/http/handlers"
	"github.com/ntwoods/dealerdocs/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler *handlers.AuthHandler
	RateLimiter *middleware.RateLimiter
}

// SetupAuthRoutes configures authentication routes.
func SetupAuthRoutes(api *gin.RouterGroup, cfg *AuthRouteConfig) {
	auth := api.Group("/auth")
	{
		auth.POST("/google", cfg.RateLimiter.Limit(), cfg.AuthHandler.SignIn)
		auth.GET("/session", cfg.AuthHandler.Session)
		auth.POST("/logout", cfg.AuthHandler.Logout)
	}
}
