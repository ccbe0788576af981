package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ntwoods/dealerdocs/internal/interfaces/http/handlers"
	"github.com/ntwoods/dealerdocs/internal/interfaces/http/middleware"
)

// DealerRouteConfig holds dependencies for dealer record routes.
type DealerRouteConfig struct {
	DealerHandler  *handlers.DealerHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupDealerRoutes configures dealer record routes. Every route needs a
// valid session.
func SetupDealerRoutes(api *gin.RouterGroup, cfg *DealerRouteConfig) {
	dealers := api.Group("/dealers")
	dealers.Use(cfg.AuthMiddleware.RequireSession())
	{
		dealers.GET("", cfg.DealerHandler.List)
		dealers.POST("", cfg.DealerHandler.Submit)
	}
}
