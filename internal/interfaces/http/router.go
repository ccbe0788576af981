package http

import (
	"github.com/ntwoods/dealerdocs/internal/infrastructure/metrics"
	"github.com/ntwoods/dealerdocs/internal/interfaces/http/middleware"
	"github.com/ntwoods/dealerdocs/internal/interfaces/http/routes"
	"github.com/ntwoods/dealerdocs/internal/shared/utils"
)

const maxMultipartMemory = 32 << 20

// SetupRoutes installs the middleware chain and every route.
func (c *Container) SetupRoutes() {
	utils.RegisterBindingTagNames()
	c.engine.MaxMultipartMemory = maxMultipartMemory

	c.engine.Use(middleware.RequestIDMiddleware())
	c.engine.Use(middleware.Logger(c.log))
	c.engine.Use(middleware.Recovery())
	c.engine.Use(metrics.Middleware())
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	routes.SetupOpsRoutes(c.engine)

	api := c.engine.Group("/api")
	api.Use(middleware.SessionScope(c.cfg.Auth))

	routes.SetupAuthRoutes(api, &routes.AuthRouteConfig{
		AuthHandler: c.authHandler,
		RateLimiter: c.rateLimiter,
	})
	routes.SetupDealerRoutes(api, &routes.DealerRouteConfig{
		DealerHandler:  c.dealerHandler,
		AuthMiddleware: c.authMiddleware,
	})
}
