package http

import (
	"time"

	"github.com/ntwoods/dealerdocs/internal/interfaces/http/handlers"
	"github.com/ntwoods/dealerdocs/internal/interfaces/http/middleware"
)

func (c *Container) initHandlers() {
	c.authHandler = handlers.NewAuthHandler(c.sessions, c.cfg.Auth, c.log)
	c.dealerHandler = handlers.NewDealerHandler(
		c.ucs.listRecords,
		c.ucs.submitDocuments,
		c.sessions,
		c.cfg.Google.DriveViewBaseURL,
		c.cfg.Upload.MaxFileBytes,
		c.log,
	)

	c.authMiddleware = middleware.NewAuthMiddleware(c.sessions, c.log)
	c.rateLimiter = middleware.NewRateLimiter(c.redis, rateLimitPrefix, c.cfg.Auth.SignInLimit, time.Minute)
}
