package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	appsession "github.com/ntwoods/dealerdocs/internal/application/session"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/auth"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/config"
	"github.com/ntwoods/dealerdocs/internal/interfaces/http/handlers"
	"github.com/ntwoods/dealerdocs/internal/interfaces/http/middleware"
	"github.com/ntwoods/dealerdocs/internal/shared/goroutine"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

// Container holds every component of the HTTP service, wires them together
// and releases them on Shutdown.
type Container struct {
	engine *gin.Engine
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client // nil unless redis.enabled

	infra *infrastructure
	ucs   *useCases

	sessions *appsession.Manager

	authHandler   *handlers.AuthHandler
	dealerHandler *handlers.DealerHandler

	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
}

// NewContainer builds the service from cfg. The configuration must already
// have passed Validate.
func NewContainer(cfg *config.Config, log logger.Interface) (*Container, error) {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	c := &Container{
		engine: gin.New(),
		cfg:    cfg,
		log:    log,
	}

	if cfg.Redis.Enabled {
		client, err := initRedis(cfg, log)
		if err != nil {
			return nil, err
		}
		c.redis = client
	}

	c.infra = newInfrastructure(cfg, c.redis, log)
	c.initUseCases()
	c.initHandlers()
	c.SetupRoutes()

	return c, nil
}

// Handler returns the HTTP handler serving every route.
func (c *Container) Handler() http.Handler {
	return c.engine
}

// Engine exposes the gin engine for tests.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// WarmUp starts loading the identity provider's discovery document in the
// background so the first sign-in does not pay for it.
func (c *Container) WarmUp() {
	goroutine.SafeGo(c.log, "identity-provider-warmup", func() {
		ctx, cancel := context.WithTimeout(context.Background(), auth.ReadyTimeout)
		defer cancel()
		if _, err := c.infra.identityProvider.Ready(ctx); err != nil {
			c.log.Warnw("identity provider not ready at startup", "error", err)
		}
	})
}

// Shutdown releases external connections.
func (c *Container) Shutdown(_ context.Context) error {
	var errs []error
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
