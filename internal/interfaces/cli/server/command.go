package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ntwoods/dealerdocs/internal/infrastructure/config"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/metrics"
	httpapi "github.com/ntwoods/dealerdocs/internal/interfaces/http"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
	"github.com/ntwoods/dealerdocs/internal/shared/version"
)

const shutdownTimeout = 30 * time.Second

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the DealerDocs HTTP API. Refuses to start while required configuration is missing.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(MapEnvToGinMode(env))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := cfg.Validate(); err != nil {
		log.Errorw("configuration incomplete, refusing to start", "error", err)
		return err
	}

	log.Infow("starting server", "version", version.String(), "environment", env, "mode", cfg.Server.Mode, "redis", cfg.Redis.Enabled)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	metrics.Init()

	container, err := httpapi.NewContainer(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	container.WarmUp()

	// Uploads of a large batch can take minutes, so there is no write
	// timeout.
	srv := &http.Server{
		Addr:              cfg.Server.GetAddr(),
		Handler:           container.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server listening", "address", cfg.Server.GetAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			log.Errorw("server failed", "error", err)
			_ = container.Shutdown(context.Background())
			return err
		}
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}
	if err := container.Shutdown(ctx); err != nil {
		log.Warnw("failed to release resources", "error", err)
	}

	log.Infow("server exited gracefully")
	return nil
}

// MapEnvToGinMode maps an environment name to a gin mode.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return gin.ReleaseMode
	case "test", "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
