package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/abbrbot/internal/abbr"
	"github.com/mrlokans/abbrbot/internal/bot"
	"github.com/mrlokans/abbrbot/internal/config"
	http_controllers "github.com/mrlokans/abbrbot/internal/http"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until ctx is cancelled or SIGINT/SIGTERM
// arrives, then shuts it down within the configured timeout.
func Serve(ctx context.Context, router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}

// NewPlugin builds the resolver and plugin from configuration.
func NewPlugin(cfg *config.Config, logger *zap.Logger) *bot.Plugin {
	resolver := abbr.NewResolver(cfg.Abbr.APIURL,
		abbr.WithTimeout(cfg.Abbr.Timeout),
		abbr.WithLogger(logger))

	return bot.NewPlugin(resolver, bot.Options{
		IgnorePrefix:  cfg.Abbr.IgnorePrefix,
		CommandPrefix: cfg.Abbr.CommandPrefix,
		Logger:        logger,
	})
}

// Run wires the plugin into the HTTP host and serves until interrupted.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger, version string) error {
	logger.Info("starting abbrbot", zap.String("version", version))

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Abbr.IgnorePrefix {
		logger.Info("keyword listener enabled", zap.Strings("aliases", abbr.Aliases))
	}

	plugin := NewPlugin(cfg, logger)

	gin.SetMode(gin.ReleaseMode)
	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Dispatcher: bot.NewPluginDispatcher(plugin),
		Tools:      []bot.Tool{bot.NewAbbrTool(plugin)},
		APIURL:     cfg.Abbr.APIURL,
		Version:    version,
		Logger:     logger,
	})

	onShutdown := func(context.Context) {
		plugin.Terminate()
	}

	return Serve(ctx, router, cfg, logger, onShutdown)
}
