package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.APIURL, cfg.Version)
	router.GET("/health", healthController.Status)

	api := router.Group("/api")
	{
		eventsController := NewEventsController(cfg.Dispatcher, logger)
		api.POST("/events", eventsController.Handle)

		toolsController := NewToolsController(cfg.Tools, logger)
		api.GET("/tools", toolsController.List)
		api.POST("/tools/:name", toolsController.Call)
	}

	return router
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
