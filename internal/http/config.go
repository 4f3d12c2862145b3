package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/abbrbot/internal/bot"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	// Chat events
	Dispatcher EventDispatcher

	// LLM tools exposed under /api/tools
	Tools []bot.Tool

	// Health reporting
	APIURL  string
	Version string

	Logger *zap.Logger
}
