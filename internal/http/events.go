package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrlokans/abbrbot/internal/bot"
)

// EventDispatcher routes an inbound chat event to the plugin handlers.
type EventDispatcher interface {
	Dispatch(ctx context.Context, ev bot.Event) error
}

type EventRequest struct {
	ID      string `json:"id"`
	Message string `json:"message" binding:"required"`
}

type EventResponse struct {
	ID      string   `json:"id"`
	Handled bool     `json:"handled"`
	Replies []string `json:"replies"`
}

type EventsController struct {
	dispatcher EventDispatcher
	logger     *zap.Logger
}

func NewEventsController(dispatcher EventDispatcher, logger *zap.Logger) *EventsController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventsController{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle accepts one chat message and returns the plugin's replies.
func (ec *EventsController) Handle(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "message is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	ev := bot.NewMessageEvent(req.ID, req.Message)
	if err := ec.dispatcher.Dispatch(c.Request.Context(), ev); err != nil {
		respondLookupError(c, ec.logger, err, zap.String("event_id", req.ID))
		return
	}

	c.JSON(http.StatusOK, EventResponse{
		ID:      req.ID,
		Handled: ev.Stopped(),
		Replies: ev.Replies(),
	})
}
