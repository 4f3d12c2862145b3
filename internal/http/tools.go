package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/abbrbot/internal/bot"
)

type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type ToolCallResponse struct {
	Name    string `json:"name"`
	Result  string `json:"result"`
	Handled bool   `json:"handled"`
}

type ToolsController struct {
	tools  []bot.Tool
	byName map[string]bot.Tool
	logger *zap.Logger
}

func NewToolsController(tools []bot.Tool, logger *zap.Logger) *ToolsController {
	if logger == nil {
		logger = zap.NewNop()
	}
	byName := make(map[string]bot.Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}
	return &ToolsController{
		tools:  tools,
		byName: byName,
		logger: logger,
	}
}

// List returns the tool descriptors in registration order.
func (tc *ToolsController) List(c *gin.Context) {
	descriptors := make([]ToolDescriptor, 0, len(tc.tools))
	for _, t := range tc.tools {
		descriptors = append(descriptors, ToolDescriptor{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	c.JSON(http.StatusOK, descriptors)
}

// Call executes a tool with the JSON object in the request body as its
// arguments. An empty body means no arguments.
func (tc *ToolsController) Call(c *gin.Context) {
	name := c.Param("name")
	tool, ok := tc.byName[name]
	if !ok {
		respondNotFound(c, "tool")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, "failed to read request body")
		return
	}
	var params map[string]any
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &params); err != nil {
			respondBadRequest(c, "arguments must be a JSON object")
			return
		}
	}

	ev := bot.NewMessageEvent("", "")
	result, err := tool.Execute(c.Request.Context(), ev, params)
	if err != nil {
		respondLookupError(c, tc.logger, err, zap.String("tool", name))
		return
	}

	c.JSON(http.StatusOK, ToolCallResponse{
		Name:    name,
		Result:  result,
		Handled: ev.Stopped(),
	})
}
