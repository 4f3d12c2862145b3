package bot

import (
	"context"
	"encoding/json"

	"github.com/mrlokans/abbrbot/internal/abbr"
)

// Tool is a function an LLM runtime may call.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema of the call arguments.
	Parameters() json.RawMessage
	Execute(ctx context.Context, ev Event, params map[string]any) (string, error)
}

var abbrToolParameters = json.RawMessage(`{
  "type": "object",
  "properties": {
    "text": {
      "type": "string",
      "description": "要查询的拼音首字母缩写，只能包含英文字母或数字，例如 yyds"
    }
  }
}`)

type abbrTool struct {
	plugin *Plugin
}

// NewAbbrTool exposes the plugin's lookup as the "abbr" tool.
func NewAbbrTool(p *Plugin) Tool {
	return &abbrTool{plugin: p}
}

func (t *abbrTool) Name() string { return abbr.CommandName }

func (t *abbrTool) Description() string {
	return "查询拼音首字母缩写（如 yyds、hhsh）的含义"
}

func (t *abbrTool) Parameters() json.RawMessage { return abbrToolParameters }

// Execute reads the optional "text" argument; non-string values count as
// missing.
func (t *abbrTool) Execute(ctx context.Context, ev Event, params map[string]any) (string, error) {
	text, _ := params["text"].(string)
	return t.plugin.CallTool(ctx, ev, text)
}
