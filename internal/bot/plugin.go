package bot

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/mrlokans/abbrbot/internal/abbr"
)

// DefaultCommandPrefix marks a message as an explicit command.
const DefaultCommandPrefix = "/"

// Options configures a Plugin.
type Options struct {
	// IgnorePrefix enables the passive keyword listener.
	IgnorePrefix bool
	// CommandPrefix precedes the command word in explicit commands.
	// Empty means DefaultCommandPrefix.
	CommandPrefix string
	Logger        *zap.Logger
}

// Plugin adapts chat events and tool calls onto an abbreviation lookup.
type Plugin struct {
	client        abbr.Client
	ignorePrefix  bool
	commandPrefix string
	logger        *zap.Logger
}

// NewPlugin creates a Plugin backed by client.
func NewPlugin(client abbr.Client, opts Options) *Plugin {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := opts.CommandPrefix
	if prefix == "" {
		prefix = DefaultCommandPrefix
	}
	return &Plugin{
		client:        client,
		ignorePrefix:  opts.IgnorePrefix,
		commandPrefix: prefix,
		logger:        logger.Named("plugin"),
	}
}

// MatchCommand reports whether text is an explicit abbr command and returns
// the text after the command word.
func (p *Plugin) MatchCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, p.commandPrefix) {
		return "", false
	}
	head, rest := splitFirst(strings.TrimPrefix(text, p.commandPrefix))
	if !abbr.IsAlias(head) {
		return "", false
	}
	return rest, true
}

// matchKeyword is the prefix-less form used by the passive listener.
func matchKeyword(text string) (string, bool) {
	head, rest := splitFirst(text)
	if !abbr.IsAlias(strings.ToLower(head)) {
		return "", false
	}
	return rest, true
}

// HandleCommand answers an explicit command. Messages that are not an abbr
// command are left untouched.
func (p *Plugin) HandleCommand(ctx context.Context, ev Event) error {
	rest, ok := p.MatchCommand(ev.Text())
	if !ok {
		return nil
	}
	return p.respond(ctx, ev, "command", rest)
}

// HandleMessage is the passive keyword listener. It does nothing unless
// IgnorePrefix is set.
func (p *Plugin) HandleMessage(ctx context.Context, ev Event) error {
	if !p.ignorePrefix || ev.Stopped() {
		return nil
	}
	rest, ok := matchKeyword(ev.Text())
	if !ok {
		return nil
	}
	return p.respond(ctx, ev, "keyword", rest)
}

// CallTool answers an LLM tool call. A nil event skips the chat reply.
func (p *Plugin) CallTool(ctx context.Context, ev Event, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		if ev != nil {
			ev.Reply(abbr.MsgMissingArgument)
			ev.Stop()
		}
		return abbr.MsgMissingArgument, nil
	}

	res, err := p.lookup(ctx, "tool", text)
	if err != nil {
		return "", err
	}
	if ev != nil {
		ev.Reply(res.Reply)
		ev.Stop()
	}
	return res.Reply, nil
}

// Terminate is called when the plugin is unloaded.
func (p *Plugin) Terminate() {
	p.logger.Info("plugin terminated")
}

func (p *Plugin) respond(ctx context.Context, ev Event, trigger, text string) error {
	res, err := p.lookup(ctx, trigger, text)
	if err != nil {
		return err
	}
	ev.Reply(res.Reply)
	ev.Stop()
	return nil
}

func (p *Plugin) lookup(ctx context.Context, trigger, text string) (abbr.Result, error) {
	res, err := p.client.Lookup(ctx, text)
	if err != nil {
		return abbr.Result{}, err
	}
	p.logger.Debug("lookup finished",
		zap.String("trigger", trigger),
		zap.String("text", text),
		zap.String("outcome", string(res.Outcome)))
	return res, nil
}

// splitFirst splits trimmed text at the first run of whitespace.
func splitFirst(text string) (head, rest string) {
	text = strings.TrimSpace(text)
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i:])
}
