package bot

// Event is an inbound chat message as seen by a handler.
type Event interface {
	Text() string
	Reply(text string)
	// Stop marks the event as handled; later handlers must skip it.
	Stop()
	Stopped() bool
}

// MessageEvent is an in-memory Event that collects replies.
type MessageEvent struct {
	ID      string
	Message string

	replies []string
	stopped bool
}

func NewMessageEvent(id, message string) *MessageEvent {
	return &MessageEvent{ID: id, Message: message}
}

func (e *MessageEvent) Text() string { return e.Message }

func (e *MessageEvent) Reply(text string) { e.replies = append(e.replies, text) }

func (e *MessageEvent) Stop() { e.stopped = true }

func (e *MessageEvent) Stopped() bool { return e.stopped }

// Replies returns the replies emitted so far, never nil.
func (e *MessageEvent) Replies() []string {
	if e.replies == nil {
		return []string{}
	}
	return e.replies
}
