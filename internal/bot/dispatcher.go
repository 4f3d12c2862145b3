package bot

import (
	"context"
)

// HandlerFunc processes one inbound event.
type HandlerFunc func(ctx context.Context, ev Event) error

// Dispatcher runs handlers in registration order until one stops the event.
type Dispatcher struct {
	handlers []HandlerFunc
}

func NewDispatcher(handlers ...HandlerFunc) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

// NewPluginDispatcher routes explicit commands first, then the passive
// keyword listener.
func NewPluginDispatcher(p *Plugin) *Dispatcher {
	return NewDispatcher(p.HandleCommand, p.HandleMessage)
}

// Dispatch returns the first handler error; handlers after it do not run.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	for _, h := range d.handlers {
		if ev.Stopped() {
			return nil
		}
		if err := h(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
