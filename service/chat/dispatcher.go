package chat

import (
	"context"
	"fmt"
)

// Handler processes one named client event on an authenticated session.
type Handler interface {
	Event() string
	Handle(ctx context.Context, sess *Session, f *Frame) error
}

type Dispatcher struct {
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

func (d *Dispatcher) Register(h Handler) { d.handlers[h.Event()] = h }

func (d *Dispatcher) Dispatch(ctx context.Context, sess *Session, f *Frame) error {
	h, ok := d.handlers[f.Event]
	if !ok {
		return fmt.Errorf("no handler for event=%q", f.Event)
	}
	return h.Handle(ctx, sess, f)
}

func (d *Dispatcher) GetHandler(event string) Handler {
	return d.handlers[event]
}
