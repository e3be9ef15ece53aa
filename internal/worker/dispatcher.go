package worker

import (
	"context"
	"fmt"
)

// HandlerFunc decodes a message payload into a typed event and executes one
// idempotent local command against the service's own store.
type HandlerFunc func(ctx context.Context, payload []byte) error

// Dispatcher maps topics to handlers. There is no generic dedup table;
// idempotency is each handler's responsibility (upsert by key, or
// existence-check plus uniqueness constraint).
type Dispatcher struct {
	handlers map[string]HandlerFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]HandlerFunc)}
}

func (d *Dispatcher) Register(topic string, h HandlerFunc) {
	d.handlers[topic] = h
}

// Dispatch routes one payload. An unregistered topic is a wiring error.
func (d *Dispatcher) Dispatch(ctx context.Context, topic string, payload []byte) error {
	h, ok := d.handlers[topic]
	if !ok {
		return fmt.Errorf("no handler registered for topic %q", topic)
	}
	return h(ctx, payload)
}
