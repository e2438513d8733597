package shared

import (
	"context"
	"sync"
)

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in.
	// An empty slice means the handler receives all events.
	EventTypes() []string
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber subscribes to domain events
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
}

// EventBus combines publisher and subscriber capabilities
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// InProcessEventBus dispatches events synchronously to subscribed handlers.
// Handler errors are collected by the caller-provided error callback and do
// not interrupt delivery to other handlers.
type InProcessEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
	catchAll []EventHandler
	onError  func(event DomainEvent, err error)
}

// NewInProcessEventBus creates a new in-process event bus
func NewInProcessEventBus(onError func(event DomainEvent, err error)) *InProcessEventBus {
	return &InProcessEventBus{
		handlers: make(map[string][]EventHandler),
		onError:  onError,
	}
}

// Subscribe registers a handler for specific event types.
// If no event types are provided, the handler's own EventTypes() is used;
// an empty result subscribes it to all events.
func (b *InProcessEventBus) Subscribe(handler EventHandler, eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	if len(eventTypes) == 0 {
		b.catchAll = append(b.catchAll, handler)
		return
	}
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
}

// Publish delivers events to all matching handlers
func (b *InProcessEventBus) Publish(ctx context.Context, events ...DomainEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, event := range events {
		for _, h := range b.handlers[event.EventType()] {
			if err := h.Handle(ctx, event); err != nil && b.onError != nil {
				b.onError(event, err)
			}
		}
		for _, h := range b.catchAll {
			if err := h.Handle(ctx, event); err != nil && b.onError != nil {
				b.onError(event, err)
			}
		}
	}
	return nil
}

var _ EventBus = (*InProcessEventBus)(nil)
