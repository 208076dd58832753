package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownEventType is returned when publishing an event outside AllEventTypes.
var ErrUnknownEventType = errors.New("unknown account event type")

// EventHandler handles a published account event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans account events out to subscribers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe registers handler for the given types, or for every
	// account event when no types are given.
	Subscribe(handler EventHandler, types ...EventType)
}

type accountDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
}

// NewInMemoryDispatcher creates a synchronous in-process dispatcher.
func NewInMemoryDispatcher() Dispatcher {
	return &accountDispatcher{
		listeners: make(map[EventType][]EventHandler, len(AllEventTypes)),
	}
}

// Publish runs every handler subscribed to event.Type in subscription order.
// A failing handler does not stop the rest; all failures are joined.
func (d *accountDispatcher) Publish(ctx context.Context, event Event) error {
	if !event.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEventType, event.Type)
	}

	d.mu.RLock()
	handlers := append([]EventHandler(nil), d.listeners[event.Type]...)
	d.mu.RUnlock()

	var errs []error
	for i, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%s handler %d: %w", event.Type, i, err))
		}
	}
	return errors.Join(errs...)
}

func (d *accountDispatcher) Subscribe(handler EventHandler, types ...EventType) {
	if handler == nil {
		return
	}
	if len(types) == 0 {
		types = AllEventTypes
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, eventType := range types {
		d.listeners[eventType] = append(d.listeners[eventType], handler)
	}
}
