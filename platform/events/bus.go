// Package events provides a lightweight in-process event bus for decoupling
// domain modules. Publishers fire events without knowing who consumes them.
package events

import (
	"context"
	"sync"

	"leadchat_backend/platform/logger"
)

// Event is a named occurrence with an arbitrary payload.
type Event struct {
	Name    string
	Payload interface{}
}

// Handler processes a single event. Errors are logged, not propagated.
type Handler func(ctx context.Context, ev Event) error

// Bus distributes events to subscribed handlers.
type Bus interface {
	// Publish delivers the event to all subscribers asynchronously.
	Publish(ctx context.Context, ev Event)
	// PublishSync delivers the event to all subscribers before returning.
	PublishSync(ctx context.Context, ev Event)
	// Subscribe registers a handler for the named event.
	Subscribe(name string, h Handler)
}

// InMemoryBus is a process-local Bus backed by a subscriber map.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
	wg       sync.WaitGroup
}

// NewInMemoryBus creates a bus that dispatches within the current process.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

func (b *InMemoryBus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Publish runs handlers in a background goroutine. The caller's request can
// complete while subscribers do their work.
func (b *InMemoryBus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	subs := append([]Handler(nil), b.handlers[ev.Name]...)
	b.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.dispatch(context.WithoutCancel(ctx), ev, subs)
	}()
}

// PublishSync runs handlers inline and returns when all have finished.
func (b *InMemoryBus) PublishSync(ctx context.Context, ev Event) {
	b.mu.RLock()
	subs := append([]Handler(nil), b.handlers[ev.Name]...)
	b.mu.RUnlock()

	b.dispatch(ctx, ev, subs)
}

func (b *InMemoryBus) dispatch(ctx context.Context, ev Event, subs []Handler) {
	for _, h := range subs {
		func(h Handler) {
			defer func() {
				if r := recover(); r != nil && b.log != nil {
					b.log.Error("event handler panicked", "event", ev.Name, "panic", r)
				}
			}()
			if err := h(ctx, ev); err != nil && b.log != nil {
				b.log.Error("event handler failed", "event", ev.Name, "error", err)
			}
		}(h)
	}
}

// Wait blocks until all in-flight async publishes have completed.
// Intended for graceful shutdown and tests.
func (b *InMemoryBus) Wait() {
	b.wg.Wait()
}
