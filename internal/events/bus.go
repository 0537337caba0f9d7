package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Event is anything the sections exchange over the bus.
type Event interface {
	Name() string
}

// Handler receives a published event.
type Handler func(ctx context.Context, ev Event)

// Bus is a synchronous publish/subscribe hub. Handlers run on the publishing
// goroutine, in subscription order, exactly once per publish. There is no
// queueing: by the time Publish returns, every subscriber has seen the event.
type Bus struct {
	mu     sync.Mutex
	subs   map[string][]Handler
	logger *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		subs:   make(map[string][]Handler),
		logger: logger,
	}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[name] = append(b.subs[name], h)
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.Lock()
	handlers := make([]Handler, len(b.subs[ev.Name()]))
	copy(handlers, b.subs[ev.Name()])
	b.mu.Unlock()

	b.logger.Debug("Publishing event",
		zap.String("event", ev.Name()),
		zap.Int("subscribers", len(handlers)))

	for _, h := range handlers {
		h(ctx, ev)
	}
}

// On subscribes a typed handler for one event type.
func On[T Event](b *Bus, fn func(ctx context.Context, ev T)) {
	var zero T
	b.Subscribe(zero.Name(), func(ctx context.Context, ev Event) {
		if typed, ok := ev.(T); ok {
			fn(ctx, typed)
		}
	})
}
