// Package eventbus is the in-process publish/subscribe fan-out for order
// lifecycle events.
package eventbus

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ariefcatur/go-food-orders.git/internal/orders"
)

// Observer receives events synchronously on the publishing goroutine.
type Observer interface {
	Handle(ctx context.Context, ev orders.Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, ev orders.Event)

func (f ObserverFunc) Handle(ctx context.Context, ev orders.Event) { f(ctx, ev) }

// Bus is an explicit instance; construct one per process (or per test) and
// pass it where it is needed.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Observer
}

func New() *Bus {
	return &Bus{subs: make(map[string][]Observer)}
}

func (b *Bus) Subscribe(eventName string, obs Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventName] = append(b.subs[eventName], obs)
}

// Notify delivers ev to every subscriber of ev.Name, in subscription order.
// Best-effort only: no retry, no backpressure. A panicking observer is
// logged and skipped so the rest still get the event.
func (b *Bus) Notify(ctx context.Context, ev orders.Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	subs := make([]Observer, len(b.subs[ev.Name]))
	copy(subs, b.subs[ev.Name])
	b.mu.RUnlock()

	for _, obs := range subs {
		deliver(ctx, obs, ev)
	}
}

func deliver(ctx context.Context, obs Observer, ev orders.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("eventbus: observer panicked on %s: %v", ev.Name, r)
		}
	}()
	obs.Handle(ctx, ev)
}
