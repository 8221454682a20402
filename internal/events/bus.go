// Package events is a synchronous observer registry for store change
// notifications.
//
// Handlers run on the caller's goroutine in subscription order. A handler
// that panics is logged and skipped; the remaining handlers still run.
// Handlers may subscribe or unsubscribe during dispatch; the change takes
// effect from the next dispatch.
package events

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kairosolo/kprefs/internal/domain"
)

// Subscription identifies a registered handler.
type Subscription uuid.UUID

func (s Subscription) String() string { return uuid.UUID(s).String() }

type handler[T any] struct {
	id Subscription
	fn T
}

// Bus fans out DataChanged and ActiveProfileChanged to subscribers.
type Bus struct {
	mu     sync.Mutex
	data   []handler[func()]
	active []handler[func(string)]
	log    *zap.Logger
}

// NewBus returns an empty Bus.
func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{log: log}
}

// OnDataChanged registers fn to run after every successful mutation.
func (b *Bus) OnDataChanged(fn func()) Subscription {
	id := Subscription(uuid.New())
	b.mu.Lock()
	b.data = append(b.data, handler[func()]{id: id, fn: fn})
	b.mu.Unlock()
	return id
}

// OnActiveProfileChanged registers fn to run after a profile switch.
func (b *Bus) OnActiveProfileChanged(fn func(name string)) Subscription {
	id := Subscription(uuid.New())
	b.mu.Lock()
	b.active = append(b.active, handler[func(string)]{id: id, fn: fn})
	b.mu.Unlock()
	return id
}

// Unsubscribe removes the handler registered under id. It reports whether
// one was found.
func (b *Bus) Unsubscribe(id Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	var found bool
	b.data, found = without(b.data, id)
	if found {
		return true
	}
	b.active, found = without(b.active, id)
	return found
}

// Len returns the number of registered handlers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data) + len(b.active)
}

// DataChanged notifies every DataChanged subscriber.
func (b *Bus) DataChanged() {
	b.mu.Lock()
	hs := append([]handler[func()](nil), b.data...)
	b.mu.Unlock()

	for _, h := range hs {
		b.call(h.id, "DataChanged", h.fn)
	}
}

// ActiveProfileChanged notifies every ActiveProfileChanged subscriber.
func (b *Bus) ActiveProfileChanged(name string) {
	b.mu.Lock()
	hs := append([]handler[func(string)](nil), b.active...)
	b.mu.Unlock()

	for _, h := range hs {
		b.call(h.id, "ActiveProfileChanged", func() { h.fn(name) })
	}
}

func (b *Bus) call(id Subscription, event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				zap.String("event", event),
				zap.Stringer("subscription", id),
				zap.Error(fmt.Errorf("%v", r)))
		}
	}()
	fn()
}

func without[T any](hs []handler[T], id Subscription) ([]handler[T], bool) {
	for i := range hs {
		if hs[i].id == id {
			out := make([]handler[T], 0, len(hs)-1)
			out = append(out, hs[:i]...)
			return append(out, hs[i+1:]...), true
		}
	}
	return hs, false
}

// Compile-time assertion that Bus implements domain.EventSink.
var _ domain.EventSink = (*Bus)(nil)
