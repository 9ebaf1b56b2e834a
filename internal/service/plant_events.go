package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/target/sharednav/internal/domain/model"
)

// PlantChangedHandler observes committed plant selections.
type PlantChangedHandler func(ctx context.Context, ev model.PlantChangedEvent)

type plantSubscriber struct {
	id uint64
	fn PlantChangedHandler
}

// PlantEvents is an ordered observer list for plant changes.
// A panicking observer is logged and skipped; it never fails the publisher.
type PlantEvents struct {
	mu     sync.RWMutex
	subs   []plantSubscriber
	nextID uint64
	logger *slog.Logger
}

// NewPlantEvents creates an empty observer list.
func NewPlantEvents(logger *slog.Logger) *PlantEvents {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlantEvents{logger: logger}
}

// Subscribe registers fn and returns a func that removes it.
func (e *PlantEvents) Subscribe(fn PlantChangedHandler) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, plantSubscriber{id: id, fn: fn})
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { e.remove(id) })
	}
}

func (e *PlantEvents) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
			return
		}
	}
}

// Len reports the number of subscribers.
func (e *PlantEvents) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs)
}

// Publish calls every subscriber synchronously in registration order.
func (e *PlantEvents) Publish(ctx context.Context, ev model.PlantChangedEvent) {
	e.mu.RLock()
	subs := make([]plantSubscriber, len(e.subs))
	copy(subs, e.subs)
	e.mu.RUnlock()

	for _, s := range subs {
		e.deliver(ctx, s, ev)
	}
}

func (e *PlantEvents) deliver(ctx context.Context, s plantSubscriber, ev model.PlantChangedEvent) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "plant change subscriber panicked",
				"subscriber", s.id,
				"plant_code", ev.PlantCode,
				"error", fmt.Sprint(r),
			)
		}
	}()
	s.fn(ctx, ev)
}
