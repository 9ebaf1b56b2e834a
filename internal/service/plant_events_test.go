package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/target/sharednav/internal/domain/model"
)

func TestPlantEvents_PublishInOrder(t *testing.T) {
	events := NewPlantEvents(nil)
	var got []string

	events.Subscribe(func(_ context.Context, ev model.PlantChangedEvent) { got = append(got, "a:"+ev.PlantCode) })
	events.Subscribe(func(_ context.Context, ev model.PlantChangedEvent) { got = append(got, "b:"+ev.PlantCode) })

	events.Publish(context.Background(), model.PlantChangedEvent{PlantCode: "HmjP"})

	assert.Equal(t, []string{"a:HmjP", "b:HmjP"}, got)
}

func TestPlantEvents_PanickingSubscriberIsIsolated(t *testing.T) {
	events := NewPlantEvents(nil)
	called := false

	events.Subscribe(func(context.Context, model.PlantChangedEvent) { panic("boom") })
	events.Subscribe(func(context.Context, model.PlantChangedEvent) { called = true })

	assert.NotPanics(t, func() {
		events.Publish(context.Background(), model.PlantChangedEvent{PlantCode: "A"})
	})
	assert.True(t, called)
}

func TestPlantEvents_Unsubscribe(t *testing.T) {
	events := NewPlantEvents(nil)
	count := 0

	unsubscribe := events.Subscribe(func(context.Context, model.PlantChangedEvent) { count++ })
	events.Publish(context.Background(), model.PlantChangedEvent{})
	unsubscribe()
	unsubscribe()
	events.Publish(context.Background(), model.PlantChangedEvent{})

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, events.Len())
}

func TestPlantEvents_NilHandler(t *testing.T) {
	events := NewPlantEvents(nil)
	unsubscribe := events.Subscribe(nil)
	assert.Equal(t, 0, events.Len())
	assert.NotPanics(t, unsubscribe)
}

func TestPlantEvents_ConcurrentSubscribe(t *testing.T) {
	events := NewPlantEvents(nil)
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			events.Subscribe(func(context.Context, model.PlantChangedEvent) {})
			events.Publish(context.Background(), model.PlantChangedEvent{})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, events.Len())
}
