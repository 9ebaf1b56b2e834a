package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/sharednav/internal/domain/model"
	authmocks "github.com/target/sharednav/internal/mocks/auth"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func TestPlantCache_PutThenGet(t *testing.T) {
	clock := newTestClock()
	cache := NewPlantCache(PlantCacheOptions{Now: clock.Now})
	values := authmocks.NewMemoryValues()
	ctx := context.Background()

	plants := []model.Plant{{PlantCode: "HmjP", Name: "Hemaraj"}}
	require.NoError(t, cache.Put(ctx, values, plants))
	assert.Equal(t, 1, values.SetCalls, "both keys written in one call")

	got, ok := cache.Get(ctx, values)
	require.True(t, ok)
	assert.Equal(t, plants, got)

	snap := values.Snapshot()
	assert.Equal(t, "2024-03-01T08:00:00Z", snap[SessionKeyPlantsCacheStamp])
	assert.Contains(t, snap[SessionKeyPlantsCache], `"plantCode":"HmjP"`)
}

func TestPlantCache_Expiry(t *testing.T) {
	clock := newTestClock()
	cache := NewPlantCache(PlantCacheOptions{Now: clock.Now, Expiration: time.Minute})
	values := authmocks.NewMemoryValues()
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, values, []model.Plant{{PlantCode: "A"}}))

	clock.Advance(59 * time.Second)
	_, ok := cache.Get(ctx, values)
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = cache.Get(ctx, values)
	assert.False(t, ok, "entry at exactly the expiration is stale")
}

func TestPlantCache_DefaultExpiration(t *testing.T) {
	cache := NewPlantCache(PlantCacheOptions{})
	assert.Equal(t, DefaultPlantCacheExpiration, cache.expiration)
}

func TestPlantCache_GetMisses(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	cache := NewPlantCache(PlantCacheOptions{Now: clock.Now})
	stamp := clock.Now().Format(time.RFC3339Nano)

	tests := []struct {
		name   string
		values map[string]string
	}{
		{name: "empty session", values: nil},
		{name: "missing timestamp", values: map[string]string{SessionKeyPlantsCache: `[{"plantCode":"A"}]`}},
		{name: "bad timestamp", values: map[string]string{
			SessionKeyPlantsCache:      `[{"plantCode":"A"}]`,
			SessionKeyPlantsCacheStamp: "yesterday",
		}},
		{name: "missing data", values: map[string]string{SessionKeyPlantsCacheStamp: stamp}},
		{name: "corrupt data", values: map[string]string{
			SessionKeyPlantsCache:      "{not json",
			SessionKeyPlantsCacheStamp: stamp,
		}},
		{name: "empty list", values: map[string]string{
			SessionKeyPlantsCache:      "[]",
			SessionKeyPlantsCacheStamp: stamp,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := authmocks.NewMemoryValues()
			if tt.values != nil {
				require.NoError(t, values.SetValues(ctx, tt.values))
			}
			_, ok := cache.Get(ctx, values)
			assert.False(t, ok)
		})
	}
}

func TestPlantCache_GetWithoutSession(t *testing.T) {
	cache := NewPlantCache(PlantCacheOptions{})
	_, ok := cache.Get(context.Background(), nil)
	assert.False(t, ok)
	assert.Error(t, cache.Put(context.Background(), nil, []model.Plant{{PlantCode: "A"}}))
	assert.Error(t, cache.Clear(context.Background(), nil))
}

func TestPlantCache_GetReadFailureIsMiss(t *testing.T) {
	values := authmocks.NewMemoryValues()
	values.Err = errors.New("redis down")

	_, ok := NewPlantCache(PlantCacheOptions{}).Get(context.Background(), values)
	assert.False(t, ok)
}

func TestPlantCache_Clear(t *testing.T) {
	cache := NewPlantCache(PlantCacheOptions{})
	values := authmocks.NewMemoryValues()
	ctx := context.Background()

	require.NoError(t, values.SetValues(ctx, map[string]string{SessionKeySelectedPlant: "A"}))
	require.NoError(t, cache.Put(ctx, values, []model.Plant{{PlantCode: "A"}}))
	require.NoError(t, cache.Clear(ctx, values))

	assert.Equal(t, 1, values.RemoveCalls)
	assert.Equal(t, map[string]string{SessionKeySelectedPlant: "A"}, values.Snapshot())
}
