package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/sharednav/internal/domain/model"
	"github.com/target/sharednav/internal/ports"
)

// DefaultPlantCacheExpiration bounds how long a session may reuse a plant list.
const DefaultPlantCacheExpiration = 15 * time.Minute

var errNoSessionValues = errors.New("session values unavailable")

// PlantCacheOptions configures NewPlantCache.
type PlantCacheOptions struct {
	Expiration time.Duration
	Now        func() time.Time
	Logger     *slog.Logger
}

// PlantCache stores a plant list in one session's values together with the
// time it was loaded. Both keys are written and removed in a single call.
type PlantCache struct {
	expiration time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewPlantCache creates a PlantCache.
func NewPlantCache(opts PlantCacheOptions) *PlantCache {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	exp := opts.Expiration
	if exp <= 0 {
		exp = DefaultPlantCacheExpiration
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &PlantCache{expiration: exp, now: now, logger: logger}
}

// Get returns the cached list when it is present, non-empty and younger than
// the expiration. Read or decode failures count as a miss.
func (c *PlantCache) Get(ctx context.Context, values ports.SessionValues) ([]model.Plant, bool) {
	if values == nil {
		return nil, false
	}
	entry, err := values.GetValues(ctx, SessionKeyPlantsCache, SessionKeyPlantsCacheStamp)
	if err != nil {
		c.logger.WarnContext(ctx, "read plant cache", "error", err)
		return nil, false
	}
	stamp, ok := entry[SessionKeyPlantsCacheStamp]
	if !ok || stamp == "" {
		return nil, false
	}
	loadedAt, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil || c.now().Sub(loadedAt) >= c.expiration {
		return nil, false
	}
	data := entry[SessionKeyPlantsCache]
	if data == "" {
		return nil, false
	}
	var plants []model.Plant
	if err := json.Unmarshal([]byte(data), &plants); err != nil {
		c.logger.WarnContext(ctx, "decode plant cache", "error", err)
		return nil, false
	}
	if len(plants) == 0 {
		return nil, false
	}
	return plants, true
}

// Put stores plants with the current time.
func (c *PlantCache) Put(ctx context.Context, values ports.SessionValues, plants []model.Plant) error {
	if values == nil {
		return errNoSessionValues
	}
	data, err := json.Marshal(plants)
	if err != nil {
		return fmt.Errorf("encode plant cache: %w", err)
	}
	return values.SetValues(ctx, map[string]string{
		SessionKeyPlantsCache:      string(data),
		SessionKeyPlantsCacheStamp: c.now().UTC().Format(time.RFC3339Nano),
	})
}

// Clear removes the cached list and its timestamp.
func (c *PlantCache) Clear(ctx context.Context, values ports.SessionValues) error {
	if values == nil {
		return errNoSessionValues
	}
	return values.RemoveValues(ctx, SessionKeyPlantsCache, SessionKeyPlantsCacheStamp)
}
