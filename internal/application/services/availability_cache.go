package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dcastano/turnero/internal/domain/entities"
	"github.com/dcastano/turnero/internal/domain/providers"
	"github.com/dcastano/turnero/internal/infrastructure/observability"
)

// AvailabilityCache stores computed slot lists keyed by station, date and
// service. It is read-through with best-effort write-back: cache faults are
// swallowed and treated as misses, never surfaced to the slot-lookup flow.
// Invalidation, by contrast, is the correctness mechanism and is called
// synchronously by every occupancy-changing mutation; the TTL is only a
// safety net against a missed invalidation.
type AvailabilityCache struct {
	cache      providers.CacheProvider
	ttlSeconds int
	metrics    *observability.Metrics
}

// SetMetrics attaches hit/miss counters. Optional; a nil metrics struct
// leaves the cache unobserved.
func (c *AvailabilityCache) SetMetrics(metrics *observability.Metrics) {
	c.metrics = metrics
}

// NewAvailabilityCache creates a new availability cache. A nil provider
// yields a disabled cache where every read is a miss.
func NewAvailabilityCache(cache providers.CacheProvider, ttlSeconds int) *AvailabilityCache {
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	return &AvailabilityCache{
		cache:      cache,
		ttlSeconds: ttlSeconds,
	}
}

func availabilityCacheKey(stationID string, date time.Time, serviceID string) string {
	return fmt.Sprintf("availability:%s:%s:%s", stationID, date.Format("2006-01-02"), serviceID)
}

func availabilityDayPattern(stationID string, date time.Time) string {
	return fmt.Sprintf("availability:%s:%s:*", stationID, date.Format("2006-01-02"))
}

// Get returns the cached slot list and true on a hit
func (c *AvailabilityCache) Get(ctx context.Context, stationID string, date time.Time, serviceID string) ([]entities.Slot, bool) {
	if c.cache == nil {
		return nil, false
	}

	data, err := c.cache.Get(ctx, availabilityCacheKey(stationID, date, serviceID))
	if err != nil {
		observability.RecordCacheMiss(ctx, c.metrics, stationID)
		return nil, false
	}

	var slots []entities.Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		log.Warn().Err(err).Str("station_id", stationID).Msg("failed to unmarshal cached slots")
		observability.RecordCacheMiss(ctx, c.metrics, stationID)
		return nil, false
	}
	observability.RecordCacheHit(ctx, c.metrics, stationID)
	return slots, true
}

// Set stores a computed slot list. Failures are logged and swallowed.
func (c *AvailabilityCache) Set(ctx context.Context, stationID string, date time.Time, serviceID string, slots []entities.Slot) {
	if c.cache == nil {
		return
	}

	data, err := json.Marshal(slots)
	if err != nil {
		log.Warn().Err(err).Str("station_id", stationID).Msg("failed to marshal slots for cache")
		return
	}
	if err := c.cache.Set(ctx, availabilityCacheKey(stationID, date, serviceID), data, c.ttlSeconds); err != nil {
		log.Warn().Err(err).Str("station_id", stationID).Msg("failed to cache slots")
	}
}

// Invalidate drops every cached slot list for the station and date,
// regardless of service: services sharing a station share the underlying
// reservation set, so one booking can change all of their availability.
func (c *AvailabilityCache) Invalidate(ctx context.Context, stationID string, date time.Time) {
	if c.cache == nil {
		return
	}

	if err := c.cache.DeletePattern(ctx, availabilityDayPattern(stationID, date)); err != nil {
		log.Error().Err(err).
			Str("station_id", stationID).
			Str("date", date.Format("2006-01-02")).
			Msg("failed to invalidate availability cache")
	}
}
