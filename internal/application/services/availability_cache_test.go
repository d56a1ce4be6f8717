package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dcastano/turnero/internal/application/services"
	"github.com/dcastano/turnero/internal/domain/entities"
)

func TestAvailabilityCache(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots := []entities.Slot{
		entities.NewSlot(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), true, ""),
		entities.NewSlot(time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC), false, entities.UnavailableReasonOccupied),
	}

	t.Run("set then get round-trips", func(t *testing.T) {
		cache := services.NewAvailabilityCache(newFakeCacheProvider(), 300)

		cache.Set(ctx, "st-1", day, "svc-1", slots)
		got, ok := cache.Get(ctx, "st-1", day, "svc-1")
		assert.True(t, ok)
		assert.Equal(t, slots, got)
	})

	t.Run("empty slot lists are cached too", func(t *testing.T) {
		cache := services.NewAvailabilityCache(newFakeCacheProvider(), 300)

		cache.Set(ctx, "st-1", day, "svc-1", []entities.Slot{})
		got, ok := cache.Get(ctx, "st-1", day, "svc-1")
		assert.True(t, ok)
		assert.Empty(t, got)
	})

	t.Run("keys are scoped by station, date and service", func(t *testing.T) {
		cache := services.NewAvailabilityCache(newFakeCacheProvider(), 300)
		cache.Set(ctx, "st-1", day, "svc-1", slots)

		_, ok := cache.Get(ctx, "st-2", day, "svc-1")
		assert.False(t, ok)
		_, ok = cache.Get(ctx, "st-1", day.AddDate(0, 0, 1), "svc-1")
		assert.False(t, ok)
		_, ok = cache.Get(ctx, "st-1", day, "svc-2")
		assert.False(t, ok)
	})

	t.Run("invalidate drops every service for the day", func(t *testing.T) {
		cache := services.NewAvailabilityCache(newFakeCacheProvider(), 300)
		cache.Set(ctx, "st-1", day, "svc-1", slots)
		cache.Set(ctx, "st-1", day, "svc-2", slots)
		cache.Set(ctx, "st-1", day.AddDate(0, 0, 1), "svc-1", slots)
		cache.Set(ctx, "st-2", day, "svc-1", slots)

		cache.Invalidate(ctx, "st-1", day)

		_, ok := cache.Get(ctx, "st-1", day, "svc-1")
		assert.False(t, ok)
		_, ok = cache.Get(ctx, "st-1", day, "svc-2")
		assert.False(t, ok)

		// Other days and stations survive
		_, ok = cache.Get(ctx, "st-1", day.AddDate(0, 0, 1), "svc-1")
		assert.True(t, ok)
		_, ok = cache.Get(ctx, "st-2", day, "svc-1")
		assert.True(t, ok)
	})

	t.Run("nil provider disables the cache", func(t *testing.T) {
		cache := services.NewAvailabilityCache(nil, 300)

		cache.Set(ctx, "st-1", day, "svc-1", slots)
		_, ok := cache.Get(ctx, "st-1", day, "svc-1")
		assert.False(t, ok)

		// Invalidate must not panic either
		cache.Invalidate(ctx, "st-1", day)
	})
}
