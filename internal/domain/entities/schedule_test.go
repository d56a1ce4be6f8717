package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dcastano/turnero/internal/domain/entities"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestScheduleEntry_AppliesTo(t *testing.T) {
	monday := date(2026, 3, 2) // a Monday

	t.Run("regular entry matches its weekday", func(t *testing.T) {
		entry := &entities.ScheduleEntry{
			Kind:      entities.ScheduleKindRegular,
			DayOfWeek: time.Monday,
			IsActive:  true,
		}
		assert.True(t, entry.AppliesTo(monday))
		assert.False(t, entry.AppliesTo(monday.AddDate(0, 0, 1)))
	})

	t.Run("inactive entry never applies", func(t *testing.T) {
		entry := &entities.ScheduleEntry{
			Kind:      entities.ScheduleKindRegular,
			DayOfWeek: time.Monday,
			IsActive:  false,
		}
		assert.False(t, entry.AppliesTo(monday))
	})

	t.Run("special entry covers its inclusive range", func(t *testing.T) {
		from := date(2026, 3, 2)
		to := date(2026, 3, 4)
		entry := &entities.ScheduleEntry{
			Kind:     entities.ScheduleKindSpecial,
			FromDate: &from,
			ToDate:   &to,
			IsActive: true,
		}
		assert.True(t, entry.AppliesTo(date(2026, 3, 2)))
		assert.True(t, entry.AppliesTo(date(2026, 3, 4)))
		assert.False(t, entry.AppliesTo(date(2026, 3, 1)))
		assert.False(t, entry.AppliesTo(date(2026, 3, 5)))
	})

	t.Run("absent to_date means a single day", func(t *testing.T) {
		from := date(2026, 3, 2)
		entry := &entities.ScheduleEntry{
			Kind:     entities.ScheduleKindBlocked,
			FromDate: &from,
			IsActive: true,
		}
		assert.True(t, entry.AppliesTo(date(2026, 3, 2)))
		assert.False(t, entry.AppliesTo(date(2026, 3, 3)))
	})

	t.Run("applies regardless of time of day on the date", func(t *testing.T) {
		from := date(2026, 3, 2)
		entry := &entities.ScheduleEntry{
			Kind:     entities.ScheduleKindSpecial,
			FromDate: &from,
			IsActive: true,
		}
		assert.True(t, entry.AppliesTo(time.Date(2026, 3, 2, 18, 45, 0, 0, time.UTC)))
	})
}

func TestScheduleEntry_Window(t *testing.T) {
	monday := date(2026, 3, 2)

	t.Run("resolves times onto the date", func(t *testing.T) {
		entry := &entities.ScheduleEntry{
			ID:        "sched-1",
			StartTime: "09:00",
			EndTime:   "20:00",
		}
		window, err := entry.Window(monday)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), window.Start)
		assert.Equal(t, time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC), window.End)
	})

	t.Run("rejects end not after start", func(t *testing.T) {
		entry := &entities.ScheduleEntry{
			ID:        "sched-2",
			StartTime: "14:00",
			EndTime:   "14:00",
		}
		_, err := entry.Window(monday)
		assert.Error(t, err)
	})

	t.Run("rejects malformed times", func(t *testing.T) {
		entry := &entities.ScheduleEntry{
			ID:        "sched-3",
			StartTime: "morning",
			EndTime:   "17:00",
		}
		_, err := entry.Window(monday)
		assert.Error(t, err)
	})
}

func TestParseTimeOfDay(t *testing.T) {
	monday := date(2026, 3, 2)

	parsed, err := entities.ParseTimeOfDay(monday, "08:30")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC), parsed)

	_, err = entities.ParseTimeOfDay(monday, "25:00")
	assert.Error(t, err)

	_, err = entities.ParseTimeOfDay(monday, "10:75")
	assert.Error(t, err)

	_, err = entities.ParseTimeOfDay(monday, "10")
	assert.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2026, 3, 2, 18, 45, 12, 99, time.UTC)
	assert.Equal(t, date(2026, 3, 2), entities.DateOnly(ts))
}
