package entities_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dcastano/turnero/internal/domain/entities"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		expected bool
	}{
		{
			name:   "disjoint intervals",
			aStart: at(9, 0), aEnd: at(9, 30),
			bStart: at(10, 0), bEnd: at(10, 30),
			expected: false,
		},
		{
			name:   "partial overlap",
			aStart: at(9, 0), aEnd: at(9, 45),
			bStart: at(9, 30), bEnd: at(10, 0),
			expected: true,
		},
		{
			name:   "touching edges do not overlap",
			aStart: at(9, 0), aEnd: at(9, 30),
			bStart: at(9, 30), bEnd: at(10, 0),
			expected: false,
		},
		{
			name:   "containment",
			aStart: at(9, 0), aEnd: at(11, 0),
			bStart: at(9, 30), bEnd: at(10, 0),
			expected: true,
		},
		{
			name:   "identical intervals",
			aStart: at(9, 0), aEnd: at(9, 30),
			bStart: at(9, 0), bEnd: at(9, 30),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entities.Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			assert.Equal(t, tt.expected, got)

			// Overlap is symmetric
			assert.Equal(t, tt.expected, entities.Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestIntervalOccupied(t *testing.T) {
	reservations := []*entities.Reservation{
		{StartAt: at(10, 0), DurationMinutes: 30, State: entities.ReservationStatePending},
		{StartAt: at(14, 0), DurationMinutes: 60, State: entities.ReservationStateCancelled},
	}

	t.Run("colliding interval is occupied", func(t *testing.T) {
		assert.True(t, entities.IntervalOccupied(at(9, 45), at(10, 15), reservations))
	})

	t.Run("touching interval is free", func(t *testing.T) {
		assert.False(t, entities.IntervalOccupied(at(10, 30), at(11, 0), reservations))
	})

	t.Run("cancelled reservations free their time", func(t *testing.T) {
		assert.False(t, entities.IntervalOccupied(at(14, 0), at(15, 0), reservations))
	})

	t.Run("completed reservations keep blocking", func(t *testing.T) {
		done := []*entities.Reservation{
			{StartAt: at(10, 0), DurationMinutes: 30, State: entities.ReservationStateCompleted},
		}
		assert.True(t, entities.IntervalOccupied(at(10, 0), at(10, 30), done))
	})
}

func TestReservation_EndAt(t *testing.T) {
	r := &entities.Reservation{StartAt: at(9, 0), DurationMinutes: 45}
	assert.Equal(t, at(9, 45), r.EndAt())
}

func TestReservation_IsTerminal(t *testing.T) {
	assert.False(t, (&entities.Reservation{State: entities.ReservationStatePending}).IsTerminal())
	assert.False(t, (&entities.Reservation{State: entities.ReservationStateConfirmed}).IsTerminal())
	assert.True(t, (&entities.Reservation{State: entities.ReservationStateCompleted}).IsTerminal())
	assert.True(t, (&entities.Reservation{State: entities.ReservationStateCancelled}).IsTerminal())
}

func TestNewReservationCode(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	for i := 0; i < 50; i++ {
		code := entities.NewReservationCode()
		assert.Len(t, code, 8)
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(alphabet, ch), "unexpected character %q in code %s", ch, code)
		}
	}
}
