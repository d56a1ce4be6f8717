package repositories

import (
	"context"
	"time"

	"github.com/dcastano/turnero/internal/domain/entities"
)

// ReservationRepository defines the interface for reservation data operations
type ReservationRepository interface {
	// Create persists a new reservation. The adapter re-checks occupancy
	// inside the write transaction with the station row locked, so two
	// concurrent bookings for the same interval cannot both commit.
	Create(ctx context.Context, reservation *entities.Reservation) error

	// GetByID retrieves a reservation by ID
	GetByID(ctx context.Context, id string) (*entities.Reservation, error)

	// GetByCode retrieves a reservation by its public code
	GetByCode(ctx context.Context, code string) (*entities.Reservation, error)

	// Update updates a reservation
	Update(ctx context.Context, reservation *entities.Reservation) error

	// ListByStationAndRange retrieves reservations at a station whose
	// interval overlaps [from, to)
	ListByStationAndRange(ctx context.Context, stationID string, from, to time.Time) ([]*entities.Reservation, error)
}

// ReservationDayOf returns the [from, to) bounds of the reservation day
// containing t, used when fetching a day's reservations.
func ReservationDayOf(t time.Time) (time.Time, time.Time) {
	from := entities.DateOnly(t)
	return from, from.Add(24 * time.Hour)
}
