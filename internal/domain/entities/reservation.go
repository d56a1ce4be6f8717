package entities

import (
	"crypto/rand"
	"time"
)

// ReservationState represents the lifecycle state of a reservation
type ReservationState string

const (
	ReservationStatePending   ReservationState = "pending"
	ReservationStateConfirmed ReservationState = "confirmed"
	ReservationStateCompleted ReservationState = "completed"
	ReservationStateCancelled ReservationState = "cancelled"
)

// Reservation represents a booked appointment at a station. Customer
// contact details and the service's duration, price and loyalty points are
// denormalized at booking time; later service edits do not touch them.
type Reservation struct {
	ID                string           `json:"id" db:"id"`
	Code              string           `json:"code" db:"code"`
	StationID         string           `json:"station_id" db:"station_id"`
	ServiceID         string           `json:"service_id" db:"service_id"`
	CustomerAccountID *string          `json:"customer_account_id,omitempty" db:"customer_account_id"`
	CustomerName      string           `json:"customer_name" db:"customer_name"`
	CustomerEmail     string           `json:"customer_email" db:"customer_email"`
	CustomerPhone     string           `json:"customer_phone" db:"customer_phone"`
	StartAt           time.Time        `json:"start_at" db:"start_at"`
	DurationMinutes   int              `json:"duration_minutes" db:"duration_minutes"`
	PriceCents        int              `json:"price_cents" db:"price_cents"`
	LoyaltyPoints     int              `json:"loyalty_points" db:"loyalty_points"`
	State             ReservationState `json:"state" db:"state"`
	CreatedBy         string           `json:"created_by" db:"created_by"`
	CreatedByRole     string           `json:"created_by_role" db:"created_by_role"`
	CancelledBy       *string          `json:"cancelled_by,omitempty" db:"cancelled_by"`
	CancelledAt       *time.Time       `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancelReason      string           `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at" db:"updated_at"`
}

// EndAt returns the reservation's end instant
func (r *Reservation) EndAt() time.Time {
	return r.StartAt.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

// IsTerminal reports whether the reservation is in a final state
func (r *Reservation) IsTerminal() bool {
	return r.State == ReservationStateCompleted || r.State == ReservationStateCancelled
}

// BlocksTime reports whether the reservation occupies its interval.
// Cancelled reservations free their time; completed ones occupied real
// time and keep blocking.
func (r *Reservation) BlocksTime() bool {
	return r.State != ReservationStateCancelled
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching edges do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// IntervalOccupied reports whether the candidate interval [start, end)
// collides with any blocking reservation in the list. Callers are expected
// to pre-filter reservations to the relevant day.
func IntervalOccupied(start, end time.Time, reservations []*Reservation) bool {
	for _, r := range reservations {
		if !r.BlocksTime() {
			continue
		}
		if Overlaps(start, end, r.StartAt, r.EndAt()) {
			return true
		}
	}
	return false
}

const reservationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewReservationCode generates an 8-character uppercase alphanumeric code.
// Uniqueness is enforced by the store; callers retry on collision.
func NewReservationCode() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a time-derived code if crypto/rand fails
		now := time.Now().UnixNano()
		for i := range bytes {
			bytes[i] = reservationCodeAlphabet[int(now>>uint(i*4))%len(reservationCodeAlphabet)]
		}
		return string(bytes)
	}
	for i, b := range bytes {
		bytes[i] = reservationCodeAlphabet[int(b)%len(reservationCodeAlphabet)]
	}
	return string(bytes)
}
