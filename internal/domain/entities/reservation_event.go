package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// ReservationEventType represents the type of reservation event
type ReservationEventType string

const (
	ReservationEventTypeBooked    ReservationEventType = "booked"
	ReservationEventTypeCancelled ReservationEventType = "cancelled"
	ReservationEventTypeCompleted ReservationEventType = "completed"
)

// ReservationEvent is published after a reservation mutation commits so
// downstream consumers (notifications, dashboards) can react. It is not the
// cache invalidation path; invalidation happens synchronously before the
// mutation is reported successful.
type ReservationEvent struct {
	ID            string               `json:"id"`
	ReservationID string               `json:"reservation_id"`
	StationID     string               `json:"station_id"`
	EventType     ReservationEventType `json:"event_type"`
	Date          string               `json:"date"`
	Timestamp     time.Time            `json:"timestamp"`
}

// NewReservationEvent creates a new reservation event
func NewReservationEvent(r *Reservation, eventType ReservationEventType) *ReservationEvent {
	return &ReservationEvent{
		ID:            generateEventID(),
		ReservationID: r.ID,
		StationID:     r.StationID,
		EventType:     eventType,
		Date:          r.StartAt.Format("2006-01-02"),
		Timestamp:     time.Now(),
	}
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

// randomString generates a random string of specified length
func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
