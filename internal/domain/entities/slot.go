package entities

import (
	"time"
)

// UnavailableReason explains why a slot cannot be booked
type UnavailableReason string

const (
	// UnavailableReasonPast marks slots whose start is not in the future
	UnavailableReasonPast UnavailableReason = "past"

	// UnavailableReasonOccupied marks slots blocked by a reservation
	UnavailableReasonOccupied UnavailableReason = "occupied"
)

// Slot is a computed bookable start time with an availability verdict.
// Slots are never persisted; they are regenerated on every cache miss.
type Slot struct {
	StartAt   time.Time         `json:"start_at"`
	Label     string            `json:"label"`
	Available bool              `json:"available"`
	Reason    UnavailableReason `json:"reason,omitempty"`
}

// SlotGranularity is the fixed spacing between candidate slot starts
const SlotGranularity = 15 * time.Minute

// NewSlot builds a slot for the given start, formatting its label
func NewSlot(start time.Time, available bool, reason UnavailableReason) Slot {
	return Slot{
		StartAt:   start,
		Label:     start.Format("15:04"),
		Available: available,
		Reason:    reason,
	}
}
