package entities

import (
	"time"
)

// Station represents a physical service station (seat/chair) that
// reservations are booked against
type Station struct {
	ID                  string    `json:"id" db:"id"`
	Name                string    `json:"name" db:"name"`
	StaffID             *string   `json:"staff_id,omitempty" db:"staff_id"`
	UsesGenericSchedule bool      `json:"uses_generic_schedule" db:"uses_generic_schedule"`
	IsActive            bool      `json:"is_active" db:"is_active"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// CanAcceptBookings reports whether the station is eligible for new
// reservations: it must be active and have assigned staff
func (s *Station) CanAcceptBookings() bool {
	return s.IsActive && s.StaffID != nil && *s.StaffID != ""
}
