package entities

import (
	"time"
)

// Service represents a bookable service offered at the stations
type Service struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	PriceCents      int       `json:"price_cents" db:"price_cents"`
	LoyaltyPoints   int       `json:"loyalty_points" db:"loyalty_points"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
