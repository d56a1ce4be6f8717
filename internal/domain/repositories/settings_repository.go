package repositories

import (
	"context"
)

// SettingsRepository exposes tunable business values kept in the database,
// e.g. the minimum cancellation lead time.
type SettingsRepository interface {
	// GetInt returns the integer value stored under key, or defaultValue
	// when the key is absent or not an integer.
	GetInt(ctx context.Context, key string, defaultValue int) (int, error)
}

// Setting keys used by the scheduling core.
const (
	SettingMinCancelLeadMinutes = "booking.min_cancel_lead_minutes"
)
