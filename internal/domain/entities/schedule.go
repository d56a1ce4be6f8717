package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScheduleKind discriminates the three flavors of schedule entry
type ScheduleKind string

const (
	// ScheduleKindRegular defines weekly working hours for a day of week
	ScheduleKindRegular ScheduleKind = "regular"

	// ScheduleKindSpecial overrides working hours for a date range
	ScheduleKindSpecial ScheduleKind = "special"

	// ScheduleKindBlocked closes a date range entirely
	ScheduleKindBlocked ScheduleKind = "blocked"
)

// ScheduleEntry represents one schedule record, scoped to a station or,
// when StationID is nil, to the global calendar
type ScheduleEntry struct {
	ID        string       `json:"id" db:"id"`
	StationID *string      `json:"station_id,omitempty" db:"station_id"`
	Kind      ScheduleKind `json:"kind" db:"kind"`

	// DayOfWeek applies to regular entries only (0 = Sunday, per time.Weekday).
	DayOfWeek time.Weekday `json:"day_of_week" db:"day_of_week"`

	// FromDate/ToDate apply to special and blocked entries; the range is
	// inclusive and an absent ToDate means a single day.
	FromDate *time.Time `json:"from_date,omitempty" db:"from_date"`
	ToDate   *time.Time `json:"to_date,omitempty" db:"to_date"`

	// StartTime/EndTime are "HH:MM" times of day. Required for regular and
	// special entries, ignored for blocked ones.
	StartTime string `json:"start_time,omitempty" db:"start_time"`
	EndTime   string `json:"end_time,omitempty" db:"end_time"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	Note      string    `json:"note,omitempty" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsGlobal reports whether the entry belongs to the global calendar
func (e *ScheduleEntry) IsGlobal() bool {
	return e.StationID == nil || *e.StationID == ""
}

// AppliesTo reports whether the entry covers the given calendar date
func (e *ScheduleEntry) AppliesTo(date time.Time) bool {
	if !e.IsActive {
		return false
	}
	switch e.Kind {
	case ScheduleKindRegular:
		return e.DayOfWeek == date.Weekday()
	case ScheduleKindSpecial, ScheduleKindBlocked:
		if e.FromDate == nil {
			return false
		}
		day := DateOnly(date)
		if day.Before(DateOnly(*e.FromDate)) {
			return false
		}
		to := *e.FromDate
		if e.ToDate != nil {
			to = *e.ToDate
		}
		return !day.After(DateOnly(to))
	}
	return false
}

// Window resolves the entry's time-of-day bounds onto the given date.
// Blocked entries have no window.
func (e *ScheduleEntry) Window(date time.Time) (DayWindow, error) {
	start, err := ParseTimeOfDay(date, e.StartTime)
	if err != nil {
		return DayWindow{}, fmt.Errorf("schedule entry %s: %w", e.ID, err)
	}
	end, err := ParseTimeOfDay(date, e.EndTime)
	if err != nil {
		return DayWindow{}, fmt.Errorf("schedule entry %s: %w", e.ID, err)
	}
	if !end.After(start) {
		return DayWindow{}, fmt.Errorf("schedule entry %s: end time %s not after start time %s", e.ID, e.EndTime, e.StartTime)
	}
	return DayWindow{Start: start, End: end}, nil
}

// DayWindow is the effective working interval resolved for one date
type DayWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseTimeOfDay parses an "HH:MM" string onto the given calendar date
func ParseTimeOfDay(date time.Time, timeStr string) (time.Time, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid time of day: %q", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid minute in %q", timeStr)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}

// DateOnly truncates a timestamp to midnight of its calendar date
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
