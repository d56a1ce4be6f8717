package services

import (
	"context"
	"time"

	"github.com/dcastano/turnero/internal/domain/entities"
	"github.com/dcastano/turnero/internal/domain/repositories"
	apperrors "github.com/dcastano/turnero/pkg/errors"
)

// ScheduleResolver computes the effective working window for a station (or
// the global calendar) on a given date. Precedence, most specific first:
// a blocked entry closes the day outright, a special entry overrides the
// weekly hours, otherwise the regular entry for the weekday applies.
type ScheduleResolver struct {
	scheduleRepo repositories.ScheduleRepository
}

// NewScheduleResolver creates a new schedule resolver
func NewScheduleResolver(scheduleRepo repositories.ScheduleRepository) *ScheduleResolver {
	return &ScheduleResolver{
		scheduleRepo: scheduleRepo,
	}
}

// Resolve returns the working window for the date, or nil when the day has
// no work (blocked, or no matching active entry). A nil window is not an
// error.
//
// When usesGenericSchedule is true the station defers to the global
// calendar for regular and special hours; blocked entries are honored at
// both scopes either way.
func (r *ScheduleResolver) Resolve(ctx context.Context, stationID *string, date time.Time, usesGenericSchedule bool) (*entities.DayWindow, error) {
	entries, err := r.scheduleRepo.ListForDate(ctx, stationID, date)
	if err != nil {
		return nil, err
	}

	stationScoped := stationID != nil && !usesGenericSchedule

	// Blocked days win regardless of scope.
	for _, e := range entries {
		if e.Kind == entities.ScheduleKindBlocked && e.AppliesTo(date) {
			return nil, nil
		}
	}

	if entry := pickEntry(entries, entities.ScheduleKindSpecial, date, stationScoped); entry != nil {
		return entryWindow(entry, date)
	}
	if entry := pickEntry(entries, entities.ScheduleKindRegular, date, stationScoped); entry != nil {
		return entryWindow(entry, date)
	}

	return nil, nil
}

// pickEntry selects the applicable entry of the given kind, preferring a
// station-scoped entry over a global one when the station keeps its own
// schedule.
func pickEntry(entries []*entities.ScheduleEntry, kind entities.ScheduleKind, date time.Time, stationScoped bool) *entities.ScheduleEntry {
	var global *entities.ScheduleEntry
	for _, e := range entries {
		if e.Kind != kind || !e.AppliesTo(date) {
			continue
		}
		if e.IsGlobal() {
			if global == nil {
				global = e
			}
			continue
		}
		if stationScoped {
			return e
		}
	}
	return global
}

func entryWindow(entry *entities.ScheduleEntry, date time.Time) (*entities.DayWindow, error) {
	window, err := entry.Window(date)
	if err != nil {
		return nil, apperrors.NewInternalError("malformed schedule entry", err)
	}
	return &window, nil
}
