package repositories

import (
	"context"
	"time"

	"github.com/dcastano/turnero/internal/domain/entities"
)

// ScheduleRepository defines read-only access to raw schedule entries.
// Resolution of precedence between them belongs to the schedule resolver.
type ScheduleRepository interface {
	// ListForDate retrieves all active entries that could apply to the given
	// date: regular entries for its weekday plus special/blocked entries
	// whose range covers it. When stationID is non-nil both station-scoped
	// and global entries are returned; otherwise only global ones.
	ListForDate(ctx context.Context, stationID *string, date time.Time) ([]*entities.ScheduleEntry, error)
}
