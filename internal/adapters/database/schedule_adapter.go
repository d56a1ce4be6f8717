package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/dcastano/turnero/internal/domain/entities"
	"github.com/dcastano/turnero/internal/domain/repositories"
	"github.com/dcastano/turnero/internal/infrastructure/clients/postgres"
	apperrors "github.com/dcastano/turnero/pkg/errors"
)

// ScheduleAdapter implements the ScheduleRepository interface
type ScheduleAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewScheduleAdapter creates a new schedule adapter
func NewScheduleAdapter(client *postgres.Client) repositories.ScheduleRepository {
	return &ScheduleAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListForDate retrieves the active schedule entries that could apply to the
// date: regular entries for its weekday plus special/blocked entries whose
// range covers it, at global scope and, when stationID is set, station
// scope too
func (a *ScheduleAdapter) ListForDate(ctx context.Context, stationID *string, date time.Time) ([]*entities.ScheduleEntry, error) {
	day := entities.DateOnly(date)

	var scope exp.Expression = goqu.C("station_id").IsNull()
	if stationID != nil && *stationID != "" {
		scope = goqu.Or(
			goqu.C("station_id").IsNull(),
			goqu.C("station_id").Eq(*stationID),
		)
	}

	query, args, err := a.db.Select(
		"id", "station_id", "kind", "day_of_week", "from_date", "to_date",
		"start_time", "end_time", "is_active", "note", "created_at", "updated_at",
	).From("schedule_entries").
		Where(
			goqu.C("is_active").IsTrue(),
			scope,
			goqu.Or(
				goqu.And(
					goqu.C("kind").Eq(entities.ScheduleKindRegular),
					goqu.C("day_of_week").Eq(int(day.Weekday())),
				),
				goqu.And(
					goqu.C("kind").In(entities.ScheduleKindSpecial, entities.ScheduleKindBlocked),
					goqu.C("from_date").Lte(day),
					goqu.Or(
						goqu.And(goqu.C("to_date").IsNull(), goqu.C("from_date").Eq(day)),
						goqu.C("to_date").Gte(day),
					),
				),
			),
		).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build schedule query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list schedule entries", err)
	}
	defer rows.Close()

	var entries []*entities.ScheduleEntry
	for rows.Next() {
		entry := &entities.ScheduleEntry{}
		var entryStationID, startTime, endTime, note sql.NullString
		var dayOfWeek sql.NullInt64
		var fromDate, toDate sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entryStationID,
			&entry.Kind,
			&dayOfWeek,
			&fromDate,
			&toDate,
			&startTime,
			&endTime,
			&entry.IsActive,
			&note,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan schedule entry", err)
		}

		if entryStationID.Valid {
			entry.StationID = &entryStationID.String
		}
		if dayOfWeek.Valid {
			entry.DayOfWeek = time.Weekday(dayOfWeek.Int64)
		}
		if fromDate.Valid {
			entry.FromDate = &fromDate.Time
		}
		if toDate.Valid {
			entry.ToDate = &toDate.Time
		}
		entry.StartTime = startTime.String
		entry.EndTime = endTime.String
		entry.Note = note.String

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate schedule entries", err)
	}
	return entries, nil
}
