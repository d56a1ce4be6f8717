package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/dcastano/turnero/internal/domain/entities"
	"github.com/dcastano/turnero/internal/domain/repositories"
	"github.com/dcastano/turnero/internal/infrastructure/clients/postgres"
	apperrors "github.com/dcastano/turnero/pkg/errors"
)

var stationColumns = []interface{}{
	"id", "name", "staff_id", "uses_generic_schedule", "is_active",
	"created_at", "updated_at",
}

// StationAdapter implements the StationRepository interface
type StationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewStationAdapter creates a new station adapter
func NewStationAdapter(client *postgres.Client) repositories.StationRepository {
	return &StationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a station by ID
func (a *StationAdapter) GetByID(ctx context.Context, id string) (*entities.Station, error) {
	query, args, err := a.db.Select(stationColumns...).
		From("stations").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	station, err := scanStation(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("station with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get station", err)
	}
	return station, nil
}

// ListActive retrieves all active stations in stable creation order
func (a *StationAdapter) ListActive(ctx context.Context) ([]*entities.Station, error) {
	query, args, err := a.db.Select(stationColumns...).
		From("stations").
		Where(goqu.C("is_active").IsTrue()).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list stations", err)
	}
	defer rows.Close()

	var stations []*entities.Station
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan station", err)
		}
		stations = append(stations, station)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate stations", err)
	}
	return stations, nil
}

func scanStation(row rowScanner) (*entities.Station, error) {
	station := &entities.Station{}
	var staffID sql.NullString

	err := row.Scan(
		&station.ID,
		&station.Name,
		&staffID,
		&station.UsesGenericSchedule,
		&station.IsActive,
		&station.CreatedAt,
		&station.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if staffID.Valid {
		station.StaffID = &staffID.String
	}
	return station, nil
}
