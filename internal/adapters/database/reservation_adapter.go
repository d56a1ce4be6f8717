package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/dcastano/turnero/internal/domain/entities"
	"github.com/dcastano/turnero/internal/domain/repositories"
	"github.com/dcastano/turnero/internal/infrastructure/clients/postgres"
	apperrors "github.com/dcastano/turnero/pkg/errors"
)

var reservationColumns = []interface{}{
	"id", "code", "station_id", "service_id", "customer_account_id",
	"customer_name", "customer_email", "customer_phone", "start_at",
	"duration_minutes", "price_cents", "loyalty_points", "state",
	"created_by", "created_by_role", "cancelled_by", "cancelled_at",
	"cancel_reason", "created_at", "updated_at",
}

// ReservationAdapter implements the ReservationRepository interface
type ReservationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReservationAdapter creates a new reservation adapter
func NewReservationAdapter(client *postgres.Client) repositories.ReservationRepository {
	return &ReservationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new reservation. The station row is locked and the
// overlap check is re-run inside the transaction, so two bookings racing
// past the service-level pre-check cannot both commit.
func (a *ReservationAdapter) Create(ctx context.Context, reservation *entities.Reservation) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	lockQuery, lockArgs, err := a.db.From("stations").
		Select("id").
		Where(goqu.Ex{"id": reservation.StationID}).
		ForUpdate(exp.Wait).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build lock query", err)
	}

	var lockedID string
	if err := tx.QueryRowContext(ctx, lockQuery, lockArgs...).Scan(&lockedID); err != nil {
		if err == sql.ErrNoRows {
			return apperrors.NewNotFoundError(fmt.Sprintf("station with id %s not found", reservation.StationID))
		}
		return apperrors.NewInternalError("failed to lock station", err)
	}

	occupied, err := a.intervalOccupiedTx(ctx, tx, reservation.StationID, reservation.StartAt, reservation.EndAt())
	if err != nil {
		return err
	}
	if occupied {
		return apperrors.NewConflictError("requested time is already booked")
	}

	record := goqu.Record{
		"id":                  reservation.ID,
		"code":                reservation.Code,
		"station_id":          reservation.StationID,
		"service_id":          reservation.ServiceID,
		"customer_account_id": reservation.CustomerAccountID,
		"customer_name":       reservation.CustomerName,
		"customer_email":      reservation.CustomerEmail,
		"customer_phone":      reservation.CustomerPhone,
		"start_at":            reservation.StartAt,
		"duration_minutes":    reservation.DurationMinutes,
		"price_cents":         reservation.PriceCents,
		"loyalty_points":      reservation.LoyaltyPoints,
		"state":               reservation.State,
		"created_by":          reservation.CreatedBy,
		"created_by_role":     reservation.CreatedByRole,
		"cancel_reason":       reservation.CancelReason,
		"created_at":          reservation.CreatedAt,
		"updated_at":          reservation.UpdatedAt,
	}

	insertQuery, insertArgs, err := a.db.Insert("reservations").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return apperrors.NewInternalError("failed to create reservation", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit reservation", err)
	}
	return nil
}

// intervalOccupiedTx re-checks occupancy inside the booking transaction
func (a *ReservationAdapter) intervalOccupiedTx(ctx context.Context, tx *sql.Tx, stationID string, start, end time.Time) (bool, error) {
	query, args, err := a.db.From("reservations").
		Select(goqu.COUNT("*")).
		Where(
			goqu.Ex{"station_id": stationID},
			goqu.C("state").Neq(entities.ReservationStateCancelled),
			goqu.C("start_at").Lt(end),
			goqu.L("start_at + make_interval(mins => duration_minutes)").Gt(start),
		).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build overlap query", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to check overlap", err)
	}
	return count > 0, nil
}

// GetByID retrieves a reservation by ID
func (a *ReservationAdapter) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	query, args, err := a.db.Select(reservationColumns...).
		From("reservations").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	reservation, err := a.scanReservation(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get reservation", err)
	}
	return reservation, nil
}

// GetByCode retrieves a reservation by its public code
func (a *ReservationAdapter) GetByCode(ctx context.Context, code string) (*entities.Reservation, error) {
	query, args, err := a.db.Select(reservationColumns...).
		From("reservations").
		Where(goqu.Ex{"code": code}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	reservation, err := a.scanReservation(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("reservation with code %s not found", code))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get reservation", err)
	}
	return reservation, nil
}

// Update updates a reservation
func (a *ReservationAdapter) Update(ctx context.Context, reservation *entities.Reservation) error {
	record := goqu.Record{
		"state":         reservation.State,
		"cancelled_by":  reservation.CancelledBy,
		"cancelled_at":  reservation.CancelledAt,
		"cancel_reason": reservation.CancelReason,
		"updated_at":    reservation.UpdatedAt,
	}

	query, args, err := a.db.Update("reservations").
		Set(record).
		Where(goqu.Ex{"id": reservation.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update reservation", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %s not found", reservation.ID))
	}
	return nil
}

// ListByStationAndRange retrieves reservations at a station whose interval
// overlaps [from, to), ordered by start time
func (a *ReservationAdapter) ListByStationAndRange(ctx context.Context, stationID string, from, to time.Time) ([]*entities.Reservation, error) {
	query, args, err := a.db.Select(reservationColumns...).
		From("reservations").
		Where(
			goqu.Ex{"station_id": stationID},
			goqu.C("start_at").Lt(to),
			goqu.L("start_at + make_interval(mins => duration_minutes)").Gt(from),
		).
		Order(goqu.I("start_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reservations", err)
	}
	defer rows.Close()

	var reservations []*entities.Reservation
	for rows.Next() {
		reservation, err := a.scanReservation(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan reservation", err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate reservations", err)
	}
	return reservations, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (a *ReservationAdapter) scanReservation(row rowScanner) (*entities.Reservation, error) {
	reservation := &entities.Reservation{}
	var customerAccountID, cancelledBy sql.NullString
	var customerPhone, cancelReason sql.NullString
	var cancelledAt sql.NullTime

	err := row.Scan(
		&reservation.ID,
		&reservation.Code,
		&reservation.StationID,
		&reservation.ServiceID,
		&customerAccountID,
		&reservation.CustomerName,
		&reservation.CustomerEmail,
		&customerPhone,
		&reservation.StartAt,
		&reservation.DurationMinutes,
		&reservation.PriceCents,
		&reservation.LoyaltyPoints,
		&reservation.State,
		&reservation.CreatedBy,
		&reservation.CreatedByRole,
		&cancelledBy,
		&cancelledAt,
		&cancelReason,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if customerAccountID.Valid {
		reservation.CustomerAccountID = &customerAccountID.String
	}
	if cancelledBy.Valid {
		reservation.CancelledBy = &cancelledBy.String
	}
	if cancelledAt.Valid {
		reservation.CancelledAt = &cancelledAt.Time
	}
	reservation.CustomerPhone = customerPhone.String
	reservation.CancelReason = cancelReason.String

	return reservation, nil
}
