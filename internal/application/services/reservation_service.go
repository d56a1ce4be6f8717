package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dcastano/turnero/internal/domain/entities"
	"github.com/dcastano/turnero/internal/domain/providers"
	"github.com/dcastano/turnero/internal/domain/repositories"
	apperrors "github.com/dcastano/turnero/pkg/errors"
)

// RoleAdmin bypasses the cancellation lead-time gate
const RoleAdmin = "admin"

// completeTolerance allows completion slightly ahead of the scheduled start
const completeTolerance = 15 * time.Minute

// codeGenerationAttempts bounds retries on reservation code collisions
const codeGenerationAttempts = 5

// Actor identifies who is performing a reservation mutation
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// IsAdmin reports whether the actor holds the administrative role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// BookRequest carries the inputs for creating a reservation
type BookRequest struct {
	StationID         string    `json:"station_id"`
	ServiceID         string    `json:"service_id"`
	CustomerAccountID *string   `json:"customer_account_id,omitempty"`
	CustomerName      string    `json:"customer_name"`
	CustomerEmail     string    `json:"customer_email"`
	CustomerPhone     string    `json:"customer_phone"`
	StartAt           time.Time `json:"start_at"`
	Actor             Actor     `json:"-"`
}

// CancelRequest carries the inputs for cancelling a reservation. Exactly
// one of ReservationID or Code is set; cancelling by code additionally
// requires the booking email for ownership verification.
type CancelRequest struct {
	ReservationID string `json:"reservation_id,omitempty"`
	Code          string `json:"code,omitempty"`
	Email         string `json:"email,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Actor         Actor  `json:"-"`
}

// ReservationService drives reservations through their lifecycle:
// pending -> confirmed -> completed, with cancellation allowed from pending
// and confirmed. Completed and cancelled are terminal. Every mutation that
// changes occupancy invalidates the availability cache before reporting
// success.
type ReservationService struct {
	reservationRepo repositories.ReservationRepository
	stationRepo     repositories.StationRepository
	serviceRepo     repositories.ServiceRepository
	settingsRepo    repositories.SettingsRepository
	resolver        *ScheduleResolver
	cache           *AvailabilityCache
	eventBus        providers.EventBus
	loyalty         providers.LoyaltyProvider
	defaultLeadMin  int
	now             func() time.Time
}

// NewReservationService creates a new reservation service
func NewReservationService(
	reservationRepo repositories.ReservationRepository,
	stationRepo repositories.StationRepository,
	serviceRepo repositories.ServiceRepository,
	settingsRepo repositories.SettingsRepository,
	resolver *ScheduleResolver,
	cache *AvailabilityCache,
	defaultLeadMinutes int,
) *ReservationService {
	if defaultLeadMinutes <= 0 {
		defaultLeadMinutes = 30
	}
	return &ReservationService{
		reservationRepo: reservationRepo,
		stationRepo:     stationRepo,
		serviceRepo:     serviceRepo,
		settingsRepo:    settingsRepo,
		resolver:        resolver,
		cache:           cache,
		defaultLeadMin:  defaultLeadMinutes,
		now:             time.Now,
	}
}

// SetEventBus wires the reservation event bus for post-commit notifications
func (s *ReservationService) SetEventBus(eventBus providers.EventBus) {
	s.eventBus = eventBus
}

// SetLoyaltyProvider wires the loyalty point collaborator
func (s *ReservationService) SetLoyaltyProvider(loyalty providers.LoyaltyProvider) {
	s.loyalty = loyalty
}

// SetClock overrides the wall clock; "now" is read once per operation
func (s *ReservationService) SetClock(now func() time.Time) {
	s.now = now
}

// Book validates the request, snapshots the service's duration, price and
// loyalty points, generates a unique reservation code, and persists. The
// repository re-checks occupancy inside its write transaction with the
// station row locked, closing the race between the pre-check here and the
// commit.
func (s *ReservationService) Book(ctx context.Context, req BookRequest) (*entities.Reservation, error) {
	now := s.now().UTC()

	station, err := s.stationRepo.GetByID(ctx, req.StationID)
	if err != nil {
		return nil, err
	}
	if !station.CanAcceptBookings() {
		return nil, apperrors.NewValidationError("station cannot accept bookings")
	}

	svc, err := s.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, apperrors.NewValidationError("service is not active")
	}

	if req.CustomerName == "" || req.CustomerEmail == "" {
		return nil, apperrors.NewValidationError("customer name and email are required")
	}
	if !req.StartAt.After(now) {
		return nil, apperrors.NewValidationError("reservation start must be in the future")
	}

	duration := time.Duration(svc.DurationMinutes) * time.Minute
	window, err := s.resolver.Resolve(ctx, &station.ID, req.StartAt, station.UsesGenericSchedule)
	if err != nil {
		return nil, err
	}
	if window == nil || req.StartAt.Before(window.Start) || req.StartAt.Add(duration).After(window.End) {
		return nil, apperrors.NewValidationError("requested time is outside working hours")
	}

	dayFrom, dayTo := repositories.ReservationDayOf(req.StartAt)
	existing, err := s.reservationRepo.ListByStationAndRange(ctx, req.StationID, dayFrom, dayTo)
	if err != nil {
		return nil, err
	}
	if entities.IntervalOccupied(req.StartAt, req.StartAt.Add(duration), existing) {
		return nil, apperrors.NewConflictError("requested time is already booked")
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	reservation := &entities.Reservation{
		ID:                uuid.New().String(),
		Code:              code,
		StationID:         req.StationID,
		ServiceID:         req.ServiceID,
		CustomerAccountID: req.CustomerAccountID,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		StartAt:           req.StartAt,
		DurationMinutes:   svc.DurationMinutes,
		PriceCents:        svc.PriceCents,
		LoyaltyPoints:     svc.LoyaltyPoints,
		State:             entities.ReservationStatePending,
		CreatedBy:         req.Actor.ID,
		CreatedByRole:     req.Actor.Role,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, reservation.StationID, reservation.StartAt)
	s.publish(ctx, reservation, entities.ReservationEventTypeBooked)
	return reservation, nil
}

// GetByCode retrieves a reservation by its public code
func (s *ReservationService) GetByCode(ctx context.Context, code string) (*entities.Reservation, error) {
	return s.reservationRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// Cancel transitions a reservation to cancelled, recording who cancelled,
// when and why. Non-admin actors are held to the minimum lead time sourced
// from the settings store.
func (s *ReservationService) Cancel(ctx context.Context, req CancelRequest) (*entities.Reservation, error) {
	now := s.now().UTC()

	reservation, err := s.lookupForCancel(ctx, req)
	if err != nil {
		return nil, err
	}

	if reservation.IsTerminal() {
		return nil, apperrors.NewInvalidStateError("reservation is already " + string(reservation.State))
	}

	if !req.Actor.IsAdmin() {
		lead := s.leadMinutes(ctx)
		if !reservation.StartAt.After(now.Add(time.Duration(lead) * time.Minute)) {
			return nil, apperrors.NewTooLateError("cancellation window has closed")
		}
	}

	reservation.State = entities.ReservationStateCancelled
	reservation.CancelledBy = &req.Actor.ID
	reservation.CancelledAt = &now
	reservation.CancelReason = req.Reason
	reservation.UpdatedAt = now

	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, reservation.StationID, reservation.StartAt)
	s.publish(ctx, reservation, entities.ReservationEventTypeCancelled)
	return reservation, nil
}

// Complete transitions a reservation to completed. Completion is allowed up
// to 15 minutes ahead of the scheduled start but not earlier. A completed
// reservation still occupies its interval, so the availability cache is
// left alone.
func (s *ReservationService) Complete(ctx context.Context, reservationID string, actor Actor) (*entities.Reservation, error) {
	now := s.now().UTC()

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if reservation.IsTerminal() {
		return nil, apperrors.NewInvalidStateError("reservation is already " + string(reservation.State))
	}

	if reservation.StartAt.After(now.Add(completeTolerance)) {
		return nil, apperrors.NewTooEarlyError("reservation has not started yet")
	}

	reservation.State = entities.ReservationStateCompleted
	reservation.UpdatedAt = now

	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, err
	}

	s.creditLoyalty(ctx, reservation)
	s.publish(ctx, reservation, entities.ReservationEventTypeCompleted)
	return reservation, nil
}

// lookupForCancel fetches by id or by code. The by-code path verifies
// ownership by matching the booking email case-insensitively.
func (s *ReservationService) lookupForCancel(ctx context.Context, req CancelRequest) (*entities.Reservation, error) {
	if req.Code != "" {
		reservation, err := s.reservationRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(req.Code)))
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(strings.TrimSpace(req.Email), reservation.CustomerEmail) {
			return nil, apperrors.NewForbiddenError("email does not match the reservation")
		}
		return reservation, nil
	}
	return s.reservationRepo.GetByID(ctx, req.ReservationID)
}

// leadMinutes reads the cancellation lead time, falling back to the
// configured default when the settings store fails
func (s *ReservationService) leadMinutes(ctx context.Context) int {
	lead, err := s.settingsRepo.GetInt(ctx, repositories.SettingMinCancelLeadMinutes, s.defaultLeadMin)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read cancellation lead time, using default")
		return s.defaultLeadMin
	}
	return lead
}

// uniqueCode generates a reservation code not yet present in the store.
// The store's unique constraint backs the residual race.
func (s *ReservationService) uniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		code := entities.NewReservationCode()
		_, err := s.reservationRepo.GetByCode(ctx, code)
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", apperrors.NewInternalError("could not generate a unique reservation code", nil)
}

func (s *ReservationService) creditLoyalty(ctx context.Context, reservation *entities.Reservation) {
	if s.loyalty == nil || reservation.LoyaltyPoints <= 0 || reservation.CustomerAccountID == nil {
		return
	}
	if err := s.loyalty.Credit(ctx, *reservation.CustomerAccountID, reservation.LoyaltyPoints, reservation.ID); err != nil {
		log.Error().Err(err).
			Str("reservation_id", reservation.ID).
			Msg("failed to credit loyalty points")
	}
}

func (s *ReservationService) publish(ctx context.Context, reservation *entities.Reservation, eventType entities.ReservationEventType) {
	if s.eventBus == nil {
		return
	}
	event := entities.NewReservationEvent(reservation, eventType)
	if err := s.eventBus.Publish(ctx, providers.EventChannelReservations, event); err != nil {
		log.Warn().Err(err).
			Str("reservation_id", reservation.ID).
			Str("event_type", string(eventType)).
			Msg("failed to publish reservation event")
	}
}
