package services

import (
	"context"
	"time"

	"github.com/dcastano/turnero/internal/domain/entities"
	"github.com/dcastano/turnero/internal/domain/repositories"
	apperrors "github.com/dcastano/turnero/pkg/errors"
)

// AvailabilityService computes the discretized slot list for a station,
// date and service. Slot lookups go through the availability cache; on a
// miss the day's working window is resolved, the day's reservations are
// fetched, and each candidate start is tagged available or unavailable.
type AvailabilityService struct {
	stationRepo     repositories.StationRepository
	serviceRepo     repositories.ServiceRepository
	reservationRepo repositories.ReservationRepository
	resolver        *ScheduleResolver
	cache           *AvailabilityCache
	now             func() time.Time
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(
	stationRepo repositories.StationRepository,
	serviceRepo repositories.ServiceRepository,
	reservationRepo repositories.ReservationRepository,
	resolver *ScheduleResolver,
	cache *AvailabilityCache,
) *AvailabilityService {
	return &AvailabilityService{
		stationRepo:     stationRepo,
		serviceRepo:     serviceRepo,
		reservationRepo: reservationRepo,
		resolver:        resolver,
		cache:           cache,
		now:             time.Now,
	}
}

// SetClock overrides the wall clock. Used by tests; "now" is read once per
// request so slot lists cannot drift mid-computation.
func (s *AvailabilityService) SetClock(now func() time.Time) {
	s.now = now
}

// GetSlots returns the ordered slot list for the station/date/service. An
// empty list means the day has no bookable work; it is not an error.
func (s *AvailabilityService) GetSlots(ctx context.Context, stationID string, date time.Time, serviceID string) ([]entities.Slot, error) {
	station, err := s.stationRepo.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}

	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, apperrors.NewValidationError("service is not active")
	}

	if slots, ok := s.cache.Get(ctx, stationID, date, serviceID); ok {
		return slots, nil
	}

	now := s.now().UTC()

	window, err := s.resolver.Resolve(ctx, &station.ID, date, station.UsesGenericSchedule)
	if err != nil {
		return nil, err
	}
	if window == nil {
		slots := []entities.Slot{}
		s.cache.Set(ctx, stationID, date, serviceID, slots)
		return slots, nil
	}

	from, to := repositories.ReservationDayOf(window.Start)
	reservations, err := s.reservationRepo.ListByStationAndRange(ctx, stationID, from, to)
	if err != nil {
		return nil, err
	}

	slots := buildSlots(*window, svc.DurationMinutes, reservations, now)
	s.cache.Set(ctx, stationID, date, serviceID, slots)
	return slots, nil
}

// buildSlots generates candidate starts every 15 minutes from the window
// start, for as long as a full service fits before the window end, and tags
// each one. Deterministic for a fixed "now".
func buildSlots(window entities.DayWindow, durationMinutes int, reservations []*entities.Reservation, now time.Time) []entities.Slot {
	duration := time.Duration(durationMinutes) * time.Minute
	slots := []entities.Slot{}

	for cursor := window.Start; !cursor.Add(duration).After(window.End); cursor = cursor.Add(entities.SlotGranularity) {
		switch {
		case !cursor.After(now):
			slots = append(slots, entities.NewSlot(cursor, false, entities.UnavailableReasonPast))
		case entities.IntervalOccupied(cursor, cursor.Add(duration), reservations):
			slots = append(slots, entities.NewSlot(cursor, false, entities.UnavailableReasonOccupied))
		default:
			slots = append(slots, entities.NewSlot(cursor, true, ""))
		}
	}

	return slots
}

// FirstAvailableOnOrAfter scans a single day for the earliest unoccupied
// slot whose start is strictly after "from". The scan begins at the working
// window start or, when "from" falls inside the window, at "from" rounded
// up to the next 15-minute boundary. Returns nil when the day yields
// nothing; that is not an error.
func (s *AvailabilityService) FirstAvailableOnOrAfter(ctx context.Context, station *entities.Station, from time.Time, durationMinutes int) (*time.Time, error) {
	window, err := s.resolver.Resolve(ctx, &station.ID, from, station.UsesGenericSchedule)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return nil, nil
	}

	scanStart := window.Start
	if rounded := ceilToGranularity(from); rounded.After(scanStart) {
		scanStart = rounded
	}

	dayFrom, dayTo := repositories.ReservationDayOf(window.Start)
	reservations, err := s.reservationRepo.ListByStationAndRange(ctx, station.ID, dayFrom, dayTo)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(durationMinutes) * time.Minute
	for cursor := scanStart; !cursor.Add(duration).After(window.End); cursor = cursor.Add(entities.SlotGranularity) {
		if !cursor.After(from) {
			continue
		}
		if !entities.IntervalOccupied(cursor, cursor.Add(duration), reservations) {
			found := cursor
			return &found, nil
		}
	}
	return nil, nil
}

// ceilToGranularity rounds t up to the next slot boundary
func ceilToGranularity(t time.Time) time.Time {
	rounded := t.Truncate(entities.SlotGranularity)
	if rounded.Before(t) {
		rounded = rounded.Add(entities.SlotGranularity)
	}
	return rounded
}
