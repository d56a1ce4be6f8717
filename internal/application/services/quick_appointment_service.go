package services

import (
	"context"
	"sort"
	"time"

	"github.com/dcastano/turnero/internal/domain/entities"
	"github.com/dcastano/turnero/internal/domain/repositories"
	apperrors "github.com/dcastano/turnero/pkg/errors"
)

// defaultQuickSearchHorizonDays bounds the per-station day scan
const defaultQuickSearchHorizonDays = 7

// defaultQuickSearchMaxResults caps the ranked result list
const defaultQuickSearchMaxResults = 5

// QuickAppointmentOption is one station's earliest available slot
type QuickAppointmentOption struct {
	Station     *entities.Station `json:"station"`
	SlotStart   time.Time         `json:"slot_start"`
	WaitMinutes int               `json:"wait_minutes"`
}

// QuickAppointmentService finds the earliest available slot per eligible
// station and ranks the options by wait time
type QuickAppointmentService struct {
	stationRepo   repositories.StationRepository
	serviceRepo   repositories.ServiceRepository
	availability  *AvailabilityService
	horizonDays   int
	defaultMaxRes int
}

// NewQuickAppointmentService creates a new quick appointment service
func NewQuickAppointmentService(
	stationRepo repositories.StationRepository,
	serviceRepo repositories.ServiceRepository,
	availability *AvailabilityService,
	horizonDays int,
	defaultMaxResults int,
) *QuickAppointmentService {
	if horizonDays <= 0 {
		horizonDays = defaultQuickSearchHorizonDays
	}
	if defaultMaxResults <= 0 {
		defaultMaxResults = defaultQuickSearchMaxResults
	}
	return &QuickAppointmentService{
		stationRepo:   stationRepo,
		serviceRepo:   serviceRepo,
		availability:  availability,
		horizonDays:   horizonDays,
		defaultMaxRes: defaultMaxResults,
	}
}

// FindEarliest scans every station that can accept bookings, over a bounded
// horizon of consecutive days starting at "from", and returns the options
// ranked ascending by wait. Ties keep station iteration order. A station
// with nothing inside the horizon is silently excluded; no eligible
// stations at all yields an empty result, not an error.
func (s *QuickAppointmentService) FindEarliest(ctx context.Context, serviceID string, from time.Time, maxResults int) ([]QuickAppointmentOption, error) {
	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewValidationError("service does not exist")
		}
		return nil, err
	}
	if !svc.IsActive {
		return nil, apperrors.NewValidationError("service is not active")
	}

	if maxResults <= 0 {
		maxResults = s.defaultMaxRes
	}

	stations, err := s.stationRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	options := []QuickAppointmentOption{}
	for _, station := range stations {
		if !station.CanAcceptBookings() {
			continue
		}

		slot, err := s.earliestForStation(ctx, station, from, svc.DurationMinutes)
		if err != nil {
			return nil, err
		}
		if slot == nil {
			continue
		}

		options = append(options, QuickAppointmentOption{
			Station:     station,
			SlotStart:   *slot,
			WaitMinutes: int(slot.Sub(from).Minutes()),
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].WaitMinutes < options[j].WaitMinutes
	})

	if len(options) > maxResults {
		options = options[:maxResults]
	}
	return options, nil
}

// earliestForStation walks consecutive days and stops at the first day that
// yields a slot. The scan stops promptly when the request is cancelled.
func (s *QuickAppointmentService) earliestForStation(ctx context.Context, station *entities.Station, from time.Time, durationMinutes int) (*time.Time, error) {
	for day := 0; day < s.horizonDays; day++ {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewInternalError("quick appointment search aborted", err)
		}

		dayFrom := from
		if day > 0 {
			dayFrom = entities.DateOnly(from).AddDate(0, 0, day)
		}

		slot, err := s.availability.FirstAvailableOnOrAfter(ctx, station, dayFrom, durationMinutes)
		if err != nil {
			return nil, err
		}
		if slot != nil {
			return slot, nil
		}
	}
	return nil, nil
}
