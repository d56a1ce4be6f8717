package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dcastano/turnero/internal/domain/entities"
	"github.com/dcastano/turnero/internal/domain/repositories"
	apperrors "github.com/dcastano/turnero/pkg/errors"
)

func pendingReservation(startAt time.Time) *entities.Reservation {
	return &entities.Reservation{
		ID:              "res-1",
		Code:            "ABC12345",
		StationID:       "st-1",
		ServiceID:       "svc-1",
		CustomerName:    "Ana Gomez",
		CustomerEmail:   "ana@example.com",
		StartAt:         startAt,
		DurationMinutes: 30,
		State:           entities.ReservationStatePending,
	}
}

func TestReservationHandler_Book(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	bookBody := func() string {
		return `{
			"station_id": "st-1",
			"service_id": "svc-1",
			"customer_name": "Ana Gomez",
			"customer_email": "ana@example.com",
			"customer_phone": "555-0101",
			"start_at": "2026-03-02T11:00:00Z"
		}`
	}

	t.Run("creates a reservation", func(t *testing.T) {
		f := newAPIFixture(now)
		f.stationRepo.On("GetByID", mock.Anything, "st-1").Return(staffedStation("st-1"), nil)
		f.serviceRepo.On("GetByID", mock.Anything, "svc-1").Return(activeService("svc-1"), nil)
		f.scheduleRepo.On("ListForDate", mock.Anything, mock.Anything, mock.Anything).Return(mondayHours(), nil)
		f.reservationRepo.On("ListByStationAndRange", mock.Anything, "st-1", mock.Anything, mock.Anything).
			Return([]*entities.Reservation{}, nil)
		f.reservationRepo.On("GetByCode", mock.Anything, mock.AnythingOfType("string")).
			Return(nil, apperrors.NewNotFoundError("reservation not found"))
		f.reservationRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Reservation")).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(bookBody()))
		req.Header.Set("Content-Type", "application/json")
		rec := f.do(req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var got entities.Reservation
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got.Code, 8)
		assert.Equal(t, entities.ReservationStatePending, got.State)
		assert.Equal(t, 30, got.DurationMinutes)
	})

	t.Run("occupied slot is a 409", func(t *testing.T) {
		f := newAPIFixture(now)
		f.stationRepo.On("GetByID", mock.Anything, "st-1").Return(staffedStation("st-1"), nil)
		f.serviceRepo.On("GetByID", mock.Anything, "svc-1").Return(activeService("svc-1"), nil)
		f.scheduleRepo.On("ListForDate", mock.Anything, mock.Anything, mock.Anything).Return(mondayHours(), nil)
		f.reservationRepo.On("ListByStationAndRange", mock.Anything, "st-1", mock.Anything, mock.Anything).
			Return([]*entities.Reservation{
				pendingReservation(time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)),
			}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(bookBody()))
		assert.Equal(t, http.StatusConflict, f.do(req).Code)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		f := newAPIFixture(now)
		req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader("{"))
		assert.Equal(t, http.StatusBadRequest, f.do(req).Code)
	})

	t.Run("non-RFC3339 start is a 400", func(t *testing.T) {
		f := newAPIFixture(now)
		body := `{"station_id":"st-1","service_id":"svc-1","customer_name":"Ana","customer_email":"a@b.c","start_at":"tomorrow at noon"}`
		req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(body))
		assert.Equal(t, http.StatusBadRequest, f.do(req).Code)
	})
}

func TestReservationHandler_GetByCode(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns the reservation", func(t *testing.T) {
		f := newAPIFixture(now)
		f.reservationRepo.On("GetByCode", mock.Anything, "ABC12345").
			Return(pendingReservation(now.Add(24*time.Hour)), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/reservations/code/abc12345", nil)
		rec := f.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got entities.Reservation
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "ABC12345", got.Code)
	})

	t.Run("unknown code is a 404", func(t *testing.T) {
		f := newAPIFixture(now)
		f.reservationRepo.On("GetByCode", mock.Anything, "NOPE0000").
			Return(nil, apperrors.NewNotFoundError("reservation not found"))

		req := httptest.NewRequest(http.MethodGet, "/api/reservations/code/NOPE0000", nil)
		assert.Equal(t, http.StatusNotFound, f.do(req).Code)
	})
}

func TestReservationHandler_Cancel(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("cancels by id", func(t *testing.T) {
		f := newAPIFixture(now)
		f.settingsRepo.On("GetInt", mock.Anything, repositories.SettingMinCancelLeadMinutes, 30).Return(30, nil)
		f.reservationRepo.On("GetByID", mock.Anything, "res-1").
			Return(pendingReservation(now.Add(2*time.Hour)), nil)
		f.reservationRepo.On("Update", mock.Anything, mock.AnythingOfType("*entities.Reservation")).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reservations/res-1/cancel", strings.NewReader(`{"reason":"sick"}`))
		rec := f.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got entities.Reservation
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, entities.ReservationStateCancelled, got.State)
		assert.Equal(t, "sick", got.CancelReason)
	})

	t.Run("inside the lead window is a 422", func(t *testing.T) {
		f := newAPIFixture(now)
		f.settingsRepo.On("GetInt", mock.Anything, repositories.SettingMinCancelLeadMinutes, 30).Return(30, nil)
		f.reservationRepo.On("GetByID", mock.Anything, "res-1").
			Return(pendingReservation(now.Add(10*time.Minute)), nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reservations/res-1/cancel", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, f.do(req).Code)
	})

	t.Run("admin header bypasses the lead window", func(t *testing.T) {
		f := newAPIFixture(now)
		f.reservationRepo.On("GetByID", mock.Anything, "res-1").
			Return(pendingReservation(now.Add(10*time.Minute)), nil)
		f.reservationRepo.On("Update", mock.Anything, mock.AnythingOfType("*entities.Reservation")).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reservations/res-1/cancel", nil)
		req.Header.Set("X-User-ID", "admin-1")
		req.Header.Set("X-User-Role", "admin")
		assert.Equal(t, http.StatusOK, f.do(req).Code)
	})

	t.Run("cancel by code with wrong email is a 403", func(t *testing.T) {
		f := newAPIFixture(now)
		f.reservationRepo.On("GetByCode", mock.Anything, "ABC12345").
			Return(pendingReservation(now.Add(2*time.Hour)), nil)

		body := `{"code":"ABC12345","email":"other@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/reservations/cancel-by-code", strings.NewReader(body))
		assert.Equal(t, http.StatusForbidden, f.do(req).Code)
	})

	t.Run("cancel by code without email is a 400", func(t *testing.T) {
		f := newAPIFixture(now)
		body := `{"code":"ABC12345"}`
		req := httptest.NewRequest(http.MethodPost, "/api/reservations/cancel-by-code", strings.NewReader(body))
		assert.Equal(t, http.StatusBadRequest, f.do(req).Code)
	})

	t.Run("already cancelled is a 409", func(t *testing.T) {
		done := pendingReservation(now.Add(2 * time.Hour))
		done.State = entities.ReservationStateCancelled

		f := newAPIFixture(now)
		f.reservationRepo.On("GetByID", mock.Anything, "res-1").Return(done, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reservations/res-1/cancel", nil)
		assert.Equal(t, http.StatusConflict, f.do(req).Code)
	})
}

func TestReservationHandler_Complete(t *testing.T) {
	now := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

	t.Run("completes a started reservation", func(t *testing.T) {
		started := pendingReservation(now.Add(-time.Hour))
		started.State = entities.ReservationStateConfirmed

		f := newAPIFixture(now)
		f.reservationRepo.On("GetByID", mock.Anything, "res-1").Return(started, nil)
		f.reservationRepo.On("Update", mock.Anything, mock.AnythingOfType("*entities.Reservation")).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reservations/res-1/complete", nil)
		rec := f.do(req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got entities.Reservation
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, entities.ReservationStateCompleted, got.State)
	})

	t.Run("too early is a 422", func(t *testing.T) {
		f := newAPIFixture(now)
		f.reservationRepo.On("GetByID", mock.Anything, "res-1").
			Return(pendingReservation(now.Add(time.Hour)), nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reservations/res-1/complete", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, f.do(req).Code)
	})

	t.Run("unknown reservation is a 404", func(t *testing.T) {
		f := newAPIFixture(now)
		f.reservationRepo.On("GetByID", mock.Anything, "ghost").
			Return(nil, apperrors.NewNotFoundError("reservation not found"))

		req := httptest.NewRequest(http.MethodPost, "/api/reservations/ghost/complete", nil)
		assert.Equal(t, http.StatusNotFound, f.do(req).Code)
	})
}
