package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dcastano/turnero/internal/application/services"
)

// ReservationHandler handles reservation lifecycle HTTP requests
type ReservationHandler struct {
	reservationService *services.ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
	}
}

// actorFromRequest derives the acting identity from the request headers.
// Authentication happens upstream at the gateway; these headers carry the
// verified identity downstream. Absent headers mean an anonymous customer.
func actorFromRequest(r *http.Request) services.Actor {
	return services.Actor{
		ID:   r.Header.Get("X-User-ID"),
		Role: r.Header.Get("X-User-Role"),
	}
}

type bookRequestBody struct {
	StationID         string  `json:"station_id"`
	ServiceID         string  `json:"service_id"`
	CustomerAccountID *string `json:"customer_account_id,omitempty"`
	CustomerName      string  `json:"customer_name"`
	CustomerEmail     string  `json:"customer_email"`
	CustomerPhone     string  `json:"customer_phone"`
	StartAt           string  `json:"start_at"`
}

// Book handles POST /api/reservations
func (h *ReservationHandler) Book(w http.ResponseWriter, r *http.Request) {
	var body bookRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	startAt, err := time.Parse(time.RFC3339, body.StartAt)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "start_at must be an RFC3339 timestamp")
		return
	}

	reservation, err := h.reservationService.Book(r.Context(), services.BookRequest{
		StationID:         body.StationID,
		ServiceID:         body.ServiceID,
		CustomerAccountID: body.CustomerAccountID,
		CustomerName:      body.CustomerName,
		CustomerEmail:     body.CustomerEmail,
		CustomerPhone:     body.CustomerPhone,
		StartAt:           startAt,
		Actor:             actorFromRequest(r),
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, reservation)
}

// GetByCode handles GET /api/reservations/code/{code}
func (h *ReservationHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "reservation code is required")
		return
	}

	reservation, err := h.reservationService.GetByCode(r.Context(), code)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservation)
}

type cancelRequestBody struct {
	Reason string `json:"reason,omitempty"`
}

// Cancel handles POST /api/reservations/{id}/cancel
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	reservationID := r.PathValue("id")
	if reservationID == "" {
		respondWithError(w, http.StatusBadRequest, "reservation ID is required")
		return
	}

	var body cancelRequestBody
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	reservation, err := h.reservationService.Cancel(r.Context(), services.CancelRequest{
		ReservationID: reservationID,
		Reason:        body.Reason,
		Actor:         actorFromRequest(r),
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservation)
}

type cancelByCodeRequestBody struct {
	Code   string `json:"code"`
	Email  string `json:"email"`
	Reason string `json:"reason,omitempty"`
}

// CancelByCode handles POST /api/reservations/cancel-by-code
func (h *ReservationHandler) CancelByCode(w http.ResponseWriter, r *http.Request) {
	var body cancelByCodeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Code == "" || body.Email == "" {
		respondWithError(w, http.StatusBadRequest, "code and email are required")
		return
	}

	reservation, err := h.reservationService.Cancel(r.Context(), services.CancelRequest{
		Code:   body.Code,
		Email:  body.Email,
		Reason: body.Reason,
		Actor:  actorFromRequest(r),
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservation)
}

// Complete handles POST /api/reservations/{id}/complete
func (h *ReservationHandler) Complete(w http.ResponseWriter, r *http.Request) {
	reservationID := r.PathValue("id")
	if reservationID == "" {
		respondWithError(w, http.StatusBadRequest, "reservation ID is required")
		return
	}

	reservation, err := h.reservationService.Complete(r.Context(), reservationID, actorFromRequest(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reservation)
}
