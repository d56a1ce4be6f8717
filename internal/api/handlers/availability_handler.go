package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dcastano/turnero/internal/application/services"
)

// AvailabilityHandler handles slot-availability HTTP requests
type AvailabilityHandler struct {
	availabilityService *services.AvailabilityService
	quickService        *services.QuickAppointmentService
	now                 func() time.Time
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(
	availabilityService *services.AvailabilityService,
	quickService *services.QuickAppointmentService,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: availabilityService,
		quickService:        quickService,
		now:                 time.Now,
	}
}

// SetClock overrides the time source, primarily for tests
func (h *AvailabilityHandler) SetClock(now func() time.Time) {
	h.now = now
}

// GetSlots handles GET /api/stations/{id}/slots?date=YYYY-MM-DD&service_id=...
func (h *AvailabilityHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	stationID := r.PathValue("id")
	if stationID == "" {
		respondWithError(w, http.StatusBadRequest, "station ID is required")
		return
	}

	serviceID := r.URL.Query().Get("service_id")
	if serviceID == "" {
		respondWithError(w, http.StatusBadRequest, "service_id is required")
		return
	}

	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		respondWithError(w, http.StatusBadRequest, "date is required")
		return
	}
	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}

	slots, err := h.availabilityService.GetSlots(r.Context(), stationID, date, serviceID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"station_id": stationID,
		"service_id": serviceID,
		"date":       date.Format("2006-01-02"),
		"slots":      slots,
		"count":      len(slots),
	})
}

// QuickAppointments handles GET /api/quick-appointments?service_id=...&from=RFC3339&max=N
func (h *AvailabilityHandler) QuickAppointments(w http.ResponseWriter, r *http.Request) {
	serviceID := r.URL.Query().Get("service_id")
	if serviceID == "" {
		respondWithError(w, http.StatusBadRequest, "service_id is required")
		return
	}

	from := h.now().UTC()
	if fromParam := r.URL.Query().Get("from"); fromParam != "" {
		parsed, err := time.Parse(time.RFC3339, fromParam)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "from must be an RFC3339 timestamp")
			return
		}
		from = parsed.UTC()
	}

	maxResults := 0
	if maxParam := r.URL.Query().Get("max"); maxParam != "" {
		parsed, err := strconv.Atoi(maxParam)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "max must be a positive integer")
			return
		}
		maxResults = parsed
	}

	options, err := h.quickService.FindEarliest(r.Context(), serviceID, from, maxResults)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"service_id": serviceID,
		"from":       from.Format(time.RFC3339),
		"options":    options,
		"count":      len(options),
	})
}
