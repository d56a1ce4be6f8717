package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dcastano/turnero/internal/domain/providers"
)

// heartbeatInterval keeps intermediaries from timing out idle streams
const heartbeatInterval = 30 * time.Second

// EventsHandler streams reservation lifecycle events over Server-Sent
// Events so dashboards can follow bookings, cancellations and completions
// as they happen.
type EventsHandler struct {
	eventBus providers.EventBus
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(eventBus providers.EventBus) *EventsHandler {
	return &EventsHandler{eventBus: eventBus}
}

// StreamReservationUpdates handles SSE connections for reservation events.
// An optional station_id query parameter narrows the stream to one station.
// GET /api/stream/reservations?station_id=...
func (h *EventsHandler) StreamReservationUpdates(w http.ResponseWriter, r *http.Request) {
	stationID := r.URL.Query().Get("station_id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	eventChan, err := h.eventBus.Subscribe(r.Context(), providers.EventChannelReservations)
	if err != nil {
		log.Error().Err(err).Msg("failed to subscribe to reservation events")
		respondWithError(w, http.StatusInternalServerError, "failed to subscribe to events")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	h.sendEvent(w, "connected", map[string]interface{}{
		"station_id": stationID,
		"timestamp":  time.Now().UTC(),
	})
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("station_id", stationID).Msg("client disconnected from reservation stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
			flusher.Flush()
		case event, open := <-eventChan:
			if !open {
				return
			}
			if event == nil {
				continue
			}
			if stationID != "" && event.StationID != stationID {
				continue
			}
			h.sendEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

// sendEvent writes one SSE frame
func (h *EventsHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("failed to marshal stream event")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
