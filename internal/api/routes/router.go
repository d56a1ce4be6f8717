package routes

import (
	"net/http"

	"github.com/dcastano/turnero/internal/api/handlers"
	"github.com/dcastano/turnero/internal/api/middleware"
	"github.com/dcastano/turnero/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	availabilityHandler *handlers.AvailabilityHandler
	reservationHandler  *handlers.ReservationHandler
	eventsHandler       *handlers.EventsHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router. The events handler is nil when no event
// bus is available; the stream route is left unregistered in that case.
func NewRouter(
	availabilityHandler *handlers.AvailabilityHandler,
	reservationHandler *handlers.ReservationHandler,
	eventsHandler *handlers.EventsHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		availabilityHandler: availabilityHandler,
		reservationHandler:  reservationHandler,
		eventsHandler:       eventsHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Availability endpoints
	r.mux.HandleFunc("GET /api/stations/{id}/slots", r.availabilityHandler.GetSlots)
	r.mux.HandleFunc("GET /api/quick-appointments", r.availabilityHandler.QuickAppointments)

	// Reservation endpoints
	r.mux.HandleFunc("POST /api/reservations", r.reservationHandler.Book)
	r.mux.HandleFunc("GET /api/reservations/code/{code}", r.reservationHandler.GetByCode)
	r.mux.HandleFunc("POST /api/reservations/{id}/cancel", r.reservationHandler.Cancel)
	r.mux.HandleFunc("POST /api/reservations/cancel-by-code", r.reservationHandler.CancelByCode)
	r.mux.HandleFunc("POST /api/reservations/{id}/complete", r.reservationHandler.Complete)

	// Live reservation event stream
	if r.eventsHandler != nil {
		r.mux.HandleFunc("GET /api/stream/reservations", r.eventsHandler.StreamReservationUpdates)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on short-circuited responses
	handler = middleware.CORSMiddleware(handler)

	return handler
}
