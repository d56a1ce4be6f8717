package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dcastano/turnero/internal/adapters/cache"
	"github.com/dcastano/turnero/internal/adapters/database"
	"github.com/dcastano/turnero/internal/adapters/events"
	"github.com/dcastano/turnero/internal/adapters/providers/loyalty"
	"github.com/dcastano/turnero/internal/api/handlers"
	"github.com/dcastano/turnero/internal/api/routes"
	"github.com/dcastano/turnero/internal/application/services"
	"github.com/dcastano/turnero/internal/domain/providers"
	"github.com/dcastano/turnero/internal/infrastructure/clients/postgres"
	"github.com/dcastano/turnero/internal/infrastructure/clients/redis"
	"github.com/dcastano/turnero/internal/infrastructure/observability"
	"github.com/dcastano/turnero/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger("turnero-api", cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Initialize Redis client; the service degrades to uncached operation
	// without it
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, running without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	// Initialize adapters
	stationAdapter := database.NewStationAdapter(pgClient)
	serviceAdapter := database.NewServiceAdapter(pgClient)
	scheduleAdapter := database.NewScheduleAdapter(pgClient)
	reservationAdapter := database.NewReservationAdapter(pgClient)
	settingsAdapter := database.NewSettingsAdapter(pgClient)

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for post-commit reservation notifications
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("event bus initialized")
	} else {
		log.Info().Msg("event bus disabled (Redis not available)")
	}

	var loyaltyProvider providers.LoyaltyProvider
	if cfg.Loyalty.APIURL != "" {
		loyaltyProvider = loyalty.NewHTTPLoyaltyProvider(cfg.Loyalty.APIURL, cfg.Loyalty.APIKey)
		log.Info().Msg("loyalty provider initialized")
	} else {
		log.Warn().Msg("LOYALTY_API_URL is not set; using mock loyalty provider")
		loyaltyProvider = loyalty.NewMockLoyaltyProvider()
	}

	// Initialize services
	availabilityCache := services.NewAvailabilityCache(cacheProvider, cfg.Booking.AvailabilityCacheTTLSeconds)
	availabilityCache.SetMetrics(metrics)

	scheduleResolver := services.NewScheduleResolver(scheduleAdapter)

	availabilityService := services.NewAvailabilityService(
		stationAdapter,
		serviceAdapter,
		reservationAdapter,
		scheduleResolver,
		availabilityCache,
	)

	quickAppointmentService := services.NewQuickAppointmentService(
		stationAdapter,
		serviceAdapter,
		availabilityService,
		cfg.Booking.QuickSearchHorizonDays,
		cfg.Booking.QuickSearchMaxResults,
	)

	reservationService := services.NewReservationService(
		reservationAdapter,
		stationAdapter,
		serviceAdapter,
		settingsAdapter,
		scheduleResolver,
		availabilityCache,
		cfg.Booking.MinCancelLeadMinutes,
	)
	if eventBus != nil {
		reservationService.SetEventBus(eventBus)
	}
	reservationService.SetLoyaltyProvider(loyaltyProvider)

	// Initialize handlers
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService, quickAppointmentService)
	reservationHandler := handlers.NewReservationHandler(reservationService)

	var eventsHandler *handlers.EventsHandler
	if eventBus != nil {
		eventsHandler = handlers.NewEventsHandler(eventBus)
	}

	// Set up router
	router := routes.NewRouter(
		availabilityHandler,
		reservationHandler,
		eventsHandler,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
