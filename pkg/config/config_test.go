package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_BookingConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("BOOKING_MIN_CANCEL_LEAD_MINUTES", "60")
	os.Setenv("BOOKING_QUICK_SEARCH_HORIZON_DAYS", "14")
	defer func() {
		os.Unsetenv("BOOKING_MIN_CANCEL_LEAD_MINUTES")
		os.Unsetenv("BOOKING_QUICK_SEARCH_HORIZON_DAYS")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 60, cfg.Booking.MinCancelLeadMinutes)
	assert.Equal(t, 14, cfg.Booking.QuickSearchHorizonDays)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("BOOKING_MIN_CANCEL_LEAD_MINUTES")
	os.Unsetenv("BOOKING_QUICK_SEARCH_HORIZON_DAYS")
	os.Unsetenv("BOOKING_QUICK_SEARCH_MAX_RESULTS")
	os.Unsetenv("BOOKING_AVAILABILITY_CACHE_TTL_SECONDS")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 30, cfg.Booking.MinCancelLeadMinutes)
	assert.Equal(t, 7, cfg.Booking.QuickSearchHorizonDays)
	assert.Equal(t, 5, cfg.Booking.QuickSearchMaxResults)
	assert.Equal(t, 300, cfg.Booking.AvailabilityCacheTTLSeconds)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "turnero", cfg.Database.Database)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "secret",
		Database: "turnero",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=app password=secret dbname=turnero sslmode=require",
		cfg.DatabaseDSN(),
	)
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
}
