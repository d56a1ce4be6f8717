package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Booking  BookingConfig
	Loyalty  LoyaltyConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// BookingConfig holds scheduling defaults
type BookingConfig struct {
	// MinCancelLeadMinutes is the fallback when the settings store has no
	// value for the cancellation lead time.
	MinCancelLeadMinutes int

	// QuickSearchHorizonDays bounds the quick-appointment day scan.
	QuickSearchHorizonDays int

	// QuickSearchMaxResults is the default result cap for quick appointments.
	QuickSearchMaxResults int

	// AvailabilityCacheTTLSeconds is a safety net on top of explicit
	// invalidation; it is not the correctness mechanism.
	AvailabilityCacheTTLSeconds int
}

// LoyaltyConfig holds loyalty service configuration. An empty APIURL
// disables external crediting.
type LoyaltyConfig struct {
	APIURL string
	APIKey string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "turnero"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Booking: BookingConfig{
			MinCancelLeadMinutes:        getEnvAsInt("BOOKING_MIN_CANCEL_LEAD_MINUTES", 30),
			QuickSearchHorizonDays:      getEnvAsInt("BOOKING_QUICK_SEARCH_HORIZON_DAYS", 7),
			QuickSearchMaxResults:       getEnvAsInt("BOOKING_QUICK_SEARCH_MAX_RESULTS", 5),
			AvailabilityCacheTTLSeconds: getEnvAsInt("BOOKING_AVAILABILITY_CACHE_TTL_SECONDS", 300),
		},
		Loyalty: LoyaltyConfig{
			APIURL: getEnv("LOYALTY_API_URL", ""),
			APIKey: getEnv("LOYALTY_API_KEY", ""),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "turnero"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
