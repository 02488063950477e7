package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration (house document store)
	Database DatabaseConfig

	// Helpdesk upstream configuration
	Helpdesk HelpdeskConfig

	// API authentication
	Auth AuthConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// CORS configuration
	CORS CORSConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// HelpdeskConfig holds the upstream helpdesk account settings, including the
// account-specific custom-field ids the dashboard tracks.
type HelpdeskConfig struct {
	BaseURL           string
	Email             string
	APIToken          string
	Timeout           time.Duration
	RequestsPerMinute int

	// Pagination behavior for the aggregators
	PerPage   int
	MaxPages  int
	PageDelay time.Duration

	Fields TrackedFieldIDs
}

// TrackedFieldIDs maps each tracked concept to its opaque custom-field id.
type TrackedFieldIDs struct {
	Home       int64
	Team       int64
	Area       int64
	Category   int64
	FixStatus  int64
	Payer      int64
	Approvals  int64
	CausalCode int64
}

// AuthConfig holds the static bearer token consumed by the dashboard.
type AuthConfig struct {
	APIToken string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
}

// CORSConfig holds the dashboard origins allowed to call this API.
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getIntOrDefault("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntOrDefault("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getDurationOrDefault("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Helpdesk: HelpdeskConfig{
			BaseURL:           os.Getenv("HELPDESK_BASE_URL"),
			Email:             os.Getenv("HELPDESK_EMAIL"),
			APIToken:          os.Getenv("HELPDESK_API_TOKEN"),
			Timeout:           getDurationOrDefault("HELPDESK_TIMEOUT", 30*time.Second),
			RequestsPerMinute: getIntOrDefault("HELPDESK_REQUESTS_PER_MINUTE", 200),
			PerPage:           getIntOrDefault("HELPDESK_PER_PAGE", 100),
			MaxPages:          getIntOrDefault("HELPDESK_MAX_PAGES", 1000),
			PageDelay:         getDurationOrDefault("HELPDESK_PAGE_DELAY", 200*time.Millisecond),
			Fields: TrackedFieldIDs{
				Home:       getInt64OrDefault("FIELD_ID_HOME", 0),
				Team:       getInt64OrDefault("FIELD_ID_TEAM", 0),
				Area:       getInt64OrDefault("FIELD_ID_AREA", 0),
				Category:   getInt64OrDefault("FIELD_ID_CATEGORY", 0),
				FixStatus:  getInt64OrDefault("FIELD_ID_FIX_STATUS", 0),
				Payer:      getInt64OrDefault("FIELD_ID_PAYER", 0),
				Approvals:  getInt64OrDefault("FIELD_ID_APPROVALS", 0),
				CausalCode: getInt64OrDefault("FIELD_ID_CAUSAL_CODE", 0),
			},
		},
		Auth: AuthConfig{
			APIToken: os.Getenv("API_TOKEN"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 10),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 20),
		},
		CORS: CORSConfig{
			AllowedOrigins: getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "vivla-middleware"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	// Required fields
	if c.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.Helpdesk.BaseURL == "" {
		errs = append(errs, "HELPDESK_BASE_URL is required")
	}
	if c.Helpdesk.APIToken == "" {
		errs = append(errs, "HELPDESK_API_TOKEN is required")
	}
	if c.Helpdesk.Fields.Home == 0 {
		errs = append(errs, "FIELD_ID_HOME is required")
	}

	if c.App.Environment == "production" {
		if c.Auth.APIToken == "" {
			errs = append(errs, "API_TOKEN must be set in production")
		}
		if len(c.CORS.AllowedOrigins) == 1 && c.CORS.AllowedOrigins[0] == "*" {
			errs = append(errs, "CORS_ALLOWED_ORIGINS must be restricted in production")
		}
	}

	// Logical validations
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, "DB_MAX_IDLE_CONNS cannot be greater than DB_MAX_OPEN_CONNS")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s, DB: %s, Helpdesk: %s, RateLimit: %v, Environment: %s}",
		c.Server.Port,
		redactURL(c.Database.URL),
		c.Helpdesk.BaseURL,
		c.RateLimit.Enabled,
		c.App.Environment,
	)
}

// redactURL redacts sensitive parts of a database URL
func redactURL(url string) string {
	if url == "" {
		return ""
	}
	if idx := strings.Index(url, "@"); idx > 0 {
		return "[REDACTED]" + url[idx:]
	}
	return "[REDACTED]"
}
