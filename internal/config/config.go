package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Data backends selectable with DATA_BACKEND.
const (
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// DevJWTSecret is the fallback signing secret for local runs.
const DevJWTSecret = "bfa-default-dev-secret-change-me"

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Record store
	DataBackend  string
	SQLitePath   string
	HTTPTimeout  time.Duration
	SupabaseURL  string
	SupabaseAnon string
	SupabaseKey  string

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string
	OTelEnabled  bool

	// Auth
	JWTSecret string

	// Reporting
	ReportMonths    int
	ActivityLimit   int
	LegacyMonthKeys bool
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataBackend:  strings.ToLower(getEnv("DATA_BACKEND", BackendSupabase)),
		SQLitePath:   getEnv("SQLITE_DB_PATH", "./data/dashboard.db"),
		HTTPTimeout:  getEnvDuration("HTTP_TIMEOUT", 10*time.Second),
		SupabaseURL:  strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseAnon: getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseKey:  getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		CacheTTL: getEnvDuration("CACHE_TTL", 30*time.Second),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelEnabled:  getEnvBool("OTEL_ENABLED", false),

		JWTSecret: getEnv("JWT_SECRET", DevJWTSecret),

		ReportMonths:    getEnvInt("REPORT_MONTHS", 12),
		ActivityLimit:   getEnvInt("ACTIVITY_LIMIT", 5),
		LegacyMonthKeys: getEnvBool("LEGACY_MONTH_KEYS", false),
	}
}

// Validate reports every setting that would keep the server from starting.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	switch c.DataBackend {
	case BackendSupabase:
		if c.SupabaseURL == "" {
			errs = append(errs, errors.New("SUPABASE_URL is required when DATA_BACKEND=supabase"))
		}
		if c.SupabaseKey == "" {
			errs = append(errs, errors.New("SUPABASE_SERVICE_ROLE_KEY is required when DATA_BACKEND=supabase"))
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_DB_PATH is required when DATA_BACKEND=sqlite"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("DATA_BACKEND must be one of supabase, sqlite, memory; got %q", c.DataBackend))
	}
	if c.ReportMonths < 1 {
		errs = append(errs, fmt.Errorf("REPORT_MONTHS must be at least 1, got %d", c.ReportMonths))
	}
	if c.ActivityLimit < 1 || c.ActivityLimit > 50 {
		errs = append(errs, fmt.Errorf("ACTIVITY_LIMIT must be between 1 and 50, got %d", c.ActivityLimit))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
