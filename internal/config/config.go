package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	ListenAddress   string
	DatabaseURL     string
	CORSAllowOrigin string
	Debug           bool

	OtelEndpoint       string
	OtelServiceName    string
	OtelServiceVersion string
}

// Load reads configuration from environment variables. DB_URL is the only
// required setting; a missing or empty value is a fatal configuration
// error surfaced to the caller.
func Load() (*Config, error) {
	dbURL := GetEnv("DB_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("missing required DB_URL environment variable")
	}

	cfg := &Config{
		ListenAddress:   GetEnv("LISTEN_ADDRESS", ":8080"),
		DatabaseURL:     NormalizeDatabaseURL(dbURL),
		CORSAllowOrigin: GetEnv("CORS_ALLOW_ORIGIN", "*"),

		OtelEndpoint:       GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OtelServiceName:    GetEnv("OTEL_SERVICE_NAME", "neuroquery-backend"),
		OtelServiceVersion: GetEnv("OTEL_SERVICE_VERSION", "1.0.0"),
	}

	cfg.Debug, _ = strconv.ParseBool(GetEnv("DEBUG", "false"))

	return cfg, nil
}

// NormalizeDatabaseURL rewrites the legacy "postgres://" scheme alias to
// the standard "postgresql://" scheme. Other values pass through
// unchanged.
func NormalizeDatabaseURL(dbURL string) string {
	if rest, ok := strings.CutPrefix(dbURL, "postgres://"); ok {
		return "postgresql://" + rest
	}
	return dbURL
}

// GetEnv retrieves an environment variable or returns a default value.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
