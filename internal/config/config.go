package config

import (
	"crypto/rand"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tair/product-catalog/pkg/database"
	"github.com/tair/product-catalog/pkg/tracing"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const csrfKeyLength = 32

// Config holds the catalog service configuration
type Config struct {
	ServiceName     string
	Environment     string
	LogLevel        string
	HTTPPort        string
	Storage         string
	Database        database.Config
	KafkaBrokers    []string
	Tracing         tracing.Config
	CSRFAuthKey     []byte
	CSRFSecure      bool
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// GeneratedCSRFKey is set when no CSRF_AUTH_KEY was configured. Tokens then do
	// not survive a restart.
	GeneratedCSRFKey bool
}

// IsDevelopment reports whether the service runs in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "catalog-service"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Storage:     strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "catalogdb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
	}

	if cfg.Storage != StoragePostgres && cfg.Storage != StorageMemory {
		return nil, fmt.Errorf("invalid STORAGE %q: want %s or %s", cfg.Storage, StoragePostgres, StorageMemory)
	}

	tracingEnabled, err := getBool("TRACING_ENABLED", false)
	if err != nil {
		return nil, err
	}
	cfg.Tracing = tracing.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: getEnv("SERVICE_VERSION", "1.0.0"),
		Enabled:        tracingEnabled,
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
	}

	if cfg.CSRFSecure, err = getBool("CSRF_SECURE_COOKIE", !cfg.IsDevelopment()); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}

	if key := os.Getenv("CSRF_AUTH_KEY"); key != "" {
		if len(key) < csrfKeyLength {
			return nil, fmt.Errorf("CSRF_AUTH_KEY must be at least %d bytes", csrfKeyLength)
		}
		cfg.CSRFAuthKey = []byte(key)
	} else {
		cfg.CSRFAuthKey = make([]byte, csrfKeyLength)
		if _, err := rand.Read(cfg.CSRFAuthKey); err != nil {
			return nil, fmt.Errorf("failed to generate CSRF key: %w", err)
		}
		cfg.GeneratedCSRFKey = true
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
