// Package config loads process-wide configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mselser95/parimutuel-engine/pkg/types"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// The fixed system authority permitted to run privileged operations.
	// Loaded once at startup and immutable for the process lifetime.
	AuthorityAddress types.Identity

	// Default asset accepted by markets created through the CLI.
	AssetKind     string
	AssetDecimals uint8

	// Storage
	StorageMode  string // "postgres" or "memory"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string

	// HTTP read path
	MarketCacheTTL time.Duration
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	authority, err := types.ParseIdentity(os.Getenv("AUTHORITY_ADDRESS"))
	if err != nil {
		return nil, fmt.Errorf("AUTHORITY_ADDRESS: %w", err)
	}

	cfg := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		AuthorityAddress: authority,

		AssetKind:     getEnvOrDefault("ASSET_KIND", "usd-token"),
		AssetDecimals: uint8(getIntOrDefault("ASSET_DECIMALS", 6)),

		StorageMode:  getEnvOrDefault("STORAGE_MODE", "memory"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "parimutuel"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "parimutuel123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "parimutuel"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),

		MarketCacheTTL: getDurationOrDefault("MARKET_CACHE_TTL", 2*time.Second),
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.AuthorityAddress == (types.Identity{}) {
		return fmt.Errorf("AUTHORITY_ADDRESS cannot be the zero identity")
	}

	if c.StorageMode != "postgres" && c.StorageMode != "memory" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'memory', got %q", c.StorageMode)
	}

	if c.AssetDecimals > 18 {
		return fmt.Errorf("ASSET_DECIMALS must be at most 18, got %d", c.AssetDecimals)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
