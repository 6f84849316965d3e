package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers selectable through STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const insecureJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	StorageDriver  string
	MigrationsPath string

	// Redis report cache; disabled when RedisURL is empty.
	RedisURL       string
	ReportCacheTTL time.Duration

	PostingLockTimeout time.Duration
	CurrencyCode       string
	CurrencyScale      int32

	RateLimit          string // ulule limiter format, e.g. "100-S"
	CORSAllowedOrigins []string
	MaxRequestBytes    int64

	PosthogAPIKey   string
	PosthogEndpoint string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("JWT_SECRET", insecureJWTSecret)
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REPORT_CACHE_TTL", "10m")
	v.SetDefault("POSTING_LOCK_TIMEOUT", "5s")
	v.SetDefault("CURRENCY_CODE", "USD")
	v.SetDefault("CURRENCY_SCALE", 2)
	v.SetDefault("RATE_LIMIT", "100-S")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("MAX_REQUEST_BYTES", 1<<20)
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	return loadFrom(v)
}

func loadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		DatabaseURL:     v.GetString("PGSQL_URL"),
		Port:            v.GetString("PORT"),
		IsProduction:    v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:   v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		StorageDriver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath:  v.GetString("MIGRATIONS_PATH"),
		RedisURL:        v.GetString("REDIS_URL"),
		CurrencyCode:    strings.ToUpper(v.GetString("CURRENCY_CODE")),
		RateLimit:       v.GetString("RATE_LIMIT"),
		PosthogAPIKey:   v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint: v.GetString("POSTHOG_ENDPOINT"),
		MaxRequestBytes: v.GetInt64("MAX_REQUEST_BYTES"),
	}

	var err error
	if cfg.ReportCacheTTL, err = parseDuration(v, "REPORT_CACHE_TTL"); err != nil {
		return nil, err
	}
	if cfg.PostingLockTimeout, err = parseDuration(v, "POSTING_LOCK_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.PostingLockTimeout <= 0 {
		return nil, fmt.Errorf("POSTING_LOCK_TIMEOUT must be positive, got %s", cfg.PostingLockTimeout)
	}

	if cfg.MaxRequestBytes <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BYTES must be positive, got %d", cfg.MaxRequestBytes)
	}

	scale := v.GetInt("CURRENCY_SCALE")
	if scale < 0 || scale > 8 {
		return nil, fmt.Errorf("CURRENCY_SCALE must be between 0 and 8, got %d", scale)
	}
	cfg.CurrencyScale = int32(scale)

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %q", StoragePostgres)
		}
	case StorageMemory:
		if cfg.IsProduction {
			return nil, fmt.Errorf("STORAGE_DRIVER %q is not allowed in production", StorageMemory)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == insecureJWTSecret || cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = insecureJWTSecret
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.PosthogAPIKey == "" {
		slog.Warn("POSTHOG_API_KEY not set. Product analytics are disabled.")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	return d, nil
}
