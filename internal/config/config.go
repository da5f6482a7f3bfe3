// Package config loads service settings from the environment (and an optional
// .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	Port      string
	StaticDir string

	MapboxAccessToken string
	MapboxBaseURL     string
	MapboxTimeout     time.Duration

	DatabaseURL    string
	RedisURL       string
	CoordinatesTTL time.Duration

	CORSOrigins      []string
	FetchRatePerSec  float64
	FetchBurst       int
	SessionIdleTTL   time.Duration
	SuggestionFormat string

	// Default geocoding filters applied to sessions that don't set their own.
	Countries []string
	Types     []string
	Proximity []float64
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:               Get("APP_ENV", "development"),
		Port:              Get("PORT", "9000"),
		StaticDir:         Get("STATIC_DIR", "web"),
		MapboxAccessToken: strings.TrimSpace(os.Getenv("MAPBOX_ACCESS_TOKEN")),
		MapboxBaseURL:     Get("MAPBOX_BASE_URL", "https://api.mapbox.com"),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:          strings.TrimSpace(os.Getenv("REDIS_URL")),
		CORSOrigins:       splitCSV(Get("CORS_ORIGINS", "http://localhost:9000")),
		SuggestionFormat:  Get("SUGGESTION_TEMPLATE", "{{.PlaceName}}"),
		Countries:         splitCSV(strings.ToUpper(Get("GEOCODE_COUNTRIES", ""))),
		Types:             splitCSV(Get("GEOCODE_TYPES", "")),
	}

	var err error
	if cfg.MapboxTimeout, err = duration("MAPBOX_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.CoordinatesTTL, err = duration("COORDINATES_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL, err = duration("SESSION_IDLE_TTL", "30m"); err != nil {
		return nil, err
	}

	if cfg.FetchRatePerSec, err = strconv.ParseFloat(Get("FETCH_RATE_PER_SEC", "5"), 64); err != nil {
		return nil, fmt.Errorf("config: FETCH_RATE_PER_SEC: %w", err)
	}
	if cfg.FetchBurst, err = strconv.Atoi(Get("FETCH_BURST", "10")); err != nil {
		return nil, fmt.Errorf("config: FETCH_BURST: %w", err)
	}

	// NOTE: format is longitude,latitude.
	if raw := Get("GEOCODE_PROXIMITY", ""); raw != "" {
		parts := splitCSV(raw)
		if len(parts) != 2 {
			return nil, fmt.Errorf("config: GEOCODE_PROXIMITY must be lon,lat, got %q", raw)
		}
		for _, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, fmt.Errorf("config: GEOCODE_PROXIMITY: %w", err)
			}
			cfg.Proximity = append(cfg.Proximity, f)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MapboxAccessToken == "" {
		return errors.New("config: MAPBOX_ACCESS_TOKEN is required")
	}
	if c.FetchRatePerSec <= 0 || c.FetchBurst < 1 {
		return errors.New("config: FETCH_RATE_PER_SEC and FETCH_BURST must be positive")
	}
	return nil
}

// Get returns the environment value for key or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(Get(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
