package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// Location is the time zone for clock strings and forecast dates.
	Location *time.Location

	// DefaultLocation is rendered when the dashboard is requested without one.
	DefaultLocation weather.Location

	DatabasePath string

	// JWTSecret signs session tokens. Empty disables accounts and note writes.
	JWTSecret  string
	SessionTTL time.Duration

	// RedisURL enables the shared revocation list when set.
	RedisURL string

	// PurgeInterval controls how often expired revocations are dropped.
	PurgeInterval time.Duration

	LogLevel string
	Port     string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "5s"); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getenvDuration("SESSION_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.PurgeInterval, err = getenvDuration("PURGE_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	cfg.Location = time.Local
	if tz := os.Getenv("WEATHER_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid WEATHER_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	cfg.DefaultLocation = weather.Location{
		City:    getenvDefault("DEFAULT_CITY", "Temecula"),
		Country: getenvDefault("DEFAULT_COUNTRY", "US"),
	}

	cfg.DatabasePath = getenvDefault("DATABASE_PATH", "notes.db")

	cfg.JWTSecret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if cfg.JWTSecret == "" {
		log.Printf("WARN: JWT_SECRET is not set; accounts and note editing are disabled")
	}

	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.Port = getenvDefault("PORT", "8080")

	if cfg.OpenWeatherAPIKey == "" {
		log.Printf("WARN: OPENWEATHER_API_KEY is not set; weather requests will fail")
	}

	return cfg, nil
}

// AuthEnabled reports whether a session signing secret is configured.
func (c *AppConfig) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
