// README: Config loader with env defaults for HTTP, DB, Redis, geocoding, and fare settings.
package config

import (
	"os"
	"strconv"
	"time"
)

type GeocodingConfig struct {
	BaseURL     string
	UserAgent   string
	CountryCode string
	Timeout     time.Duration
}

type FareConfig struct {
	MinimumFareCentavos int64
	AverageSpeedKmh     float64
}

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Geocoding GeocodingConfig
	Fare      FareConfig
	Maps      struct {
		// Optional Google Maps key; when empty the empirical travel-time
		// estimator is used instead of Directions.
		APIKey string
	}
	Ranking struct {
		RadiusKm float64
	}
	LogLevel string
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("MOBI_HTTP_ADDR", ":8080")
	// Empty DSN means the in-memory stores; same for the Redis address.
	cfg.DB.DSN = envOrDefault("MOBI_DB_DSN", "")
	cfg.Redis.Addr = envOrDefault("MOBI_REDIS_ADDR", "")
	cfg.Geocoding.BaseURL = envOrDefault("MOBI_NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	cfg.Geocoding.UserAgent = envOrDefault("MOBI_GEOCODER_USER_AGENT", "MobiUrban/1.0")
	cfg.Geocoding.CountryCode = envOrDefault("MOBI_GEOCODER_COUNTRY", "br")
	cfg.Geocoding.Timeout = envOrDefaultDuration("MOBI_GEOCODER_TIMEOUT", 10*time.Second)
	cfg.Fare.MinimumFareCentavos = envOrDefaultInt64("MOBI_MINIMUM_FARE_CENTAVOS", 500)
	cfg.Fare.AverageSpeedKmh = envOrDefaultFloat("MOBI_AVERAGE_SPEED_KMH", 30.0)
	cfg.Maps.APIKey = os.Getenv("MOBI_GOOGLE_MAPS_KEY")
	cfg.Ranking.RadiusKm = envOrDefaultFloat("MOBI_RANKING_RADIUS_KM", 10.0)
	cfg.LogLevel = envOrDefault("MOBI_LOG_LEVEL", "info")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
