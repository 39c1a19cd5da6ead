package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DefaultGeocodeURL       = "https://nominatim.openstreetmap.org/search"
	DefaultGeocodeUserAgent = "fbla-nonprofits/1.0 (contact@example.com)"
	DefaultCacheFile        = "geocode_cache.json"
)

// Config holds settings that come from the environment rather than flags.
type Config struct {
	LogLevel  string
	LogFormat string

	// Geocoding configuration.
	GeocodeURL       string
	GeocodeUserAgent string
	GeocodeTimeout   time.Duration
	GeocodeDelay     time.Duration
	GeocodeCacheFile string

	// Optional Kafka sink; disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	geocodeTimeout, err := parseDuration("GEOCODE_TIMEOUT", "20s")
	if err != nil {
		return nil, err
	}
	if geocodeTimeout <= 0 {
		return nil, errors.New("invalid GEOCODE_TIMEOUT: must be positive")
	}

	geocodeDelay, err := parseDuration("GEOCODE_DELAY", "1100ms")
	if err != nil {
		return nil, err
	}
	if geocodeDelay < 0 {
		return nil, errors.New("invalid GEOCODE_DELAY: must not be negative")
	}

	cfg := &Config{
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "text"),
		GeocodeURL:       envOrDefault("GEOCODE_URL", DefaultGeocodeURL),
		GeocodeUserAgent: envOrDefault("GEOCODE_USER_AGENT", DefaultGeocodeUserAgent),
		GeocodeTimeout:   geocodeTimeout,
		GeocodeDelay:     geocodeDelay,
		GeocodeCacheFile: envOrDefault("GEOCODE_CACHE_FILE", DefaultCacheFile),
		KafkaBrokers:     parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:       envOrDefault("KAFKA_TOPIC", "nonprofits"),
	}

	if cfg.GeocodeUserAgent == "" {
		return nil, errors.New("GEOCODE_USER_AGENT must not be empty")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether records should also be published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
