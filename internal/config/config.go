package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BackendURL string
	LogLevel   string

	// HTTPTimeout bounds every outbound request so a hung backend call
	// resolves to a network failure instead of pending forever.
	HTTPTimeout time.Duration

	RequestRatePerSecond float64
	RequestBurst         int

	CredentialsPath string

	StatsCacheTTL time.Duration
	BlogCacheTTL  time.Duration

	RetryMaxAttempts int
	BreakerEnabled   bool

	MetricsAddr string
}

func Load() Config {
	// A missing .env is fine; the process environment wins either way.
	_ = godotenv.Load()

	return Config{
		BackendURL: mustEnv("HEALYTICS_BACKEND_URL", "http://localhost:8000"),
		LogLevel:   mustEnv("HEALYTICS_LOG_LEVEL", "info"),

		HTTPTimeout: mustEnvDuration("HEALYTICS_HTTP_TIMEOUT", 30*time.Second),

		RequestRatePerSecond: mustEnvFloat("HEALYTICS_REQUEST_RATE", 10),
		RequestBurst:         mustEnvInt("HEALYTICS_REQUEST_BURST", 20),

		CredentialsPath: mustEnv("HEALYTICS_CREDENTIALS_PATH", defaultCredentialsPath()),

		StatsCacheTTL: mustEnvDuration("HEALYTICS_STATS_CACHE_TTL", 30*time.Second),
		BlogCacheTTL:  mustEnvDuration("HEALYTICS_BLOG_CACHE_TTL", time.Minute),

		RetryMaxAttempts: mustEnvInt("HEALYTICS_RETRY_MAX_ATTEMPTS", 3),
		BreakerEnabled:   mustEnvBool("HEALYTICS_BREAKER_ENABLED", true),

		MetricsAddr: mustEnv("HEALYTICS_METRICS_ADDR", ""),
	}
}

func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.healytics"
	}
	return filepath.Join(home, ".healytics")
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
