package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HEALYTICS_BACKEND_URL", "")
	t.Setenv("HEALYTICS_HTTP_TIMEOUT", "")
	t.Setenv("HEALYTICS_REQUEST_RATE", "")
	t.Setenv("HEALYTICS_RETRY_MAX_ATTEMPTS", "")
	t.Setenv("HEALYTICS_BREAKER_ENABLED", "")

	cfg := Load()
	if cfg.BackendURL != "http://localhost:8000" {
		t.Fatalf("expected default backend url, got %q", cfg.BackendURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("expected default http timeout 30s, got %v", cfg.HTTPTimeout)
	}
	if cfg.RequestRatePerSecond != 10 {
		t.Fatalf("expected default request rate 10, got %v", cfg.RequestRatePerSecond)
	}
	if cfg.RetryMaxAttempts != 3 {
		t.Fatalf("expected default retry attempts 3, got %d", cfg.RetryMaxAttempts)
	}
	if !cfg.BreakerEnabled {
		t.Fatalf("expected breaker enabled by default")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("HEALYTICS_BACKEND_URL", "https://api.healytics.example")
	t.Setenv("HEALYTICS_HTTP_TIMEOUT", "5s")
	t.Setenv("HEALYTICS_REQUEST_RATE", "2.5")
	t.Setenv("HEALYTICS_BREAKER_ENABLED", "false")

	cfg := Load()
	if cfg.BackendURL != "https://api.healytics.example" {
		t.Fatalf("expected backend url override, got %q", cfg.BackendURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("expected http timeout 5s, got %v", cfg.HTTPTimeout)
	}
	if cfg.RequestRatePerSecond != 2.5 {
		t.Fatalf("expected request rate 2.5, got %v", cfg.RequestRatePerSecond)
	}
	if cfg.BreakerEnabled {
		t.Fatalf("expected breaker disabled")
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("HEALYTICS_HTTP_TIMEOUT", "soon")
	t.Setenv("HEALYTICS_REQUEST_BURST", "many")

	cfg := Load()
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("expected fallback timeout for malformed value, got %v", cfg.HTTPTimeout)
	}
	if cfg.RequestBurst != 20 {
		t.Fatalf("expected fallback burst for malformed value, got %d", cfg.RequestBurst)
	}
}
