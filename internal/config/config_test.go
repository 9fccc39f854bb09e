package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("TOKEN_TTL", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected one-day token ttl, got %s", cfg.TokenTTL)
	}
	if cfg.NotifyMaxAttempts != 3 {
		t.Fatalf("expected default notify attempts, got %d", cfg.NotifyMaxAttempts)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected redis disabled by default, got %s", cfg.RedisAddr)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard origins by default, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("ACCESS_TOKEN_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "12h")
	t.Setenv("NOTIFY_MAX_ATTEMPTS", "5")
	t.Setenv("NOTIFY_BASE_DELAY", "500ms")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://portal.example.com, https://admin.example.com")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.AccessTokenSecret != "s3cret" {
		t.Fatalf("expected secret override")
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Fatalf("expected ttl override, got %s", cfg.TokenTTL)
	}
	if cfg.NotifyMaxAttempts != 5 {
		t.Fatalf("expected notify attempts override, got %d", cfg.NotifyMaxAttempts)
	}
	if cfg.NotifyBaseDelay != 500*time.Millisecond {
		t.Fatalf("expected notify delay override, got %s", cfg.NotifyBaseDelay)
	}
	if cfg.CatalogCacheTTL != 30*time.Second {
		t.Fatalf("expected cache ttl override, got %s", cfg.CatalogCacheTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.example.com" {
		t.Fatalf("expected origins override, got %v", cfg.AllowedOrigins)
	}
}

func TestInvalidNumericFallsBack(t *testing.T) {
	t.Setenv("NOTIFY_WORKER_COUNT", "not-a-number")
	t.Setenv("BOOKING_RATE_LIMIT", "nope")
	cfg := Load()
	if cfg.NotifyWorkerCount != 2 {
		t.Fatalf("expected fallback worker count, got %d", cfg.NotifyWorkerCount)
	}
	if cfg.BookingRateLimit != 5 {
		t.Fatalf("expected fallback rate limit, got %f", cfg.BookingRateLimit)
	}
}
