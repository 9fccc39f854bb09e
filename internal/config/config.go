package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	AllowedOrigins []string

	// Bearer token settings. Tokens are issued on profile upsert and
	// expire after TokenTTL.
	AccessTokenSecret string
	TokenTTL          time.Duration

	// Booking confirmation email settings.
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// Notification dispatcher settings.
	NotifyWorkerCount int
	NotifyQueueSize   int
	NotifyMaxAttempts int
	NotifyBaseDelay   time.Duration

	// Redis catalog cache. Disabled when RedisAddr is empty.
	RedisAddr       string
	RedisPassword   string
	CatalogCacheTTL time.Duration

	// Per-IP rate limit on the public booking endpoint.
	BookingRateLimit float64
	BookingRateBurst int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		AccessTokenSecret: getEnv("ACCESS_TOKEN_SECRET", ""),
		TokenTTL:          getEnvAsDuration("TOKEN_TTL", 24*time.Hour),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Doctors Portal"),

		NotifyWorkerCount: getEnvAsInt("NOTIFY_WORKER_COUNT", 2),
		NotifyQueueSize:   getEnvAsInt("NOTIFY_QUEUE_SIZE", 256),
		NotifyMaxAttempts: getEnvAsInt("NOTIFY_MAX_ATTEMPTS", 3),
		NotifyBaseDelay:   getEnvAsDuration("NOTIFY_BASE_DELAY", 2*time.Second),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		CatalogCacheTTL: getEnvAsDuration("CATALOG_CACHE_TTL", 5*time.Minute),

		BookingRateLimit: getEnvAsFloat("BOOKING_RATE_LIMIT", 5),
		BookingRateBurst: getEnvAsInt("BOOKING_RATE_BURST", 10),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
