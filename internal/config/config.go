package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr         string
	RedisAddr        string
	JWTSecret        string
	TokenTTL         time.Duration
	StrictStatus     bool
	BackfillInterval time.Duration
	ShutdownTimeout  time.Duration
	AdminPassword    string
}

// Load reads configuration from the environment. Database settings live
// in the database package; everything else is here.
func Load() Config {
	return Config{
		HTTPAddr:         getEnv("LAUNDRY_HTTP_ADDR", ":8080"),
		RedisAddr:        getEnv("LAUNDRY_REDIS_ADDR", ""),
		JWTSecret:        getEnv("LAUNDRY_JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:         parseDuration("LAUNDRY_TOKEN_TTL", 24*time.Hour),
		StrictStatus:     parseBool("LAUNDRY_STRICT_STATUS", false),
		BackfillInterval: parseDuration("LAUNDRY_BACKFILL_INTERVAL", time.Minute),
		ShutdownTimeout:  parseDuration("LAUNDRY_SHUTDOWN_TIMEOUT", 10*time.Second),
		AdminPassword:    getEnv("LAUNDRY_ADMIN_PASSWORD", "admin123"),
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return def
}

func parseBool(key string, def bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return def
}
