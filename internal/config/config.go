package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the process needs from the environment. It is
// built once in main and passed down; nothing else reads env vars.
type Config struct {
	Port        string
	DatabaseURL string

	// Token signing. Both are mandatory; startup fails without them.
	JWTSecret    string
	JWTAlgorithm string
	TokenTTL     time.Duration

	DBMaxOpen     int
	DBMaxIdle     int
	DBMaxLifetime time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:         getenv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("SECRET_KEY"),
		JWTAlgorithm: os.Getenv("ALGO"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: SECRET_KEY is required")
	}
	if cfg.JWTAlgorithm == "" {
		return nil, fmt.Errorf("config: ALGO is required")
	}

	ttl, err := parseTTL(getenv("TOKEN_TTL", "20m"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	cfg.DBMaxOpen, _ = strconv.Atoi(getenv("DB_MAX_OPEN", "25"))
	cfg.DBMaxIdle, _ = strconv.Atoi(getenv("DB_MAX_IDLE", "25"))
	lifetime, _ := strconv.Atoi(getenv("DB_MAX_LIFETIME", "300")) // seconds
	cfg.DBMaxLifetime = time.Duration(lifetime) * time.Second

	return cfg, nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// parseTTL accepts durations like "15m", "1h", "20s", or a bare number
// meaning minutes.
func parseTTL(ttlStr string) (time.Duration, error) {
	if strings.HasSuffix(ttlStr, "m") ||
		strings.HasSuffix(ttlStr, "h") ||
		strings.HasSuffix(ttlStr, "s") {
		return time.ParseDuration(ttlStr)
	}

	min, err := strconv.Atoi(ttlStr)
	if err != nil {
		return 0, err
	}
	return time.Duration(min) * time.Minute, nil
}
