package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	// CartTTL is how long an untouched cart survives before the server
	// treats it as expired.
	CartTTL time.Duration
}

// Load reads configuration from environment variables.
func Load() Config {
	addr := os.Getenv("STREETMARKET_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	ttl := 72 * time.Hour
	if v := os.Getenv("CART_TTL_HOURS"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 {
			ttl = time.Duration(h) * time.Hour
		}
	}

	return Config{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CartTTL:     ttl,
	}
}
