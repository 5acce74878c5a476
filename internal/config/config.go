package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the relay server.
type Config struct {
	Port      string
	Env       string
	DBURL     string
	RedisURL  string
	JWTSecret string
}

// Load reads configuration from environment variables, pulling in a .env
// file first when one is present (development convenience).
// DBURL and RedisURL may be empty in development; the server then falls
// back to in-memory storage and disables the background queue. In
// production both are required.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "5001"),
		Env:       getEnv("ENV", "development"),
		DBURL:     os.Getenv("DB_URL"),
		RedisURL:  os.Getenv("REDIS_URL"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-do-not-use"),
	}

	if cfg.Env == "production" {
		if cfg.DBURL == "" {
			panic("DB_URL is required in production")
		}
		if cfg.JWTSecret == "dev-secret-do-not-use" {
			panic("JWT_SECRET is required in production")
		}
	}

	return cfg
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
