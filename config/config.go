package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	DataDir   string
	DevMode   bool
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Port string // default: "8082"
	Mode string // gin mode: "debug", "release", "test"; default: "release"
}

// FetchConfig controls page retrieval.
type FetchConfig struct {
	Timeout time.Duration // default: 15s

	// RelayURL, when set, is a cross-origin relay prefix the escaped
	// target URL is appended to.
	RelayURL string
}

// RateLimitConfig controls per-IP rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 // default: 2
	Burst             int     // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// LoadEnv loads .env.development, falling back to .env. Missing files are
// not an error; variables already set in the environment win.
func LoadEnv() {
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			slog.Debug("no .env file found, using environment variables")
		}
	}
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: envOr("PORT", "8082"),
			Mode: envOr("GIN_MODE", "release"),
		},
		Fetch: FetchConfig{
			Timeout:  envDurationOr("FETCH_TIMEOUT", 15*time.Second),
			RelayURL: os.Getenv("RELAY_URL"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("RATE_RPS", 2),
			Burst:             envIntOr("RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "json"),
		},
		DataDir: envOr("DATA_DIR", "data"),
		DevMode: envBoolOr("DEV_MODE", false),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
