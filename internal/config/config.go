package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// LMS backend
	LMSAPIURL       string
	SessionIDPrefix string

	// JWT
	JWTSecret string

	// Redis (optional status fan-out)
	RedisURL string

	// Frontend
	FrontendURL string

	AuthRateLimitPerMin int

	// Tracing
	OtelEnabled     bool
	OtelEndpoint    string
	OtelSampleRatio float64
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                getEnvOrDefault("PORT", "8090"),
		Env:                 getEnvOrDefault("ENV", "development"),
		LMSAPIURL:           strings.TrimRight(getEnvOrDefault("LMS_API_URL", "http://localhost:8010/api"), "/"),
		SessionIDPrefix:     getEnvOrDefault("SESSION_ID_PREFIX", "sess-"),
		JWTSecret:           mustGetEnv("JWT_SECRET"),
		RedisURL:            getEnvOrDefault("REDIS_URL", ""),
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		AuthRateLimitPerMin: getEnvAsIntOrDefault("AUTH_RATE_LIMIT_PER_MIN", 10),
		OtelEnabled:         getEnvAsBoolOrDefault("OTEL_ENABLED", false),
		OtelEndpoint:        getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OtelSampleRatio:     getEnvAsRatioOrDefault("OTEL_SAMPLER_RATIO", 0.1),
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "":
		return defaultVal
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// getEnvAsRatioOrDefault clamps the parsed value to [0, 1].
func getEnvAsRatioOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
