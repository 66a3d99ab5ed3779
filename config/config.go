// Package config provides application configuration management.
// It loads configuration from environment variables with sensible defaults.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Advisory AdvisoryConfig
	CRM      CRMConfig
	Planning PlanningConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Environment  string
}

// RedisConfig holds Redis configuration for the recommendation cache.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// AdvisoryConfig holds external advisory source configuration.
type AdvisoryConfig struct {
	GeminiAPIKey string
	Model        string
	Timeout      time.Duration
}

// CRMConfig holds the client data provider configuration.
type CRMConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// PlanningConfig holds the tunable planning policy knobs. The conflict
// window and staleness threshold are advisory defaults, not hard business
// requirements.
type PlanningConfig struct {
	// AllocationPolicyPath points at a JSON policy table; empty means the
	// built-in defaults.
	AllocationPolicyPath string

	ConflictWindowYears     int
	ConflictHorizonYears    int
	ConflictSurplusFraction float64

	// CacheStaleWarnMinutes marks cached recommendations older than this
	// as stale in responses. Zero disables the flag.
	CacheStaleWarnMinutes float64

	// Recommendation endpoint throttle, per client.
	RateLimitAttempts int
	RateLimitWindow   time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			Environment:  getEnv("ENV", "development"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Advisory: AdvisoryConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
			Timeout:      getEnvAsDuration("ADVISORY_TIMEOUT", 30*time.Second),
		},
		CRM: CRMConfig{
			BaseURL: getEnv("CRM_BASE_URL", "http://localhost:3000"),
			APIKey:  getEnv("CRM_API_KEY", ""),
			Timeout: getEnvAsDuration("CRM_TIMEOUT", 10*time.Second),
		},
		Planning: PlanningConfig{
			AllocationPolicyPath:    getEnv("ALLOCATION_POLICY_PATH", ""),
			ConflictWindowYears:     getEnvAsInt("CONFLICT_WINDOW_YEARS", 2),
			ConflictHorizonYears:    getEnvAsInt("CONFLICT_HORIZON_YEARS", 5),
			ConflictSurplusFraction: getEnvAsFloat("CONFLICT_SURPLUS_FRACTION", 1.0),
			CacheStaleWarnMinutes:   getEnvAsFloat("CACHE_STALE_WARN_MINUTES", 30),
			RateLimitAttempts:       getEnvAsInt("RECOMMENDATION_RATE_LIMIT", 10),
			RateLimitWindow:         getEnvAsDuration("RECOMMENDATION_RATE_WINDOW", time.Minute),
		},
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
