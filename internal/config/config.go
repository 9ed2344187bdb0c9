// Package config provides configuration for the orchestrator.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the orchestrator configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// LLM settings
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	// Conversation state
	ContextTTL       time.Duration
	PendingActionTTL time.Duration

	// Escalation thresholds
	LockFlagThreshold   int
	ReviewFlagThreshold int

	// Policy defaults
	ReturnWindowDays int

	// Logging
	LogLevel string
}

// Load loads configuration from a .env file (if present) and environment
// variables.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:         getEnv("DATABASE_URL", "file:orchestrator.db?cache=shared&mode=rwc"),
		LLMBaseURL:          getEnv("LLM_BASE_URL", "http://localhost:4000"),
		LLMAPIKey:           getEnv("LLM_API_KEY", ""),
		LLMModel:            getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:          time.Duration(getEnvInt("LLM_TIMEOUT_MS", 30000)) * time.Millisecond,
		ContextTTL:          time.Duration(getEnvInt("CONTEXT_TTL_HOURS", 24)) * time.Hour,
		PendingActionTTL:    time.Duration(getEnvInt("PENDING_ACTION_TTL_SECONDS", 300)) * time.Second,
		LockFlagThreshold:   getEnvInt("LOCK_FLAG_THRESHOLD", 2),
		ReviewFlagThreshold: getEnvInt("REVIEW_FLAG_THRESHOLD", 3),
		ReturnWindowDays:    getEnvInt("RETURN_WINDOW_DAYS", 30),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
