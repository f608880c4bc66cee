// Package config provides configuration for the tutor service.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the tutor service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// OpenAI settings
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAITimeout time.Duration

	// Tutoring settings
	MasteryLevel  int
	RetrievalK    int
	HistoryWindow int
	SessionExpiry time.Duration
	AckText       string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:      getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:   getEnv("DATABASE_URL", "file:alfaia.db?cache=shared&mode=rwc"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAITimeout: time.Duration(getEnvInt("OPENAI_TIMEOUT_MS", 120000)) * time.Millisecond,
		MasteryLevel:  getEnvInt("MASTERY_LEVEL", 4),
		RetrievalK:    getEnvInt("RETRIEVAL_K", 3),
		HistoryWindow: getEnvInt("HISTORY_WINDOW", 10),
		SessionExpiry: time.Duration(getEnvInt("SESSION_EXPIRY_HOURS", 24)) * time.Hour,
		AckText:       getEnv("ACK_TEXT", "Só um instante, estou preparando sua resposta..."),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
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
