// ABOUTME: Centralized configuration for the plant-care AI core
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the plant-care core
type Config struct {
	// Provider settings
	Provider        string
	OpenAIKey       string
	OpenAIModel     string
	OpenAIBaseURL   string
	GeminiKey       string
	GeminiModel     string
	ProviderTimeout time.Duration
	MaxRetries      int
	RetryDelay      time.Duration

	// Persistence settings
	DatabaseDriver string
	SQLitePath     string
	DatabaseURL    string
	AutoMigrate    bool

	// Logging settings
	LogMode  string
	LogLevel string

	// Achievement evaluation
	EvalConcurrency int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Provider:        strings.ToLower(getEnv("PLANTCARE_PROVIDER", ProviderOpenAI)),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     getEnv("PLANTCARE_OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		GeminiKey:       getEnv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		GeminiModel:     getEnv("PLANTCARE_GEMINI_MODEL", "gemini-2.0-flash"),
		ProviderTimeout: getEnvDuration("PLANTCARE_PROVIDER_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvInt("PLANTCARE_PROVIDER_MAX_RETRIES", 0),
		RetryDelay:      getEnvDuration("PLANTCARE_PROVIDER_RETRY_DELAY", 2*time.Second),
		DatabaseDriver:  strings.ToLower(getEnv("PLANTCARE_DB_DRIVER", DriverSQLite)),
		SQLitePath:      os.Getenv("PLANTCARE_DB_PATH"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		AutoMigrate:     getEnvBool("PLANTCARE_DB_MIGRATE", false),
		LogMode:         getEnv("PLANTCARE_LOG_MODE", "development"),
		LogLevel:        getEnv("PLANTCARE_LOG_LEVEL", "info"),
		EvalConcurrency: getEnvInt("PLANTCARE_EVAL_CONCURRENCY", 4),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Provider != ProviderOpenAI && c.Provider != ProviderGemini {
		return fmt.Errorf("PLANTCARE_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, c.Provider)
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PLANTCARE_PROVIDER_TIMEOUT must be positive, got %s", c.ProviderTimeout)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("PLANTCARE_PROVIDER_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.DatabaseDriver != DriverSQLite && c.DatabaseDriver != DriverPostgres {
		return fmt.Errorf("PLANTCARE_DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DatabaseDriver)
	}
	if c.DatabaseDriver == DriverPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when PLANTCARE_DB_DRIVER=%s", DriverPostgres)
	}
	if c.EvalConcurrency < 1 || c.EvalConcurrency > 32 {
		return fmt.Errorf("PLANTCARE_EVAL_CONCURRENCY must be 1-32, got %d", c.EvalConcurrency)
	}
	return nil
}

// ProviderKey returns the API key for the selected provider
func (c *Config) ProviderKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiKey
	}
	return c.OpenAIKey
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
