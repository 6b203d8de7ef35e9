// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"testing"
	"time"
)

var allKeys = []string{
	"PLANTCARE_PROVIDER", "OPENAI_API_KEY", "PLANTCARE_OPENAI_MODEL", "OPENAI_BASE_URL",
	"GEMINI_API_KEY", "GOOGLE_API_KEY", "PLANTCARE_GEMINI_MODEL", "PLANTCARE_PROVIDER_TIMEOUT",
	"PLANTCARE_PROVIDER_MAX_RETRIES", "PLANTCARE_PROVIDER_RETRY_DELAY", "PLANTCARE_DB_DRIVER",
	"PLANTCARE_DB_PATH", "DATABASE_URL", "PLANTCARE_DB_MIGRATE", "PLANTCARE_LOG_MODE",
	"PLANTCARE_LOG_LEVEL", "PLANTCARE_EVAL_CONCURRENCY",
}

// clearEnv blanks every key Load reads; blank values fall back to defaults
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider = %s, want openai", cfg.Provider)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("OpenAIModel = %s, want gpt-4o-mini", cfg.OpenAIModel)
	}
	if cfg.ProviderTimeout != 30*time.Second {
		t.Errorf("ProviderTimeout = %v, want 30s", cfg.ProviderTimeout)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0 (no automatic retries)", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Errorf("DatabaseDriver = %s, want sqlite", cfg.DatabaseDriver)
	}
	if cfg.AutoMigrate {
		t.Error("AutoMigrate = true, want false")
	}
	if cfg.EvalConcurrency != 4 {
		t.Errorf("EvalConcurrency = %d, want 4", cfg.EvalConcurrency)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLANTCARE_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("PLANTCARE_GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("PLANTCARE_PROVIDER_TIMEOUT", "45s")
	t.Setenv("PLANTCARE_PROVIDER_MAX_RETRIES", "2")
	t.Setenv("PLANTCARE_DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/plantopia")
	t.Setenv("PLANTCARE_DB_MIGRATE", "1")
	t.Setenv("PLANTCARE_EVAL_CONCURRENCY", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Provider != ProviderGemini {
		t.Errorf("Provider = %s, want gemini", cfg.Provider)
	}
	if cfg.ProviderKey() != "gemini-key" {
		t.Errorf("ProviderKey() = %s, want gemini-key", cfg.ProviderKey())
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("GeminiModel = %s, want gemini-2.5-pro", cfg.GeminiModel)
	}
	if cfg.ProviderTimeout != 45*time.Second {
		t.Errorf("ProviderTimeout = %v, want 45s", cfg.ProviderTimeout)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.MaxRetries)
	}
	if cfg.DatabaseDriver != DriverPostgres || cfg.DatabaseURL == "" {
		t.Errorf("database = %s %q, want postgres with URL", cfg.DatabaseDriver, cfg.DatabaseURL)
	}
	if !cfg.AutoMigrate {
		t.Error("AutoMigrate = false, want true")
	}
	if cfg.EvalConcurrency != 8 {
		t.Errorf("EvalConcurrency = %d, want 8", cfg.EvalConcurrency)
	}
}

func TestLoad_GoogleAPIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLANTCARE_PROVIDER", "gemini")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.GeminiKey != "google-key" {
		t.Errorf("GeminiKey = %s, want google-key", cfg.GeminiKey)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLANTCARE_PROVIDER_TIMEOUT", "soon")
	t.Setenv("PLANTCARE_EVAL_CONCURRENCY", "many")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ProviderTimeout != 30*time.Second {
		t.Errorf("ProviderTimeout = %v, want default 30s", cfg.ProviderTimeout)
	}
	if cfg.EvalConcurrency != 4 {
		t.Errorf("EvalConcurrency = %d, want default 4", cfg.EvalConcurrency)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Provider:        ProviderOpenAI,
			ProviderTimeout: time.Second,
			DatabaseDriver:  DriverSQLite,
			EvalConcurrency: 1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown provider", func(c *Config) { c.Provider = "claude" }, true},
		{"zero timeout", func(c *Config) { c.ProviderTimeout = 0 }, true},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, true},
		{"too many retries", func(c *Config) { c.MaxRetries = 11 }, true},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, true},
		{"postgres without url", func(c *Config) { c.DatabaseDriver = DriverPostgres }, true},
		{"postgres with url", func(c *Config) { c.DatabaseDriver = DriverPostgres; c.DatabaseURL = "postgres://x" }, false},
		{"zero concurrency", func(c *Config) { c.EvalConcurrency = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
