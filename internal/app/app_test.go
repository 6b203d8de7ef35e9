// ABOUTME: Tests for component wiring
// ABOUTME: Uses a temporary SQLite file and checks lazy provider creation
package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/raajvamsy/plantopia/internal/config"
	"github.com/raajvamsy/plantopia/internal/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Provider:        config.ProviderOpenAI,
		ProviderTimeout: time.Second,
		DatabaseDriver:  config.DriverSQLite,
		SQLitePath:      filepath.Join(t.TempDir(), "plantcare.db"),
		EvalConcurrency: 2,
	}
}

func TestNew_SQLite(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), logging.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = a.Close() }()

	if n, err := a.Engine.Bootstrap(ctx, "u-1"); err != nil || n != 6 {
		t.Fatalf("Bootstrap() = %d, %v; want 6", n, err)
	}
	stats, err := a.Achievements.Stats(ctx, "u-1")
	if err != nil || stats.Total != 6 {
		t.Errorf("Stats() = %+v, %v", stats, err)
	}
}

func TestAssistant_RequiresKey(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = a.Close() }()

	if _, err := a.Assistant(ctx); !errors.Is(err, ErrNoProvider) {
		t.Errorf("Assistant() error = %v, want ErrNoProvider", err)
	}
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	cfg.OpenAIKey = "sk-test"
	if p, err := NewProvider(ctx, cfg, nil); err != nil || p == nil {
		t.Errorf("NewProvider(openai) = %v, %v", p, err)
	}

	cfg.Provider = config.ProviderGemini
	if _, err := NewProvider(ctx, cfg, nil); !errors.Is(err, ErrNoProvider) {
		t.Errorf("NewProvider(gemini without key) error = %v, want ErrNoProvider", err)
	}
}
