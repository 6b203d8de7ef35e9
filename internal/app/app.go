// ABOUTME: Wires configuration into a database backend, stores, provider, and engines
// ABOUTME: Shared by the CLI commands and the MCP server
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/raajvamsy/plantopia/internal/config"
	"github.com/raajvamsy/plantopia/internal/core"
	"github.com/raajvamsy/plantopia/internal/llm"
	"github.com/raajvamsy/plantopia/internal/logging"
	"github.com/raajvamsy/plantopia/internal/storage"
	"github.com/raajvamsy/plantopia/internal/storage/postgres"
	"github.com/raajvamsy/plantopia/internal/storage/sqlite"
)

// ErrNoProvider is returned when an AI operation is requested without a provider API key
var ErrNoProvider = errors.New("no AI provider configured: set OPENAI_API_KEY or GEMINI_API_KEY")

// App holds the wired components of one process
type App struct {
	Config       *config.Config
	Log          *logging.Logger
	Backend      storage.Backend
	Interactions *storage.InteractionStore
	Achievements *storage.AchievementStore
	Garden       *storage.GardenStore
	Engine       *core.AchievementEngine
	Exporter     *storage.Exporter

	providerOnce sync.Once
	assistant    *core.Assistant
	providerErr  error
}

// New opens the configured backend and builds the stores and rule engine.
// The provider is created lazily so history and achievement commands work without an API key.
func New(ctx context.Context, cfg *config.Config, log *logging.Logger) (*App, error) {
	log = logging.OrNop(log)

	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(cfg, backend, log)
}

// NewWithBackend builds an App over an already opened backend
func NewWithBackend(cfg *config.Config, backend storage.Backend, log *logging.Logger) (*App, error) {
	log = logging.OrNop(log)

	achievements := storage.NewAchievementStore(backend.Achievements(), nil, log)
	engine, err := core.NewAchievementEngine(backend.Garden(), achievements, cfg.EvalConcurrency, log)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to build achievement engine: %w", err)
	}

	return &App{
		Config:       cfg,
		Log:          log,
		Backend:      backend,
		Interactions: storage.NewInteractionStore(backend.Interactions(), nil, log),
		Achievements: achievements,
		Garden:       storage.NewGardenStore(backend.Garden(), nil),
		Engine:       engine,
		Exporter:     storage.NewExporter(backend, nil),
	}, nil
}

// OpenBackend opens the database selected by the configuration
func OpenBackend(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pg, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if cfg.AutoMigrate {
			if err := pg.Migrate(ctx); err != nil {
				_ = pg.Close()
				return nil, fmt.Errorf("failed to migrate postgres: %w", err)
			}
		}
		return pg, nil

	default:
		path := cfg.SQLitePath
		if path == "" {
			path = sqlite.DefaultDBPath()
		}
		s, err := sqlite.NewStorageWithPath(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// NewProvider creates the AI provider client selected by the configuration
func NewProvider(ctx context.Context, cfg *config.Config, log *logging.Logger) (llm.Provider, error) {
	if cfg.ProviderKey() == "" {
		return nil, ErrNoProvider
	}

	cc := llm.DefaultConfig(cfg.ProviderKey())
	cc.MaxRetries = cfg.MaxRetries
	cc.RetryDelay = cfg.RetryDelay
	cc.Logger = log

	if cfg.Provider == config.ProviderGemini {
		cc.Model = cfg.GeminiModel
		client, err := llm.NewGeminiClient(ctx, cc)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	cc.Model = cfg.OpenAIModel
	cc.BaseURL = cfg.OpenAIBaseURL
	client, err := llm.NewOpenAIClient(cc)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Assistant returns the interaction orchestrator, creating the provider on first use
func (a *App) Assistant(ctx context.Context) (*core.Assistant, error) {
	a.providerOnce.Do(func() {
		if a.assistant != nil {
			return
		}
		provider, err := NewProvider(ctx, a.Config, a.Log)
		if err != nil {
			a.providerErr = err
			return
		}
		a.assistant = core.NewAssistant(provider, a.Interactions, a.Config.ProviderTimeout, a.Log)
	})
	return a.assistant, a.providerErr
}

// UseProvider installs a provider directly, bypassing configuration
func (a *App) UseProvider(p llm.Provider) {
	a.assistant = core.NewAssistant(p, a.Interactions, a.Config.ProviderTimeout, a.Log)
}

// Close releases the backend
func (a *App) Close() error {
	return a.Backend.Close()
}
