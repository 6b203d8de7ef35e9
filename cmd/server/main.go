// ABOUTME: Standalone plant-care MCP server with stdio transport
// ABOUTME: Loads configuration, wires the app, and serves every tool until stdin closes
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/raajvamsy/plantopia/internal/app"
	"github.com/raajvamsy/plantopia/internal/config"
	"github.com/raajvamsy/plantopia/internal/logging"
	"github.com/raajvamsy/plantopia/internal/mcp"
)

// Version information (set by goreleaser)
var version = "dev"

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := logging.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return
	}
	defer func() { _ = a.Close() }()

	if cfg.ProviderKey() == "" {
		logger.Warn("no provider API key set: AI tools will fail, history and achievement tools still work")
	}

	server := mcp.NewServer(a, version)

	logger.Info("plantcare MCP server starting on stdio", "provider", cfg.Provider, "db_driver", cfg.DatabaseDriver)
	if err := mcpserver.ServeStdio(server); err != nil {
		logger.Error("server error", "error", err)
	}
}
