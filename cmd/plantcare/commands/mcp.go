// ABOUTME: MCP command starts the Model Context Protocol server
// ABOUTME: Exposes plant identification, care advice, history, and achievements to LLM agents over stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/raajvamsy/plantopia/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs plantcare as an MCP (Model Context Protocol) server so LLM agents
can identify plants, give care advice, browse history, and evaluate
achievements via stdio. Every tool takes a user_id argument.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by the agent host)
  plantcare mcp

  # Configure in the host's MCP config:
  # {
  #   "mcpServers": {
  #     "plantcare": {
  #       "command": "plantcare",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		a.Log.Sync()
		_ = a.Close()
	}()

	if a.Config.ProviderKey() == "" {
		a.Log.Warn("no provider API key set: AI tools will fail, history and achievement tools still work")
	}

	server := mcp.NewServer(a, versionInfo.Version)
	a.Log.Info("MCP server starting on stdio", "provider", a.Config.Provider)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		a.Log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
