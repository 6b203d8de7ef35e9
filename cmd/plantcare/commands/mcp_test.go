// ABOUTME: Tests for MCP command structure
// ABOUTME: Verifies MCP command configuration

package commands

import (
	"strings"
	"testing"
)

func TestNewMCPCmd(t *testing.T) {
	cmd := NewMCPCmd()

	if cmd.Use != "mcp" {
		t.Errorf("Use = %q, want %q", cmd.Use, "mcp")
	}
	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}
	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
}

func TestMCPCmd_Description(t *testing.T) {
	cmd := NewMCPCmd()

	for _, part := range []string{"MCP", "LLM", "stdio", "user_id"} {
		if !strings.Contains(cmd.Long, part) {
			t.Errorf("Long description should mention %q", part)
		}
	}
}

func TestMCPCmd_Example(t *testing.T) {
	cmd := NewMCPCmd()

	if !strings.Contains(cmd.Example, "plantcare mcp") {
		t.Error("Example should show how to run the command")
	}
	if !strings.Contains(cmd.Example, "mcpServers") {
		t.Error("Example should show the host configuration")
	}
}
