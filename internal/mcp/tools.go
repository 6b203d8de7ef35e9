// ABOUTME: MCP tool definitions and registration for the plant-care server
// ABOUTME: Every tool takes a user_id so one server can serve several gardeners
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/raajvamsy/plantopia/internal/app"
)

func userIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "ID of the gardener the request is made for",
	}
}

func stringProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func limitProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Maximum number of results (default 50, at most 100)",
		"default":     50,
	}
}

func interactionTypeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional interaction type filter",
		"enum":        []string{"plant_identification", "care_advice", "disease_diagnosis", "general_chat"},
	}
}

// ServerName identifies the server to MCP clients
const ServerName = "plantcare"

// NewServer builds an MCP server with every plant-care tool registered
func NewServer(a *app.App, version string) *mcpserver.MCPServer {
	server := mcpserver.NewMCPServer(
		ServerName,
		version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	RegisterTools(server, a)
	return server
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, a *app.App) *Handlers {
	handlers := NewHandlers(a)

	server.AddTool(mcp.Tool{
		Name:        "identify_plant",
		Description: "Identify a plant from an image URL and/or a description. The answer is stored in the gardener's history.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id":      userIDProperty(),
				"image_url":    stringProperty("URL of a photo of the plant"),
				"user_message": stringProperty("Optional description of the plant"),
				"plant_id":     stringProperty("Optional plant this request is about"),
			},
			Required: []string{"user_id"},
		},
	}, handlers.IdentifyPlant)

	server.AddTool(mcp.Tool{
		Name:        "get_care_advice",
		Description: "Get care advice for a plant problem or question, with priority and timeline.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id":       userIDProperty(),
				"user_message":  stringProperty("The gardener's question"),
				"plant_species": stringProperty("Optional species of the plant"),
				"plant_id":      stringProperty("Optional plant this request is about"),
				"symptoms": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Optional observed symptoms",
				},
			},
			Required: []string{"user_id", "user_message"},
		},
	}, handlers.GetCareAdvice)

	server.AddTool(mcp.Tool{
		Name:        "detect_disease",
		Description: "Diagnose a plant disease or pest problem from a symptom description and optional image.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id":              userIDProperty(),
				"symptoms_description": stringProperty("What the plant looks like"),
				"image_url":            stringProperty("Optional URL of a photo of the affected plant"),
				"plant_species":        stringProperty("Optional species of the plant"),
				"plant_id":             stringProperty("Optional plant this request is about"),
			},
			Required: []string{"user_id", "symptoms_description"},
		},
	}, handlers.DetectDisease)

	server.AddTool(mcp.Tool{
		Name:        "plant_chat",
		Description: "Ask a free-form gardening question.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id":  userIDProperty(),
				"message":  stringProperty("The question"),
				"context":  stringProperty("Optional extra context"),
				"plant_id": stringProperty("Optional plant this question is about"),
			},
			Required: []string{"user_id", "message"},
		},
	}, handlers.PlantChat)

	server.AddTool(mcp.Tool{
		Name:        "list_interactions",
		Description: "List the gardener's AI interactions, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id":          userIDProperty(),
				"interaction_type": interactionTypeProperty(),
				"limit":            limitProperty(),
			},
			Required: []string{"user_id"},
		},
	}, handlers.ListInteractions)

	server.AddTool(mcp.Tool{
		Name:        "search_interactions",
		Description: "Search the gardener's interactions by case-insensitive substring over questions and answers.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id":          userIDProperty(),
				"query":            stringProperty("Text to search for"),
				"interaction_type": interactionTypeProperty(),
				"limit":            limitProperty(),
			},
			Required: []string{"user_id", "query"},
		},
	}, handlers.SearchInteractions)

	server.AddTool(mcp.Tool{
		Name:        "interaction_stats",
		Description: "Summarize the gardener's interactions: totals by type, mean confidence, and activity in the last 7 days.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty(),
			},
			Required: []string{"user_id"},
		},
	}, handlers.InteractionStats)

	server.AddTool(mcp.Tool{
		Name:        "delete_interaction",
		Description: "Delete one of the gardener's interactions.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id":        userIDProperty(),
				"interaction_id": stringProperty("ID of the interaction to delete"),
			},
			Required: []string{"user_id", "interaction_id"},
		},
	}, handlers.DeleteInteraction)

	server.AddTool(mcp.Tool{
		Name:        "list_achievements",
		Description: "List the gardener's achievements.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty(),
				"status": map[string]interface{}{
					"type":        "string",
					"description": "Which achievements to list (default all)",
					"enum":        []string{"all", "pending", "completed"},
				},
			},
			Required: []string{"user_id"},
		},
	}, handlers.ListAchievements)

	server.AddTool(mcp.Tool{
		Name:        "evaluate_achievements",
		Description: "Check the gardener's pending achievements and award those now earned. Creates the achievement set on first use.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty(),
			},
			Required: []string{"user_id"},
		},
	}, handlers.EvaluateAchievements)

	server.AddTool(mcp.Tool{
		Name:        "achievement_stats",
		Description: "Summarize the gardener's achievement progress.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"user_id": userIDProperty(),
			},
			Required: []string{"user_id"},
		},
	}, handlers.AchievementStats)

	return handlers
}
