// ABOUTME: MCP tool handler implementations for the plant-care server
// ABOUTME: Handlers translate tool arguments into orchestrator and store calls and return JSON text
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/raajvamsy/plantopia/internal/app"
	"github.com/raajvamsy/plantopia/internal/models"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	app *app.App
}

// NewHandlers creates handlers over the wired application
func NewHandlers(a *app.App) *Handlers {
	return &Handlers{app: a}
}

// IdentifyPlant handles the identify_plant tool
func (h *Handlers) IdentifyPlant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}

	assistant, err := h.app.Assistant(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, resp, err := assistant.IdentifyPlant(ctx, userID, models.IdentifyRequest{
		ImageURL:    request.GetString("image_url", ""),
		UserMessage: request.GetString("user_message", ""),
		PlantID:     request.GetString("plant_id", ""),
	})
	if err != nil {
		return toolError("identify plant", err), nil
	}
	return jsonResult(map[string]interface{}{"interaction_id": rec.ID, "identification": resp})
}

// GetCareAdvice handles the get_care_advice tool
func (h *Handlers) GetCareAdvice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}
	message, err := request.RequireString("user_message")
	if err != nil {
		return mcp.NewToolResultError("user_message argument is required and must be a string"), nil
	}

	assistant, err := h.app.Assistant(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, resp, err := assistant.GetCareAdvice(ctx, userID, models.CareAdviceRequest{
		PlantID:      request.GetString("plant_id", ""),
		PlantSpecies: request.GetString("plant_species", ""),
		Symptoms:     stringArgs(request, "symptoms"),
		UserMessage:  message,
	})
	if err != nil {
		return toolError("get care advice", err), nil
	}
	return jsonResult(map[string]interface{}{"interaction_id": rec.ID, "advice": resp})
}

// DetectDisease handles the detect_disease tool
func (h *Handlers) DetectDisease(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}
	symptoms, err := request.RequireString("symptoms_description")
	if err != nil {
		return mcp.NewToolResultError("symptoms_description argument is required and must be a string"), nil
	}

	assistant, err := h.app.Assistant(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, resp, err := assistant.DetectDisease(ctx, userID, models.DiseaseRequest{
		ImageURL:            request.GetString("image_url", ""),
		PlantSpecies:        request.GetString("plant_species", ""),
		SymptomsDescription: symptoms,
		PlantID:             request.GetString("plant_id", ""),
	})
	if err != nil {
		return toolError("detect disease", err), nil
	}
	return jsonResult(map[string]interface{}{"interaction_id": rec.ID, "diagnosis": resp})
}

// PlantChat handles the plant_chat tool
func (h *Handlers) PlantChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message argument is required and must be a string"), nil
	}

	assistant, err := h.app.Assistant(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, resp, err := assistant.GeneralChat(ctx, userID, models.ChatRequest{
		Message: message,
		Context: request.GetString("context", ""),
		PlantID: request.GetString("plant_id", ""),
	})
	if err != nil {
		return toolError("chat", err), nil
	}
	return jsonResult(map[string]interface{}{"interaction_id": rec.ID, "reply": resp})
}

// ListInteractions handles the list_interactions tool
func (h *Handlers) ListInteractions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}
	typ, err := typeArg(request)
	if err != nil {
		return toolError("list interactions", err), nil
	}

	rows, err := h.app.Interactions.ListByUser(ctx, userID, typ, request.GetInt("limit", 0))
	if err != nil {
		return toolError("list interactions", err), nil
	}
	return jsonResult(map[string]interface{}{"interactions": nonNil(rows)})
}

// SearchInteractions handles the search_interactions tool
func (h *Handlers) SearchInteractions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	typ, err := typeArg(request)
	if err != nil {
		return toolError("search interactions", err), nil
	}

	rows, err := h.app.Interactions.Search(ctx, userID, query, typ, request.GetInt("limit", 0))
	if err != nil {
		return toolError("search interactions", err), nil
	}
	return jsonResult(map[string]interface{}{"interactions": nonNil(rows)})
}

// InteractionStats handles the interaction_stats tool
func (h *Handlers) InteractionStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}

	stats, err := h.app.Interactions.Stats(ctx, userID)
	if err != nil {
		return toolError("interaction stats", err), nil
	}
	return jsonResult(stats)
}

// DeleteInteraction handles the delete_interaction tool
func (h *Handlers) DeleteInteraction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}
	id, err := request.RequireString("interaction_id")
	if err != nil {
		return mcp.NewToolResultError("interaction_id argument is required and must be a string"), nil
	}

	if err := h.app.Interactions.Delete(ctx, id, userID); err != nil {
		return toolError("delete interaction", err), nil
	}
	return jsonResult(map[string]interface{}{"success": true, "interaction_id": id})
}

// ListAchievements handles the list_achievements tool
func (h *Handlers) ListAchievements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}

	var rows []models.Achievement
	switch status := request.GetString("status", "all"); status {
	case "all", "":
		rows, err = h.app.Achievements.ListByUser(ctx, userID)
	case "pending":
		rows, err = h.app.Achievements.ListPending(ctx, userID)
	case "completed":
		rows, err = h.app.Achievements.ListCompleted(ctx, userID)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q: use all, pending or completed", status)), nil
	}
	if err != nil {
		return toolError("list achievements", err), nil
	}
	return jsonResult(map[string]interface{}{"achievements": nonNil(rows)})
}

// EvaluateAchievements handles the evaluate_achievements tool
func (h *Handlers) EvaluateAchievements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}

	if _, err := h.app.Engine.Bootstrap(ctx, userID); err != nil {
		return toolError("bootstrap achievements", err), nil
	}
	awarded, err := h.app.Engine.EvaluateAll(ctx, userID)
	if err != nil {
		return toolError("evaluate achievements", err), nil
	}
	return jsonResult(map[string]interface{}{"newly_completed": nonNil(awarded)})
}

// AchievementStats handles the achievement_stats tool
func (h *Handlers) AchievementStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError("user_id argument is required and must be a string"), nil
	}

	stats, err := h.app.Achievements.Stats(ctx, userID)
	if err != nil {
		return toolError("achievement stats", err), nil
	}
	return jsonResult(stats)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// toolError reports a failure to the agent; the kind of error is kept in the text
func toolError(op string, err error) *mcp.CallToolResult {
	switch {
	case models.IsValidation(err):
		return mcp.NewToolResultError(fmt.Sprintf("invalid request: %v", err))
	case errors.Is(err, models.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("%s: not found", op))
	case models.IsMalformedResponse(err), models.IsProvider(err):
		return mcp.NewToolResultError(fmt.Sprintf("%s: AI provider problem, try again: %v", op, err))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", op, err))
}

func typeArg(request mcp.CallToolRequest) (*models.InteractionType, error) {
	raw := request.GetString("interaction_type", "")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := models.ParseInteractionType(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// stringArgs reads an optional string array argument
func stringArgs(request mcp.CallToolRequest, key string) []string {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	arr, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
