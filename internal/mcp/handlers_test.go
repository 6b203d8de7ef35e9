// ABOUTME: Tests for MCP tool handlers over an in-memory backend and a canned provider
// ABOUTME: Verifies argument handling, JSON results, and error reporting
package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/raajvamsy/plantopia/internal/app"
	"github.com/raajvamsy/plantopia/internal/config"
	"github.com/raajvamsy/plantopia/internal/llm"
	"github.com/raajvamsy/plantopia/internal/storage/sqlite"
)

type cannedProvider struct {
	reply map[string]any
}

func (p *cannedProvider) GenerateStructuredContent(ctx context.Context, req llm.StructuredRequest) (map[string]any, error) {
	return p.reply, nil
}

func newTestHandlers(t *testing.T, reply map[string]any) *Handlers {
	t.Helper()
	backend, err := sqlite.NewStorageInMemory(context.Background())
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	cfg := &config.Config{ProviderTimeout: time.Second, EvalConcurrency: 2}
	a, err := app.NewWithBackend(cfg, backend, nil)
	if err != nil {
		t.Fatalf("NewWithBackend() error = %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	if reply != nil {
		a.UseProvider(&cannedProvider{reply: reply})
	}
	return NewHandlers(a)
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return text.Text
}

func TestHandlers_PlantChatAndHistory(t *testing.T) {
	ctx := context.Background()
	h := newTestHandlers(t, map[string]any{"response": "Water your fern when the top inch is dry."})

	res, err := h.PlantChat(ctx, call(map[string]any{"user_id": "u-1", "message": "How often should I water my fern?"}))
	if err != nil || res.IsError {
		t.Fatalf("PlantChat() = %v, %v", resultText(t, res), err)
	}
	var chat struct {
		InteractionID string `json:"interaction_id"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &chat); err != nil || chat.InteractionID == "" {
		t.Fatalf("PlantChat() result = %s", resultText(t, res))
	}

	res, _ = h.SearchInteractions(ctx, call(map[string]any{"user_id": "u-1", "query": "FERN"}))
	if res.IsError || !strings.Contains(resultText(t, res), chat.InteractionID) {
		t.Errorf("SearchInteractions() = %s", resultText(t, res))
	}

	res, _ = h.InteractionStats(ctx, call(map[string]any{"user_id": "u-1"}))
	if !strings.Contains(resultText(t, res), `"total_interactions":1`) {
		t.Errorf("InteractionStats() = %s", resultText(t, res))
	}

	res, _ = h.DeleteInteraction(ctx, call(map[string]any{"user_id": "u-2", "interaction_id": chat.InteractionID}))
	if !res.IsError || !strings.Contains(resultText(t, res), "not found") {
		t.Errorf("DeleteInteraction(non-owner) = %s", resultText(t, res))
	}
	res, _ = h.DeleteInteraction(ctx, call(map[string]any{"user_id": "u-1", "interaction_id": chat.InteractionID}))
	if res.IsError {
		t.Errorf("DeleteInteraction() = %s", resultText(t, res))
	}
}

func TestHandlers_ArgumentErrors(t *testing.T) {
	ctx := context.Background()
	h := newTestHandlers(t, nil)

	res, _ := h.PlantChat(ctx, call(map[string]any{"message": "hi"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "user_id") {
		t.Errorf("PlantChat(no user) = %s", resultText(t, res))
	}

	res, _ = h.ListInteractions(ctx, call(map[string]any{"user_id": "u-1", "interaction_type": "horoscope"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "invalid request") {
		t.Errorf("ListInteractions(bad type) = %s", resultText(t, res))
	}

	res, _ = h.ListInteractions(ctx, call(map[string]any{"user_id": ""}))
	if !res.IsError || !strings.Contains(resultText(t, res), "invalid request") {
		t.Errorf("ListInteractions(empty user) = %s", resultText(t, res))
	}
	res, _ = h.SearchInteractions(ctx, call(map[string]any{"user_id": "", "query": "fern"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "invalid request") {
		t.Errorf("SearchInteractions(empty user) = %s", resultText(t, res))
	}

	res, _ = h.ListAchievements(ctx, call(map[string]any{"user_id": "u-1", "status": "someday"}))
	if !res.IsError {
		t.Errorf("ListAchievements(bad status) = %s", resultText(t, res))
	}
}

func TestHandlers_EvaluateAchievements(t *testing.T) {
	ctx := context.Background()
	h := newTestHandlers(t, nil)

	res, err := h.EvaluateAchievements(ctx, call(map[string]any{"user_id": "u-1"}))
	if err != nil || res.IsError {
		t.Fatalf("EvaluateAchievements() = %s, %v", resultText(t, res), err)
	}
	if got := resultText(t, res); got != `{"newly_completed":[]}` {
		t.Errorf("EvaluateAchievements() = %s", got)
	}

	res, _ = h.AchievementStats(ctx, call(map[string]any{"user_id": "u-1"}))
	if !strings.Contains(resultText(t, res), `"total":6`) {
		t.Errorf("AchievementStats() = %s", resultText(t, res))
	}

	res, _ = h.ListAchievements(ctx, call(map[string]any{"user_id": "u-1", "status": "pending"}))
	if strings.Count(resultText(t, res), `"achievement_type"`) != 6 {
		t.Errorf("ListAchievements(pending) = %s", resultText(t, res))
	}
}
