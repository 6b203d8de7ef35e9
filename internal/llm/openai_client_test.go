// ABOUTME: Tests for the OpenAI structured completion client against a fake API server
// ABOUTME: Covers schema forwarding, image parts, retries, and deadline handling
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return string(b)
}

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc, retries int) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	cfg.MaxRetries = retries
	cfg.RetryDelay = time.Millisecond

	client, err := NewOpenAIClient(cfg)
	if err != nil {
		t.Fatalf("NewOpenAIClient() error = %v", err)
	}
	return client
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(&ClientConfig{}); err == nil {
		t.Error("NewOpenAIClient() should fail without an API key")
	}
}

func TestOpenAIClient_GenerateStructuredContent(t *testing.T) {
	var body map[string]any
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionBody("```json\n{\"species\":\"Monstera\",\"confidence\":0.91}\n```"))
	}, 0)

	out, err := client.GenerateStructuredContent(context.Background(), StructuredRequest{
		Name:     "plant_identification",
		System:   "You are a botanist.",
		Prompt:   "Identify this plant.",
		ImageURL: "https://example.com/leaf.jpg",
		Schema: &Schema{
			Type:       TypeObject,
			Properties: map[string]*Schema{"species": {Type: TypeString}, "confidence": {Type: TypeNumber}},
			Required:   []string{"species", "confidence"},
		},
	})
	if err != nil {
		t.Fatalf("GenerateStructuredContent() error = %v", err)
	}

	if out["species"] != "Monstera" {
		t.Errorf("species = %v, want Monstera", out["species"])
	}
	if n, ok := out["confidence"].(json.Number); !ok || n.String() != "0.91" {
		t.Errorf("confidence = %#v, want json.Number 0.91", out["confidence"])
	}

	format, _ := body["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format.type = %v, want json_schema", format["type"])
	}
	schema, _ := format["json_schema"].(map[string]any)
	if schema["name"] != "plant_identification" {
		t.Errorf("json_schema.name = %v, want plant_identification", schema["name"])
	}

	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	user, _ := msgs[1].(map[string]any)
	parts, _ := user["content"].([]any)
	if len(parts) != 2 {
		t.Fatalf("user content parts = %d, want text and image", len(parts))
	}
	img, _ := parts[1].(map[string]any)
	if img["type"] != "image_url" {
		t.Errorf("second part type = %v, want image_url", img["type"])
	}
}

func TestOpenAIClient_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":{"message":"boom","type":"server_error"}}`, http.StatusInternalServerError)
	}, 0)

	_, err := client.GenerateStructuredContent(context.Background(), StructuredRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error from failing server")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestOpenAIClient_RetriesWhenEnabled(t *testing.T) {
	var calls atomic.Int32
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"error":{"message":"busy","type":"server_error"}}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionBody(`{"response":"Water weekly."}`))
	}, 2)

	out, err := client.GenerateStructuredContent(context.Background(), StructuredRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("GenerateStructuredContent() error = %v", err)
	}
	if out["response"] != "Water weekly." {
		t.Errorf("response = %v", out["response"])
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestOpenAIClient_Deadline(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, 3)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GenerateStructuredContent(ctx, StructuredRequest{Prompt: "hi"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestOpenAIClient_NonJSONReply(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionBody("I think it's a fern!"))
	}, 0)

	if _, err := client.GenerateStructuredContent(context.Background(), StructuredRequest{Prompt: "hi"}); err == nil {
		t.Error("expected error for a non-JSON reply")
	}
}
