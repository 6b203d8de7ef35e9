// ABOUTME: Tests for reply decoding, schema conversion, and Gemini request shaping
// ABOUTME: Gemini calls run against a fake generateContent endpoint
package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"
)

func TestDecodeObject(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"plain", `{"a":1}`, false},
		{"fenced", "```json\n{\"a\":1}\n```", false},
		{"bare fence", "```\n{\"a\":1}\n```", false},
		{"empty", "   ", true},
		{"array", `[1,2]`, true},
		{"null", `null`, true},
		{"prose", `sure, here you go`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeObject(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("decodeObject(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}

	if _, err := decodeObject(""); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("decodeObject(\"\") error = %v, want ErrEmptyResponse", err)
	}
}

func testSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"severity": {Type: TypeString, Enum: []string{"mild", "moderate", "severe"}},
			"steps":    {Type: TypeArray, Items: &Schema{Type: TypeString}},
			"urgent":   {Type: TypeBoolean},
		},
		Required: []string{"severity"},
	}
}

func TestSchema_OpenAIDefinition(t *testing.T) {
	raw, err := json.Marshal(testSchema().openAIDefinition())
	if err != nil {
		t.Fatalf("marshal definition: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal definition: %v", err)
	}
	props := got["properties"].(map[string]any)
	steps := props["steps"].(map[string]any)
	if steps["type"] != "array" || steps["items"].(map[string]any)["type"] != "string" {
		t.Errorf("steps = %v, want array of string", steps)
	}
	sev := props["severity"].(map[string]any)
	if diff := cmp.Diff([]any{"mild", "moderate", "severe"}, sev["enum"]); diff != "" {
		t.Errorf("severity enum mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_GeminiSchema(t *testing.T) {
	got := testSchema().geminiSchema()
	if got.Type != genai.TypeObject {
		t.Errorf("Type = %v, want object", got.Type)
	}
	if got.Properties["steps"].Items.Type != genai.TypeString {
		t.Errorf("steps items type = %v, want string", got.Properties["steps"].Items.Type)
	}
	if got.Properties["urgent"].Type != genai.TypeBoolean {
		t.Errorf("urgent type = %v, want boolean", got.Properties["urgent"].Type)
	}
	if diff := cmp.Diff([]string{"severity"}, got.Required); diff != "" {
		t.Errorf("Required mismatch (-want +got):\n%s", diff)
	}
	var nilSchema *Schema
	if nilSchema.geminiSchema() != nil {
		t.Error("nil schema should convert to nil")
	}
}

func TestImagePart(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	part, err := imagePart("data:image/png;base64," + payload)
	if err != nil {
		t.Fatalf("imagePart(data URL) error = %v", err)
	}
	if part.InlineData == nil || part.InlineData.MIMEType != "image/png" || string(part.InlineData.Data) != "png-bytes" {
		t.Errorf("inline part = %+v", part.InlineData)
	}

	part, err = imagePart("https://example.com/leaf.webp?size=large")
	if err != nil {
		t.Fatalf("imagePart(url) error = %v", err)
	}
	if part.FileData == nil || part.FileData.MIMEType != "image/webp" {
		t.Errorf("file part = %+v", part.FileData)
	}

	if _, err := imagePart("data:image/png,notbase64"); err == nil {
		t.Error("expected error for non-base64 data URL")
	}
}

func TestGeminiClient_GenerateStructuredContent(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"response\":\"Mist daily.\"}"}]}}]}`)
	}))
	defer srv.Close()

	client, err := NewGeminiClient(context.Background(), &ClientConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}

	out, err := client.GenerateStructuredContent(context.Background(), StructuredRequest{
		Name:   "general_chat",
		System: "You are a gardener.",
		Prompt: "How do I keep a fern happy?",
		Schema: &Schema{Type: TypeObject, Properties: map[string]*Schema{"response": {Type: TypeString}}},
	})
	if err != nil {
		t.Fatalf("GenerateStructuredContent() error = %v", err)
	}
	if out["response"] != "Mist daily." {
		t.Errorf("response = %v, want Mist daily.", out["response"])
	}

	gen, _ := body["generationConfig"].(map[string]any)
	if gen["responseMimeType"] != "application/json" {
		t.Errorf("responseMimeType = %v, want application/json", gen["responseMimeType"])
	}
}
