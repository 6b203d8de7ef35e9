// ABOUTME: Provider capability for structured plant-care completions
// ABOUTME: Defines the request shape, a provider-neutral JSON schema, and reply decoding
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse is returned when the provider answers without any content
var ErrEmptyResponse = errors.New("provider returned no content")

// Provider generates a JSON object that follows the requested schema.
// Implementations must honor ctx cancellation and deadlines.
type Provider interface {
	GenerateStructuredContent(ctx context.Context, req StructuredRequest) (map[string]any, error)
}

// StructuredRequest is one structured-output call
type StructuredRequest struct {
	// Name labels the schema for providers that require one (e.g. "plant_identification")
	Name     string
	System   string
	Prompt   string
	ImageURL string
	Schema   *Schema
}

// SchemaType is a JSON schema primitive type
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
)

// Schema is the subset of JSON schema both providers understand
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// decodeObject parses a provider reply into a JSON object.
// Markdown code fences around the JSON are tolerated. Numbers are kept as json.Number.
func decodeObject(content string) (map[string]any, error) {
	content = stripFences(content)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	dec.UseNumber()

	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse JSON reply: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("failed to parse JSON reply: not an object")
	}
	return out, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
