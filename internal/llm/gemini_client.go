// ABOUTME: Google Gemini client for structured plant-care completions
// ABOUTME: Uses genai GenerateContent with a JSON response MIME type and response schema
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/raajvamsy/plantopia/internal/logging"
	"github.com/raajvamsy/plantopia/internal/util"
	"google.golang.org/genai"
)

// DefaultGeminiModel is the default Gemini model for structured completions
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClient wraps the genai client with retry logic
type GeminiClient struct {
	client      *genai.Client
	model       string
	maxRetries  int
	retryDelay  time.Duration
	temperature float32
	log         *logging.Logger
}

// NewGeminiClient creates a Gemini API client
func NewGeminiClient(ctx context.Context, config *ClientConfig) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiClient{
		client:      client,
		model:       model,
		maxRetries:  config.MaxRetries,
		retryDelay:  config.RetryDelay,
		temperature: config.Temperature,
		log:         logging.OrNop(config.Logger).With("component", "gemini"),
	}, nil
}

// GenerateStructuredContent asks Gemini for a JSON object matching req.Schema
func (c *GeminiClient) GenerateStructuredContent(ctx context.Context, req StructuredRequest) (map[string]any, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.ImageURL != "" {
		img, err := imagePart(req.ImageURL)
		if err != nil {
			return nil, err
		}
		parts = append(parts, img)
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temperature := c.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema.geminiSchema(),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn("retrying generation", "schema", req.Name, "attempt", attempt+1, "error", lastErr)
			if err := util.Wait(ctx, c.retryDelay, attempt); err != nil {
				return nil, err
			}
		}

		resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("generation aborted: %w", errors.Join(ctxErr, err))
			}
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		out, err := decodeObject(resp.Text())
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		c.log.Debug("generation received", "schema", req.Name, "model", c.model)
		return out, nil
	}

	return nil, fmt.Errorf("structured generation failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// imagePart turns a data URL into inline bytes and anything else into a file URI part
func imagePart(url string) (*genai.Part, error) {
	if rest, ok := strings.CutPrefix(url, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, fmt.Errorf("unsupported data URL: expected base64 payload")
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data URL: %w", err)
		}
		return genai.NewPartFromBytes(data, strings.TrimSuffix(meta, ";base64")), nil
	}
	return genai.NewPartFromURI(url, imageMIMEType(url)), nil
}

func imageMIMEType(url string) string {
	ext := strings.ToLower(path.Ext(strings.SplitN(url, "?", 2)[0]))
	switch ext {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".heic":
		return "image/heic"
	default:
		return "image/jpeg"
	}
}
