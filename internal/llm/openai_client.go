// ABOUTME: OpenAI client for structured plant-care completions
// ABOUTME: Uses chat completions with a json_schema response format and optional image input
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raajvamsy/plantopia/internal/logging"
	"github.com/raajvamsy/plantopia/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is the default model for structured completions
const DefaultOpenAIModel = "gpt-4o-mini"

// ClientConfig holds configuration for a provider client
type ClientConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	// MaxRetries is the number of extra attempts after a failure; 0 disables retries
	MaxRetries  int
	RetryDelay  time.Duration
	Temperature float32
	Logger      *logging.Logger
}

// DefaultConfig returns the default client configuration for the given key
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:      apiKey,
		Model:       DefaultOpenAIModel,
		RetryDelay:  2 * time.Second,
		Temperature: 0.2,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxRetries  int
	retryDelay  time.Duration
	temperature float32
	log         *logging.Logger
}

// NewOpenAIClient creates a new OpenAI client with custom configuration
func NewOpenAIClient(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	oc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oc.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(oc),
		model:       model,
		maxRetries:  config.MaxRetries,
		retryDelay:  config.RetryDelay,
		temperature: config.Temperature,
		log:         logging.OrNop(config.Logger).With("component", "openai"),
	}, nil
}

// GenerateStructuredContent asks the model for a JSON object matching req.Schema
func (c *OpenAIClient) GenerateStructuredContent(ctx context.Context, req StructuredRequest) (map[string]any, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    c.messages(req),
		Temperature: c.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName(req.Name),
				Schema: req.Schema.openAIDefinition(),
			},
		},
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn("retrying completion", "schema", req.Name, "attempt", attempt+1, "error", lastErr)
			if err := util.Wait(ctx, c.retryDelay, attempt); err != nil {
				return nil, err
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("completion aborted: %w", errors.Join(ctxErr, err))
			}
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, ErrEmptyResponse)
			continue
		}

		out, err := decodeObject(resp.Choices[0].Message.Content)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		c.log.Debug("completion received", "schema", req.Name, "model", c.model, "tokens", resp.Usage.TotalTokens)
		return out, nil
	}

	return nil, fmt.Errorf("structured completion failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *OpenAIClient) messages(req StructuredRequest) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	if req.ImageURL == "" {
		return append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Prompt,
		})
	}

	return append(msgs, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    req.ImageURL,
					Detail: openai.ImageURLDetailAuto,
				},
			},
		},
	})
}

func schemaName(name string) string {
	if name == "" {
		return "structured_reply"
	}
	return name
}
