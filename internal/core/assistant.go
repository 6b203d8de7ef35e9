// ABOUTME: Interaction orchestrator: validate, call the provider, normalize, summarize, persist
// ABOUTME: Exactly one interaction row per successful call and none on any failure
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/raajvamsy/plantopia/internal/llm"
	"github.com/raajvamsy/plantopia/internal/logging"
	"github.com/raajvamsy/plantopia/internal/models"
	"github.com/raajvamsy/plantopia/internal/storage"
)

// DefaultProviderTimeout bounds a provider call when no timeout is configured
const DefaultProviderTimeout = 30 * time.Second

// Assistant answers plant-care requests through an AI provider and records each exchange
type Assistant struct {
	provider     llm.Provider
	interactions *storage.InteractionStore
	timeout      time.Duration
	log          *logging.Logger
}

// NewAssistant creates an Assistant. A non-positive timeout uses DefaultProviderTimeout.
func NewAssistant(provider llm.Provider, interactions *storage.InteractionStore, timeout time.Duration, log *logging.Logger) *Assistant {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &Assistant{
		provider:     provider,
		interactions: interactions,
		timeout:      timeout,
		log:          logging.OrNop(log).With("component", "assistant"),
	}
}

// exchange is one provider round trip and the record it produces
type exchange struct {
	kind        models.InteractionType
	userID      string
	userMessage string
	prompt      string
	imageURL    string
	plantID     string
}

// IdentifyPlant identifies a plant from an image, a description, or both
func (a *Assistant) IdentifyPlant(ctx context.Context, userID string, req models.IdentifyRequest) (*models.AIInteraction, *models.PlantIdentification, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	msg := strings.TrimSpace(req.UserMessage)
	if msg == "" {
		msg = DefaultIdentifyMessage
	}

	rec, resp, err := a.run(ctx, exchange{
		kind:        models.InteractionPlantIdentification,
		userID:      userID,
		userMessage: msg,
		prompt:      identifyPrompt(req),
		imageURL:    req.ImageURL,
		plantID:     req.PlantID,
	})
	if err != nil {
		return nil, nil, err
	}
	return rec, resp.(*models.PlantIdentification), nil
}

// GetCareAdvice answers a care question about a plant
func (a *Assistant) GetCareAdvice(ctx context.Context, userID string, req models.CareAdviceRequest) (*models.AIInteraction, *models.CareAdvice, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	rec, resp, err := a.run(ctx, exchange{
		kind:        models.InteractionCareAdvice,
		userID:      userID,
		userMessage: req.UserMessage,
		prompt:      careAdvicePrompt(req),
		plantID:     req.PlantID,
	})
	if err != nil {
		return nil, nil, err
	}
	return rec, resp.(*models.CareAdvice), nil
}

// DetectDisease diagnoses a plant problem from a symptom description and optional image
func (a *Assistant) DetectDisease(ctx context.Context, userID string, req models.DiseaseRequest) (*models.AIInteraction, *models.DiseaseDiagnosis, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	rec, resp, err := a.run(ctx, exchange{
		kind:        models.InteractionDiseaseDiagnosis,
		userID:      userID,
		userMessage: req.SymptomsDescription,
		prompt:      diseasePrompt(req),
		imageURL:    req.ImageURL,
		plantID:     req.PlantID,
	})
	if err != nil {
		return nil, nil, err
	}
	return rec, resp.(*models.DiseaseDiagnosis), nil
}

// GeneralChat answers a free-form gardening question
func (a *Assistant) GeneralChat(ctx context.Context, userID string, req models.ChatRequest) (*models.AIInteraction, *models.ChatReply, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	rec, resp, err := a.run(ctx, exchange{
		kind:        models.InteractionGeneralChat,
		userID:      userID,
		userMessage: req.Message,
		prompt:      chatPrompt(req),
		plantID:     req.PlantID,
	})
	if err != nil {
		return nil, nil, err
	}
	return rec, resp.(*models.ChatReply), nil
}

func (a *Assistant) run(ctx context.Context, ex exchange) (*models.AIInteraction, models.Response, error) {
	if strings.TrimSpace(ex.userID) == "" {
		return nil, nil, &models.ValidationError{Field: "user_id", Reason: "is required"}
	}
	log := a.log.With("type", ex.kind, "user_id", ex.userID)

	raw, err := a.generate(ctx, ex)
	if err != nil {
		log.Warn("provider call failed", "error", err)
		return nil, nil, &models.ProviderError{Kind: ex.kind, Err: err}
	}

	resp, err := Normalize(ex.kind, raw)
	if err != nil {
		log.Warn("provider response rejected", "error", err)
		return nil, nil, err
	}

	metadata, err := models.EncodeResponse(resp)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode %s response: %w", ex.kind, err)
	}

	rec, err := a.interactions.Create(ctx, &models.AIInteraction{
		UserID:          ex.userID,
		PlantID:         models.StringPtr(ex.plantID),
		InteractionType: ex.kind,
		UserMessage:     ex.userMessage,
		AIResponse:      Summarize(resp),
		ConfidenceScore: resp.Confidence(),
		ImageURL:        models.StringPtr(ex.imageURL),
		Metadata:        metadata,
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info("interaction recorded", "id", rec.ID)
	return rec, resp, nil
}

// generate calls the provider under the configured deadline
func (a *Assistant) generate(ctx context.Context, ex exchange) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.provider.GenerateStructuredContent(ctx, llm.StructuredRequest{
		Name:     string(ex.kind),
		System:   systemPrompt,
		Prompt:   ex.prompt,
		ImageURL: strings.TrimSpace(ex.imageURL),
		Schema:   ResponseSchema(ex.kind),
	})
	if err != nil {
		return nil, err
	}
	// A provider that ignores ctx must not outlive the deadline
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return raw, nil
}
