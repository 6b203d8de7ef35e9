// ABOUTME: AIInteraction represents one persisted request/response exchange with the AI provider
// ABOUTME: Includes interaction type enumeration, confidence clamping, and store query types
package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// InteractionType identifies which AI capability produced an interaction
type InteractionType string

const (
	InteractionPlantIdentification InteractionType = "plant_identification"
	InteractionCareAdvice          InteractionType = "care_advice"
	InteractionDiseaseDiagnosis    InteractionType = "disease_diagnosis"
	InteractionGeneralChat         InteractionType = "general_chat"
)

// InteractionTypes lists every known interaction type in display order
var InteractionTypes = []InteractionType{
	InteractionPlantIdentification,
	InteractionCareAdvice,
	InteractionDiseaseDiagnosis,
	InteractionGeneralChat,
}

// IsValid reports whether the type belongs to the closed enumeration
func (t InteractionType) IsValid() bool {
	switch t {
	case InteractionPlantIdentification, InteractionCareAdvice, InteractionDiseaseDiagnosis, InteractionGeneralChat:
		return true
	}
	return false
}

// ParseInteractionType converts user input into an InteractionType
func ParseInteractionType(s string) (InteractionType, error) {
	t := InteractionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", &ValidationError{Field: "interaction_type", Reason: "unknown interaction type " + strconv.Quote(s)}
	}
	return t, nil
}

// AIInteraction is one request/response pair with the AI provider
type AIInteraction struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	PlantID         *string         `json:"plant_id,omitempty"`
	InteractionType InteractionType `json:"interaction_type"`
	UserMessage     string          `json:"user_message"`
	AIResponse      string          `json:"ai_response"`
	ConfidenceScore *float64        `json:"confidence_score,omitempty"`
	ImageURL        *string         `json:"image_url,omitempty"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Validate checks the required fields of an interaction
func (i *AIInteraction) Validate() error {
	if strings.TrimSpace(i.UserID) == "" {
		return &ValidationError{Field: "user_id", Reason: "is required"}
	}
	if !i.InteractionType.IsValid() {
		return &ValidationError{Field: "interaction_type", Reason: "unknown interaction type " + strconv.Quote(string(i.InteractionType))}
	}
	if strings.TrimSpace(i.UserMessage) == "" {
		return &ValidationError{Field: "user_message", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(i.AIResponse) == "" {
		return &ValidationError{Field: "ai_response", Reason: "cannot be empty"}
	}
	return nil
}

// Normalize trims text fields, drops blank optionals and clamps the confidence score
func (i *AIInteraction) Normalize() {
	i.UserID = strings.TrimSpace(i.UserID)
	i.UserMessage = strings.TrimSpace(i.UserMessage)
	i.AIResponse = strings.TrimSpace(i.AIResponse)
	i.PlantID = TrimOptional(i.PlantID)
	i.ImageURL = TrimOptional(i.ImageURL)
	i.ConfidenceScore = ClampConfidencePtr(i.ConfidenceScore)
}

// InteractionUpdate is a partial correction of an interaction; nil fields are left unchanged
type InteractionUpdate struct {
	UserMessage     *string
	AIResponse      *string
	ConfidenceScore *float64
	ImageURL        *string
	PlantID         *string
	Metadata        json.RawMessage
}

// IsEmpty reports whether the update changes nothing
func (u InteractionUpdate) IsEmpty() bool {
	return u.UserMessage == nil && u.AIResponse == nil && u.ConfidenceScore == nil &&
		u.ImageURL == nil && u.PlantID == nil && u.Metadata == nil
}

// InteractionQuery filters list and search operations at the repository level
type InteractionQuery struct {
	UserID  string
	PlantID string
	Type    *InteractionType
	// Text is matched case-insensitively as a literal substring
	Text string
	// Limit <= 0 returns every matching row; stores clamp before querying
	Limit int
}

// InteractionStatRow is the minimal projection needed to compute statistics
type InteractionStatRow struct {
	Type       InteractionType
	Confidence *float64
	CreatedAt  time.Time
}

// InteractionStats summarizes a user's interaction history
type InteractionStats struct {
	TotalInteractions int                     `json:"total_interactions"`
	ByType            map[InteractionType]int `json:"by_type"`
	AverageConfidence float64                 `json:"average_confidence"`
	RecentCount       int                     `json:"recent_count"`
}

// BulkDeleteResult reports per-item outcome counts of a bulk delete
type BulkDeleteResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// ClampConfidence forces a confidence value into [0,1]
func ClampConfidence(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// ClampConfidencePtr clamps an optional confidence, preserving absence
func ClampConfidencePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := ClampConfidence(*v)
	return &c
}

// TrimOptional trims an optional string and collapses blanks to nil
func TrimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// StringPtr returns a pointer to s, or nil when s is blank
func StringPtr(s string) *string {
	return TrimOptional(&s)
}
