// ABOUTME: Typed response variants produced by the normalizer (a closed sum type)
// ABOUTME: Variants are stored as tagged JSON in interaction metadata and can be replayed
package models

import (
	"encoding/json"
	"fmt"
)

// Response is one of PlantIdentification, CareAdvice, DiseaseDiagnosis or ChatReply.
// The unexported marker keeps the set closed to this package.
type Response interface {
	Kind() InteractionType
	// Confidence returns the clamped confidence, or nil when the variant carries none
	Confidence() *float64
	isResponse()
}

// DifficultyLevel is how demanding a plant is to keep
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Priority is the urgency of a piece of care advice
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Severity is how far a disease has progressed
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// PlantIdentification is the normalized reply to an identification request
type PlantIdentification struct {
	Species          string          `json:"species"`
	ScientificName   string          `json:"scientific_name"`
	Family           string          `json:"family"`
	ConfidenceScore  float64         `json:"confidence"`
	DifficultyLevel  DifficultyLevel `json:"difficulty_level"`
	CommonNames      []string        `json:"common_names,omitempty"`
	CareInstructions []string        `json:"care_instructions,omitempty"`
	AdditionalNotes  string          `json:"additional_notes,omitempty"`
}

func (*PlantIdentification) Kind() InteractionType { return InteractionPlantIdentification }
func (r *PlantIdentification) Confidence() *float64 { return &r.ConfidenceScore }
func (*PlantIdentification) isResponse()            {}

// CareAdvice is the normalized reply to a care-advice request
type CareAdvice struct {
	Advice             string   `json:"advice"`
	Priority           Priority `json:"priority"`
	Timeline           string   `json:"timeline"`
	ConfidenceScore    float64  `json:"confidence"`
	RecommendedActions []string `json:"recommended_actions,omitempty"`
	PreventiveMeasures []string `json:"preventive_measures,omitempty"`
	WarningSigns       []string `json:"warning_signs,omitempty"`
}

func (*CareAdvice) Kind() InteractionType  { return InteractionCareAdvice }
func (r *CareAdvice) Confidence() *float64 { return &r.ConfidenceScore }
func (*CareAdvice) isResponse()            {}

// DiseaseDiagnosis is the normalized reply to a disease-detection request
type DiseaseDiagnosis struct {
	DiseaseName            string   `json:"disease_name"`
	Severity               Severity `json:"severity"`
	IsContagious           bool     `json:"is_contagious"`
	ConfidenceScore        float64  `json:"confidence"`
	TreatmentSteps         []string `json:"treatment_steps,omitempty"`
	PreventionTips         []string `json:"prevention_tips,omitempty"`
	ExpectedRecoveryTime   string   `json:"expected_recovery_time,omitempty"`
	ProfessionalHelpNeeded bool     `json:"professional_help_needed"`
}

func (*DiseaseDiagnosis) Kind() InteractionType  { return InteractionDiseaseDiagnosis }
func (r *DiseaseDiagnosis) Confidence() *float64 { return &r.ConfidenceScore }
func (*DiseaseDiagnosis) isResponse()            {}

// ChatReply is the normalized reply to a general chat message
type ChatReply struct {
	Response         string   `json:"response"`
	SuggestedActions []string `json:"suggested_actions,omitempty"`
}

func (*ChatReply) Kind() InteractionType { return InteractionGeneralChat }
func (*ChatReply) Confidence() *float64  { return nil }
func (*ChatReply) isResponse()           {}

type responseEnvelope struct {
	Type     InteractionType `json:"type"`
	Response json.RawMessage `json:"response"`
}

// EncodeResponse serializes a variant with its type tag for interaction metadata
func EncodeResponse(r Response) (json.RawMessage, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s response: %w", r.Kind(), err)
	}
	return json.Marshal(responseEnvelope{Type: r.Kind(), Response: body})
}

// DecodeResponse restores the variant stored in interaction metadata
func DecodeResponse(raw json.RawMessage) (Response, error) {
	var env responseEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response envelope: %w", err)
	}

	var r Response
	switch env.Type {
	case InteractionPlantIdentification:
		r = &PlantIdentification{}
	case InteractionCareAdvice:
		r = &CareAdvice{}
	case InteractionDiseaseDiagnosis:
		r = &DiseaseDiagnosis{}
	case InteractionGeneralChat:
		r = &ChatReply{}
	default:
		return nil, fmt.Errorf("unknown response type %q", env.Type)
	}

	if err := json.Unmarshal(env.Response, r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s response: %w", env.Type, err)
	}
	return r, nil
}
