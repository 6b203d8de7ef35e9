// ABOUTME: Request types accepted by the interaction orchestrator
// ABOUTME: One request per interaction type, validated before any provider call
package models

import "strings"

// IdentifyRequest asks the provider to identify a plant from an image or description
type IdentifyRequest struct {
	ImageURL    string `json:"image_url,omitempty"`
	UserMessage string `json:"user_message,omitempty"`
	PlantID     string `json:"plant_id,omitempty"`
}

// Validate requires an image or a text description
func (r IdentifyRequest) Validate() error {
	if strings.TrimSpace(r.ImageURL) == "" && strings.TrimSpace(r.UserMessage) == "" {
		return &ValidationError{Field: "image_url", Reason: "or user_message is required"}
	}
	return nil
}

// CareAdviceRequest asks for care guidance about a plant
type CareAdviceRequest struct {
	PlantID      string   `json:"plant_id,omitempty"`
	PlantSpecies string   `json:"plant_species,omitempty"`
	Symptoms     []string `json:"symptoms,omitempty"`
	UserMessage  string   `json:"user_message"`
}

// Validate requires the user's question
func (r CareAdviceRequest) Validate() error {
	if strings.TrimSpace(r.UserMessage) == "" {
		return &ValidationError{Field: "user_message", Reason: "cannot be empty"}
	}
	return nil
}

// DiseaseRequest asks for a diagnosis from a symptom description and optional image
type DiseaseRequest struct {
	ImageURL            string `json:"image_url,omitempty"`
	PlantSpecies        string `json:"plant_species,omitempty"`
	SymptomsDescription string `json:"symptoms_description"`
	PlantID             string `json:"plant_id,omitempty"`
}

// Validate requires a symptom description
func (r DiseaseRequest) Validate() error {
	if strings.TrimSpace(r.SymptomsDescription) == "" {
		return &ValidationError{Field: "symptoms_description", Reason: "cannot be empty"}
	}
	return nil
}

// ChatRequest is a free-form gardening question
type ChatRequest struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
	PlantID string `json:"plant_id,omitempty"`
}

// Validate requires a message
func (r ChatRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return &ValidationError{Field: "message", Reason: "cannot be empty"}
	}
	return nil
}
