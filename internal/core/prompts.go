// ABOUTME: Prompts and structured-output schemas for each interaction type
// ABOUTME: The schemas describe the same field contract the normalizer enforces
package core

import (
	"fmt"
	"strings"

	"github.com/raajvamsy/plantopia/internal/llm"
	"github.com/raajvamsy/plantopia/internal/models"
)

const systemPrompt = `You are an experienced horticulturist helping home gardeners care for their plants.
Answer with a single JSON object that follows the provided schema exactly.
Confidence values are numbers between 0 and 1. Keep list items short and actionable.`

// DefaultIdentifyMessage is persisted when an identification request carries only an image
const DefaultIdentifyMessage = "Identify this plant from the provided image."

func str(desc string) *llm.Schema {
	return &llm.Schema{Type: llm.TypeString, Description: desc}
}

func strList(desc string) *llm.Schema {
	return &llm.Schema{Type: llm.TypeArray, Description: desc, Items: &llm.Schema{Type: llm.TypeString}}
}

func enumSchema(desc string, values []string) *llm.Schema {
	return &llm.Schema{Type: llm.TypeString, Description: desc, Enum: values}
}

func confidenceSchema() *llm.Schema {
	return &llm.Schema{Type: llm.TypeNumber, Description: "Confidence between 0 and 1"}
}

// ResponseSchema returns the structured-output schema for an interaction type, or nil for an unknown type
func ResponseSchema(kind models.InteractionType) *llm.Schema {
	switch kind {
	case models.InteractionPlantIdentification:
		return &llm.Schema{
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				"species":           str("Common species name"),
				"scientific_name":   str("Binomial scientific name"),
				"family":            str("Botanical family"),
				"confidence":        confidenceSchema(),
				"difficulty_level":  enumSchema("How demanding the plant is to keep", difficultyLevels),
				"common_names":      strList("Other common names"),
				"care_instructions": strList("Short care instructions"),
				"additional_notes":  str("Anything else worth knowing"),
			},
			Required: []string{"species", "scientific_name", "family", "confidence", "difficulty_level"},
		}
	case models.InteractionCareAdvice:
		return &llm.Schema{
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				"advice":              str("The main advice"),
				"priority":            enumSchema("How urgently the advice should be followed", priorities),
				"timeline":            str("When to act or expect results"),
				"confidence":          confidenceSchema(),
				"recommended_actions": strList("Concrete steps to take"),
				"preventive_measures": strList("How to avoid the problem in future"),
				"warning_signs":       strList("Signs that the situation is getting worse"),
			},
			Required: []string{"advice", "priority", "timeline", "confidence"},
		}
	case models.InteractionDiseaseDiagnosis:
		return &llm.Schema{
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				"disease_name":             str("Name of the disease or pest problem"),
				"severity":                 enumSchema("How far the disease has progressed", severities),
				"is_contagious":            {Type: llm.TypeBoolean, Description: "Whether it can spread to other plants"},
				"confidence":               confidenceSchema(),
				"treatment_steps":          strList("Treatment steps in order"),
				"prevention_tips":          strList("How to prevent recurrence"),
				"expected_recovery_time":   str("Typical recovery time"),
				"professional_help_needed": {Type: llm.TypeBoolean, Description: "Whether a professional should be consulted"},
			},
			Required: []string{"disease_name", "severity", "is_contagious", "confidence"},
		}
	case models.InteractionGeneralChat:
		return &llm.Schema{
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				"response":          str("The answer to the gardener"),
				"suggested_actions": strList("Optional follow-up actions"),
			},
			Required: []string{"response"},
		}
	}
	return nil
}

func identifyPrompt(req models.IdentifyRequest) string {
	var b strings.Builder
	b.WriteString("Identify the plant")
	if req.ImageURL != "" {
		b.WriteString(" shown in the attached image")
	}
	b.WriteString(". Give its species, scientific name, botanical family and how difficult it is to keep.\n")
	if msg := strings.TrimSpace(req.UserMessage); msg != "" {
		fmt.Fprintf(&b, "\nThe gardener says: %s\n", msg)
	}
	return b.String()
}

func careAdvicePrompt(req models.CareAdviceRequest) string {
	var b strings.Builder
	b.WriteString("Give care advice for this situation.\n")
	if s := strings.TrimSpace(req.PlantSpecies); s != "" {
		fmt.Fprintf(&b, "\nPlant species: %s\n", s)
	}
	if symptoms := nonBlank(req.Symptoms); len(symptoms) > 0 {
		fmt.Fprintf(&b, "Observed symptoms: %s\n", strings.Join(symptoms, "; "))
	}
	fmt.Fprintf(&b, "\nThe gardener asks: %s\n", strings.TrimSpace(req.UserMessage))
	return b.String()
}

func diseasePrompt(req models.DiseaseRequest) string {
	var b strings.Builder
	b.WriteString("Diagnose the disease or pest problem affecting this plant")
	if req.ImageURL != "" {
		b.WriteString(" using the attached image and the description")
	}
	b.WriteString(".\n")
	if s := strings.TrimSpace(req.PlantSpecies); s != "" {
		fmt.Fprintf(&b, "\nPlant species: %s\n", s)
	}
	fmt.Fprintf(&b, "\nSymptoms: %s\n", strings.TrimSpace(req.SymptomsDescription))
	return b.String()
}

func chatPrompt(req models.ChatRequest) string {
	var b strings.Builder
	if c := strings.TrimSpace(req.Context); c != "" {
		fmt.Fprintf(&b, "Context: %s\n\n", c)
	}
	b.WriteString(strings.TrimSpace(req.Message))
	return b.String()
}

func nonBlank(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
