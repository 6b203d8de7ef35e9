// ABOUTME: Tests for deterministic response summaries
// ABOUTME: Each variant renders its key fields the same way every time
package core

import (
	"strings"
	"testing"

	"github.com/raajvamsy/plantopia/internal/models"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		resp models.Response
		want []string
	}{
		{
			name: "identification",
			resp: &models.PlantIdentification{
				Species: "Snake plant", ScientificName: "Dracaena trifasciata", Family: "Asparagaceae",
				ConfidenceScore: 0.876, DifficultyLevel: models.DifficultyEasy,
				CareInstructions: []string{"Water every 2-3 weeks"},
			},
			want: []string{
				"Identified as Snake plant (Dracaena trifasciata) with 88% confidence.",
				"Difficulty: easy.",
				"Care:\n- Water every 2-3 weeks",
			},
		},
		{
			name: "care advice",
			resp: &models.CareAdvice{
				Advice: "Move it away from the radiator.", Priority: models.PriorityHigh,
				Timeline: "today", ConfidenceScore: 0.7, WarningSigns: []string{"Crispy edges"},
			},
			want: []string{"Move it away from the radiator.", "Priority: high. Timeline: today. Confidence: 70%.", "Warning signs:\n- Crispy edges"},
		},
		{
			name: "diagnosis",
			resp: &models.DiseaseDiagnosis{
				DiseaseName: "Root rot", Severity: models.SeveritySevere, ConfidenceScore: 0.5,
				ProfessionalHelpNeeded: true,
			},
			want: []string{"Diagnosed Root rot (severe, not contagious) with 50% confidence.", "Consider consulting a plant professional."},
		},
		{
			name: "chat",
			resp: &models.ChatReply{Response: "Yes, basil likes sun.", SuggestedActions: []string{"Pinch the flowers"}},
			want: []string{"Yes, basil likes sun.", "Suggested actions:\n- Pinch the flowers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.resp)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("Summarize() = %q, missing %q", got, want)
				}
			}
			if again := Summarize(tt.resp); again != got {
				t.Errorf("Summarize() is not deterministic: %q vs %q", got, again)
			}
		})
	}
}
