// ABOUTME: Tests for conformance metrics
// ABOUTME: Verifies term accuracy, confidence scoring, and pass/fail decisions

package conformance

import (
	"testing"
	"time"

	"github.com/raajvamsy/plantopia/internal/models"
)

func TestCalculateAccuracy(t *testing.T) {
	m := NewMetricsCalculator()

	tests := []struct {
		name      string
		summary   string
		expected  []string
		forbidden []string
		want      float64
	}{
		{"all present, case-insensitive", "Identified as MONSTERA (Monstera deliciosa)", []string{"monstera"}, nil, 1.0},
		{"missing term", "Identified as Pothos", []string{"monstera"}, nil, 0.5},
		{"forbidden term", "Your plant looks healthy with mildew", []string{"mildew"}, []string{"healthy"}, 0.5},
		{"missing and forbidden", "Your plant looks healthy", []string{"mildew"}, []string{"healthy"}, 0.0},
		{"no expectations", "anything", nil, nil, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, detail := m.CalculateAccuracy(tt.summary, tt.expected, tt.forbidden)
			if got != tt.want {
				t.Errorf("CalculateAccuracy() = %.2f (%s), want %.2f", got, detail, tt.want)
			}
		})
	}
}

func TestCalculateConfidence(t *testing.T) {
	m := NewMetricsCalculator()
	high, low := 0.8, 0.25

	if got, _ := m.CalculateConfidence(nil, 0.5); got != 1.0 {
		t.Errorf("nil confidence = %.2f, want 1.0", got)
	}
	if got, _ := m.CalculateConfidence(&high, 0.5); got != 1.0 {
		t.Errorf("confidence above floor = %.2f, want 1.0", got)
	}
	if got, _ := m.CalculateConfidence(&low, 0.5); got != 0.5 {
		t.Errorf("confidence at half the floor = %.2f, want 0.5", got)
	}
}

func TestEvaluateScenario(t *testing.T) {
	m := NewMetricsCalculator()
	s := GetIdentifyMonstera()
	conf := 0.9

	got := m.EvaluateScenario(s, "Identified as Monstera (Monstera deliciosa). Family: Araceae.", &conf, true, 1500*time.Millisecond)
	if got.Status != "PASS" || got.OverallScore != 1.0 || got.LatencyMS != 1500 {
		t.Errorf("EvaluateScenario() = %+v", got)
	}

	got = m.EvaluateScenario(s, "Identified as Monstera (Monstera deliciosa). Family: Araceae.", &conf, false, 0)
	if got.Status != "FAIL" {
		t.Errorf("unpersisted answer status = %s, want FAIL", got.Status)
	}
}

func TestFailedResult(t *testing.T) {
	m := NewMetricsCalculator()
	err := &models.MalformedResponseError{Kind: models.InteractionPlantIdentification, Field: "scientific_name", Reason: "missing"}

	got := m.FailedResult(GetIdentifyMonstera(), err, time.Second)
	if got.Status != "FAIL" || got.ErrorMessage == "" || got.Kind != string(models.InteractionPlantIdentification) {
		t.Errorf("FailedResult() = %+v", got)
	}
}

func TestScenarios_HaveMatchingRequests(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range GetAllScenarios() {
		if seen[s.ID] {
			t.Errorf("duplicate scenario ID %q", s.ID)
		}
		seen[s.ID] = true

		var ok bool
		switch s.Kind {
		case models.InteractionPlantIdentification:
			ok = s.Identify != nil && s.Identify.Validate() == nil
		case models.InteractionCareAdvice:
			ok = s.Advice != nil && s.Advice.Validate() == nil
		case models.InteractionDiseaseDiagnosis:
			ok = s.Disease != nil && s.Disease.Validate() == nil
		case models.InteractionGeneralChat:
			ok = s.Chat != nil && s.Chat.Validate() == nil
		}
		if !ok {
			t.Errorf("scenario %q has no valid request for kind %s", s.ID, s.Kind)
		}
	}

	if _, ok := GetScenario("chat-repotting"); !ok {
		t.Error("GetScenario(chat-repotting) not found")
	}
	if _, ok := GetScenario("nope"); ok {
		t.Error("GetScenario(nope) should not be found")
	}
}
