// ABOUTME: Scenario data structures for provider conformance benchmarks
// ABOUTME: Each scenario is one request to a real provider with ground truth for the stored summary

package conformance

import "github.com/raajvamsy/plantopia/internal/models"

// Scenario is one request sent through the orchestrator to a live provider
type Scenario struct {
	ID          string
	Name        string
	Description string
	Kind        models.InteractionType

	// Exactly one request matches Kind
	Identify *models.IdentifyRequest
	Advice   *models.CareAdviceRequest
	Disease  *models.DiseaseRequest
	Chat     *models.ChatRequest

	GroundTruth GroundTruth
}

// GroundTruth defines what a conforming answer looks like
type GroundTruth struct {
	ExpectedInSummary  []string // Terms that MUST appear in the stored answer
	ForbiddenInSummary []string // Terms that MUST NOT appear in the stored answer
	MinConfidence      float64  // Ignored for chat, which carries no confidence
}

// Result is the outcome of one scenario
type Result struct {
	ScenarioID      string         `json:"scenario_id"`
	ScenarioName    string         `json:"scenario_name"`
	Kind            string         `json:"kind"`
	AccuracyScore   float64        `json:"accuracy_score"`
	ConfidenceScore float64        `json:"confidence_score"`
	OverallScore    float64        `json:"overall_score"`
	Persisted       bool           `json:"persisted"`
	LatencyMS       int64          `json:"latency_ms"`
	Status          string         `json:"status"` // "PASS" or "FAIL"
	Details         map[string]any `json:"details,omitempty"`
	ErrorMessage    string         `json:"error_message,omitempty"`
}

// GetIdentifyMonstera returns the identification scenario for a Swiss cheese plant
func GetIdentifyMonstera() Scenario {
	return Scenario{
		ID:          "id-monstera",
		Name:        "Identify Monstera from description",
		Description: "Text-only identification of a very common houseplant",
		Kind:        models.InteractionPlantIdentification,
		Identify: &models.IdentifyRequest{
			UserMessage: "Large glossy heart-shaped leaves with natural holes and deep splits, thick aerial roots, climbing a moss pole.",
		},
		GroundTruth: GroundTruth{
			ExpectedInSummary: []string{"Monstera", "Araceae"},
			MinConfidence:     0.5,
		},
	}
}

// GetIdentifySnakePlant returns the identification scenario for a snake plant
func GetIdentifySnakePlant() Scenario {
	return Scenario{
		ID:          "id-snake-plant",
		Name:        "Identify snake plant from description",
		Description: "Identification where the scientific name has changed recently",
		Kind:        models.InteractionPlantIdentification,
		Identify: &models.IdentifyRequest{
			UserMessage: "Stiff upright sword-shaped leaves with yellow margins and grey-green horizontal banding, growing from a rhizome.",
		},
		GroundTruth: GroundTruth{
			ExpectedInSummary: []string{"snake"},
			MinConfidence:     0.5,
		},
	}
}

// GetAdviseOverwatering returns the care-advice scenario for an overwatered fig
func GetAdviseOverwatering() Scenario {
	return Scenario{
		ID:          "advise-overwatering",
		Name:        "Advice for an overwatered fiddle leaf fig",
		Description: "Symptoms point at root problems from soggy soil",
		Kind:        models.InteractionCareAdvice,
		Advice: &models.CareAdviceRequest{
			PlantSpecies: "Ficus lyrata",
			Symptoms:     []string{"brown spots on lower leaves", "leaf drop", "soil wet for a week"},
			UserMessage:  "My fig keeps dropping leaves. What should I change?",
		},
		GroundTruth: GroundTruth{
			ExpectedInSummary: []string{"water", "Priority:"},
			MinConfidence:     0.5,
		},
	}
}

// GetDiagnosePowderyMildew returns the diagnosis scenario for powdery mildew
func GetDiagnosePowderyMildew() Scenario {
	return Scenario{
		ID:          "diagnose-mildew",
		Name:        "Diagnose powdery mildew",
		Description: "Classic fungal symptoms on cucurbit leaves",
		Kind:        models.InteractionDiseaseDiagnosis,
		Disease: &models.DiseaseRequest{
			PlantSpecies:        "Cucurbita pepo",
			SymptomsDescription: "White powdery coating on the upper surface of the older leaves that rubs off, leaves yellowing underneath.",
		},
		GroundTruth: GroundTruth{
			ExpectedInSummary:  []string{"mildew"},
			ForbiddenInSummary: []string{"healthy"},
			MinConfidence:      0.5,
		},
	}
}

// GetDiagnoseSpiderMites returns the diagnosis scenario for a spider mite infestation
func GetDiagnoseSpiderMites() Scenario {
	return Scenario{
		ID:          "diagnose-mites",
		Name:        "Diagnose spider mites",
		Description: "Pest rather than disease; the diagnosis should still name it",
		Kind:        models.InteractionDiseaseDiagnosis,
		Disease: &models.DiseaseRequest{
			SymptomsDescription: "Fine webbing under the leaves, tiny moving dots, and pale stippling across the leaf surface.",
		},
		GroundTruth: GroundTruth{
			ExpectedInSummary: []string{"mite"},
			MinConfidence:     0.5,
		},
	}
}

// GetChatRepotting returns the general-chat scenario about repotting
func GetChatRepotting() Scenario {
	return Scenario{
		ID:          "chat-repotting",
		Name:        "Chat about repotting season",
		Description: "Free-form answer without a confidence score",
		Kind:        models.InteractionGeneralChat,
		Chat: &models.ChatRequest{
			Message: "When is the best time of year to repot a snake plant?",
		},
		GroundTruth: GroundTruth{
			ExpectedInSummary: []string{"spring"},
		},
	}
}

// GetAllScenarios returns every conformance scenario in run order
func GetAllScenarios() []Scenario {
	return []Scenario{
		GetIdentifyMonstera(),
		GetIdentifySnakePlant(),
		GetAdviseOverwatering(),
		GetDiagnosePowderyMildew(),
		GetDiagnoseSpiderMites(),
		GetChatRepotting(),
	}
}

// GetScenario looks a scenario up by ID
func GetScenario(id string) (Scenario, bool) {
	for _, s := range GetAllScenarios() {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}
