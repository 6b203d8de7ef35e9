// ABOUTME: Deterministic composite summaries of typed responses
// ABOUTME: The summary is stored as ai_response so records read well without decoding metadata
package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/raajvamsy/plantopia/internal/models"
)

// Summarize renders a response variant as plain text. Equal inputs give equal output.
func Summarize(resp models.Response) string {
	var b strings.Builder

	switch r := resp.(type) {
	case *models.PlantIdentification:
		fmt.Fprintf(&b, "Identified as %s (%s) with %s confidence.", r.Species, r.ScientificName, percent(r.ConfidenceScore))
		fmt.Fprintf(&b, " Family: %s. Difficulty: %s.", r.Family, r.DifficultyLevel)
		if len(r.CommonNames) > 0 {
			fmt.Fprintf(&b, " Also known as %s.", strings.Join(r.CommonNames, ", "))
		}
		writeList(&b, "Care", r.CareInstructions)
		if r.AdditionalNotes != "" {
			fmt.Fprintf(&b, "\n\n%s", r.AdditionalNotes)
		}

	case *models.CareAdvice:
		b.WriteString(r.Advice)
		fmt.Fprintf(&b, "\n\nPriority: %s. Timeline: %s. Confidence: %s.", r.Priority, r.Timeline, percent(r.ConfidenceScore))
		writeList(&b, "Recommended actions", r.RecommendedActions)
		writeList(&b, "Prevention", r.PreventiveMeasures)
		writeList(&b, "Warning signs", r.WarningSigns)

	case *models.DiseaseDiagnosis:
		contagion := "not contagious"
		if r.IsContagious {
			contagion = "contagious"
		}
		fmt.Fprintf(&b, "Diagnosed %s (%s, %s) with %s confidence.", r.DiseaseName, r.Severity, contagion, percent(r.ConfidenceScore))
		writeList(&b, "Treatment", r.TreatmentSteps)
		writeList(&b, "Prevention", r.PreventionTips)
		if r.ExpectedRecoveryTime != "" {
			fmt.Fprintf(&b, "\n\nExpected recovery: %s.", r.ExpectedRecoveryTime)
		}
		if r.ProfessionalHelpNeeded {
			b.WriteString("\n\nConsider consulting a plant professional.")
		}

	case *models.ChatReply:
		b.WriteString(r.Response)
		writeList(&b, "Suggested actions", r.SuggestedActions)
	}

	return b.String()
}

func percent(v float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(v*100)))
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n\n%s:", title)
	for _, item := range items {
		fmt.Fprintf(b, "\n- %s", item)
	}
}
