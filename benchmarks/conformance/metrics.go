// ABOUTME: Conformance metrics for answer accuracy and provider confidence
// ABOUTME: Deterministic evaluation of the stored summary against scenario ground truth

package conformance

import (
	"fmt"
	"strings"
	"time"
)

// MetricsCalculator computes conformance scores for scenarios
type MetricsCalculator struct {
	// PassThreshold is the minimum for both accuracy and confidence scores
	PassThreshold float64
}

// NewMetricsCalculator creates a calculator that requires 0.9 on both metrics
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{PassThreshold: 0.9}
}

// CalculateAccuracy scores the stored answer against expected and forbidden terms (0.0-1.0)
func (m *MetricsCalculator) CalculateAccuracy(summary string, expected, forbidden []string) (float64, string) {
	summaryUpper := strings.ToUpper(summary)

	missing := []string{}
	for _, term := range expected {
		if !strings.Contains(summaryUpper, strings.ToUpper(term)) {
			missing = append(missing, term)
		}
	}

	found := []string{}
	for _, term := range forbidden {
		if strings.Contains(summaryUpper, strings.ToUpper(term)) {
			found = append(found, term)
		}
	}

	switch {
	case len(missing) == 0 && len(found) == 0:
		return 1.0, "All expected terms present, no forbidden terms"
	case len(missing) > 0 && len(found) > 0:
		return 0.0, fmt.Sprintf("Missing expected terms: %v, forbidden terms found: %v", missing, found)
	case len(missing) > 0:
		return 0.5, fmt.Sprintf("Missing expected terms: %v", missing)
	}
	return 0.5, fmt.Sprintf("Forbidden terms found: %v", found)
}

// CalculateConfidence scores the clamped provider confidence against the scenario floor.
// Responses without a confidence score are not penalized.
func (m *MetricsCalculator) CalculateConfidence(confidence *float64, minConfidence float64) (float64, string) {
	if confidence == nil {
		return 1.0, "No confidence reported for this kind"
	}
	if *confidence >= minConfidence {
		return 1.0, fmt.Sprintf("Confidence %.2f meets floor %.2f", *confidence, minConfidence)
	}
	return *confidence / minConfidence, fmt.Sprintf("Confidence %.2f below floor %.2f", *confidence, minConfidence)
}

// EvaluateScenario combines the metrics into a result for a successful exchange
func (m *MetricsCalculator) EvaluateScenario(s Scenario, summary string, confidence *float64, persisted bool, latency time.Duration) Result {
	accuracy, accuracyDetail := m.CalculateAccuracy(summary, s.GroundTruth.ExpectedInSummary, s.GroundTruth.ForbiddenInSummary)
	conf, confDetail := m.CalculateConfidence(confidence, s.GroundTruth.MinConfidence)

	status := "FAIL"
	if accuracy >= m.PassThreshold && conf >= m.PassThreshold && persisted {
		status = "PASS"
	}

	return Result{
		ScenarioID:      s.ID,
		ScenarioName:    s.Name,
		Kind:            string(s.Kind),
		AccuracyScore:   accuracy,
		ConfidenceScore: conf,
		OverallScore:    (accuracy + conf) / 2.0,
		Persisted:       persisted,
		LatencyMS:       latency.Milliseconds(),
		Status:          status,
		Details: map[string]any{
			"accuracy_detail":   accuracyDetail,
			"confidence_detail": confDetail,
			"summary":           truncateRunes(summary, 200),
		},
	}
}

// FailedResult records a scenario whose exchange returned an error
func (m *MetricsCalculator) FailedResult(s Scenario, err error, latency time.Duration) Result {
	return Result{
		ScenarioID:   s.ID,
		ScenarioName: s.Name,
		Kind:         string(s.Kind),
		LatencyMS:    latency.Milliseconds(),
		Status:       "FAIL",
		ErrorMessage: err.Error(),
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
