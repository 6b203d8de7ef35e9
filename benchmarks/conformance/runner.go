// ABOUTME: Runner for provider conformance benchmarks - sends scenarios through the orchestrator
// ABOUTME: Uses an in-memory database so benchmark runs never touch the gardener's history

package conformance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/raajvamsy/plantopia/internal/core"
	"github.com/raajvamsy/plantopia/internal/llm"
	"github.com/raajvamsy/plantopia/internal/logging"
	"github.com/raajvamsy/plantopia/internal/models"
	"github.com/raajvamsy/plantopia/internal/storage"
	"github.com/raajvamsy/plantopia/internal/storage/sqlite"
)

// Runner executes conformance scenarios against one provider
type Runner struct {
	backend      *sqlite.Storage
	interactions *storage.InteractionStore
	assistant    *core.Assistant
	metrics      *MetricsCalculator
	log          *logging.Logger
	out          io.Writer
	verbose      bool
}

// NewRunner creates a runner over a fresh in-memory database
func NewRunner(ctx context.Context, provider llm.Provider, timeout time.Duration, log *logging.Logger, out io.Writer, verbose bool) (*Runner, error) {
	log = logging.OrNop(log).With("component", "conformance")

	backend, err := sqlite.NewStorageInMemory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	interactions := storage.NewInteractionStore(backend.Interactions(), nil, log)
	if out == nil {
		out = io.Discard
	}

	return &Runner{
		backend:      backend,
		interactions: interactions,
		assistant:    core.NewAssistant(provider, interactions, timeout, log),
		metrics:      NewMetricsCalculator(),
		log:          log,
		out:          out,
		verbose:      verbose,
	}, nil
}

// Close releases the benchmark database
func (r *Runner) Close() {
	if r.backend != nil {
		_ = r.backend.Close()
	}
}

// RunScenario sends one scenario through the orchestrator and scores the stored answer
func (r *Runner) RunScenario(ctx context.Context, s Scenario) Result {
	if r.verbose {
		_, _ = fmt.Fprintf(r.out, "\n========================================\n")
		_, _ = fmt.Fprintf(r.out, "RUNNING: %s\n", s.Name)
		_, _ = fmt.Fprintf(r.out, "========================================\n")
		_, _ = fmt.Fprintf(r.out, "Description: %s\n\n", s.Description)
	}

	// One user per scenario keeps the persistence check independent
	userID := "benchmark-" + s.ID

	start := time.Now()
	rec, resp, err := r.exchange(ctx, userID, s)
	latency := time.Since(start)

	if err != nil {
		r.log.Warn("scenario failed", "scenario", s.ID, "error", err)
		result := r.metrics.FailedResult(s, err, latency)
		r.report(result)
		return result
	}

	persisted := false
	if stored, err := r.interactions.GetByID(ctx, rec.ID); err == nil && stored != nil {
		persisted = stored.UserID == userID && stored.InteractionType == s.Kind
	}

	if r.verbose {
		_, _ = fmt.Fprintf(r.out, "AI: %s\n", truncateRunes(rec.AIResponse, 300))
	}

	result := r.metrics.EvaluateScenario(s, rec.AIResponse, resp.Confidence(), persisted, latency)
	r.report(result)
	return result
}

func (r *Runner) exchange(ctx context.Context, userID string, s Scenario) (*models.AIInteraction, models.Response, error) {
	switch {
	case s.Kind == models.InteractionPlantIdentification && s.Identify != nil:
		rec, resp, err := r.assistant.IdentifyPlant(ctx, userID, *s.Identify)
		if err != nil {
			return nil, nil, err
		}
		return rec, resp, nil
	case s.Kind == models.InteractionCareAdvice && s.Advice != nil:
		rec, resp, err := r.assistant.GetCareAdvice(ctx, userID, *s.Advice)
		if err != nil {
			return nil, nil, err
		}
		return rec, resp, nil
	case s.Kind == models.InteractionDiseaseDiagnosis && s.Disease != nil:
		rec, resp, err := r.assistant.DetectDisease(ctx, userID, *s.Disease)
		if err != nil {
			return nil, nil, err
		}
		return rec, resp, nil
	case s.Kind == models.InteractionGeneralChat && s.Chat != nil:
		rec, resp, err := r.assistant.GeneralChat(ctx, userID, *s.Chat)
		if err != nil {
			return nil, nil, err
		}
		return rec, resp, nil
	}
	return nil, nil, &models.ValidationError{Field: "scenario", Reason: fmt.Sprintf("%s has no request for kind %s", s.ID, s.Kind)}
}

func (r *Runner) report(result Result) {
	if !r.verbose {
		return
	}
	_, _ = fmt.Fprintf(r.out, "\nRESULTS: %s\n", result.ScenarioName)
	if result.ErrorMessage != "" {
		_, _ = fmt.Fprintf(r.out, "Error: %s\n", result.ErrorMessage)
	}
	_, _ = fmt.Fprintf(r.out, "Accuracy: %.2f\n", result.AccuracyScore)
	_, _ = fmt.Fprintf(r.out, "Confidence: %.2f\n", result.ConfidenceScore)
	_, _ = fmt.Fprintf(r.out, "Latency: %dms\n", result.LatencyMS)
	_, _ = fmt.Fprintf(r.out, "Status: %s\n", result.Status)
}

// RunAll executes every scenario; a failing scenario is recorded and the run continues
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		if ctx.Err() != nil {
			results = append(results, r.metrics.FailedResult(s, ctx.Err(), 0))
			continue
		}
		results = append(results, r.RunScenario(ctx, s))
	}
	return results
}

// Summary aggregates a run for export
type Summary struct {
	Timestamp  string   `json:"timestamp"`
	Provider   string   `json:"provider"`
	TotalTests int      `json:"total_tests"`
	Passed     int      `json:"passed"`
	Failed     int      `json:"failed"`
	MeanMS     int64    `json:"mean_latency_ms"`
	Results    []Result `json:"results"`
}

// Summarize counts passes and failures and averages latency
func Summarize(provider string, results []Result, now time.Time) Summary {
	s := Summary{
		Timestamp:  now.Format(time.RFC3339),
		Provider:   provider,
		TotalTests: len(results),
		Results:    results,
	}
	var total int64
	for _, result := range results {
		if result.Status == "PASS" {
			s.Passed++
		} else {
			s.Failed++
		}
		total += result.LatencyMS
	}
	if len(results) > 0 {
		s.MeanMS = total / int64(len(results))
	}
	return s
}

// ExportResults writes the summary to outputPath as JSON
func ExportResults(summary Summary, outputPath string) error {
	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
