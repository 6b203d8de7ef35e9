// ABOUTME: Command-line runner for provider conformance benchmarks
// ABOUTME: Sends plant-care scenarios to the configured provider and writes JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/raajvamsy/plantopia/benchmarks/conformance"
	"github.com/raajvamsy/plantopia/internal/app"
	"github.com/raajvamsy/plantopia/internal/config"
	"github.com/raajvamsy/plantopia/internal/logging"
)

func main() {
	// Command-line flags
	scenarioID := flag.String("scenario", "", "Run specific scenario by ID. If empty, runs all scenarios.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (continuing anyway): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := logging.New(cfg.LogMode, level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := app.NewProvider(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("A provider API key is required for benchmarks: %v", err)
	}

	scenarios := conformance.GetAllScenarios()
	if *scenarioID != "" {
		s, ok := conformance.GetScenario(*scenarioID)
		if !ok {
			ids := make([]string, 0, len(scenarios))
			for _, s := range scenarios {
				ids = append(ids, s.ID)
			}
			log.Fatalf("Unknown scenario ID: %s (valid options: %s)", *scenarioID, strings.Join(ids, ", "))
		}
		scenarios = []conformance.Scenario{s}
	}

	// Print header
	fmt.Println("========================================")
	fmt.Printf("plantcare provider conformance (%s)\n", cfg.Provider)
	fmt.Println("========================================")
	fmt.Println()

	runner, err := conformance.NewRunner(ctx, provider, cfg.ProviderTimeout, logger, os.Stdout, *verbose)
	if err != nil {
		log.Fatalf("Failed to create benchmark runner: %v", err)
	}
	defer runner.Close()

	results := runner.RunAll(ctx, scenarios)
	summary := conformance.Summarize(cfg.Provider, results, time.Now())

	// Print summary
	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.ScenarioID, result.ScenarioName)
		if result.ErrorMessage != "" {
			fmt.Printf("  Error: %s\n", result.ErrorMessage)
		}
		fmt.Printf("  Accuracy: %.2f\n", result.AccuracyScore)
		fmt.Printf("  Confidence: %.2f\n", result.ConfidenceScore)
		fmt.Printf("  Latency: %dms\n", result.LatencyMS)
		fmt.Printf("  Status: %s\n", result.Status)
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Scenarios: %d\n", summary.TotalTests)
	fmt.Printf("Passed: %d\n", summary.Passed)
	fmt.Printf("Failed: %d\n", summary.Failed)
	fmt.Printf("Mean latency: %dms\n", summary.MeanMS)
	fmt.Println("========================================")

	// Export results
	if err := conformance.ExportResults(summary, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}
	fmt.Printf("Results exported to: %s\n", *outputPath)

	// Exit with error code if any scenario failed
	if summary.Failed > 0 {
		stop()
		os.Exit(1)
	}
}
