// ABOUTME: Export functionality for a user's plant-care history
// ABOUTME: Supports YAML and Markdown export formats
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/raajvamsy/plantopia/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version      string              `yaml:"version" json:"version"`
	ExportedAt   string              `yaml:"exported_at" json:"exported_at"`
	Tool         string              `yaml:"tool" json:"tool"`
	UserID       string              `yaml:"user_id" json:"user_id"`
	Interactions []ExportInteraction `yaml:"interactions,omitempty" json:"interactions,omitempty"`
	Achievements []ExportAchievement `yaml:"achievements,omitempty" json:"achievements,omitempty"`
}

// ExportInteraction represents an interaction for export
type ExportInteraction struct {
	ID          string   `yaml:"id" json:"id"`
	Type        string   `yaml:"type" json:"type"`
	PlantID     string   `yaml:"plant_id,omitempty" json:"plant_id,omitempty"`
	UserMessage string   `yaml:"user_message" json:"user_message"`
	AIResponse  string   `yaml:"ai_response" json:"ai_response"`
	Confidence  *float64 `yaml:"confidence,omitempty" json:"confidence,omitempty"`
	ImageURL    string   `yaml:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt   string   `yaml:"created_at" json:"created_at"`
}

// ExportAchievement represents an achievement for export
type ExportAchievement struct {
	Type        string `yaml:"type" json:"type"`
	Title       string `yaml:"title" json:"title"`
	Completed   bool   `yaml:"completed" json:"completed"`
	CompletedAt string `yaml:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// Exporter reads a user's full history straight from the repositories
type Exporter struct {
	interactions InteractionRepository
	achievements AchievementRepository
	clock        Clock
}

// NewExporter creates an exporter over a backend
func NewExporter(b Backend, clock Clock) *Exporter {
	return &Exporter{interactions: b.Interactions(), achievements: b.Achievements(), clock: clock}
}

// Export collects every interaction and achievement of the user
func (e *Exporter) Export(ctx context.Context, userID string) (*ExportData, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: e.clock.now().Format(time.RFC3339),
		Tool:       "plantcare",
		UserID:     userID,
	}

	interactions, err := e.interactions.ListInteractions(ctx, models.InteractionQuery{UserID: userID})
	if err != nil {
		return nil, &models.PersistenceError{Op: "list interactions for export", Err: err}
	}
	for _, in := range interactions {
		item := ExportInteraction{
			ID:          in.ID,
			Type:        string(in.InteractionType),
			UserMessage: in.UserMessage,
			AIResponse:  in.AIResponse,
			Confidence:  in.ConfidenceScore,
			CreatedAt:   in.CreatedAt.Format(time.RFC3339),
		}
		if in.PlantID != nil {
			item.PlantID = *in.PlantID
		}
		if in.ImageURL != nil {
			item.ImageURL = *in.ImageURL
		}
		data.Interactions = append(data.Interactions, item)
	}

	achievements, err := e.achievements.ListAchievements(ctx, models.AchievementQuery{UserID: userID})
	if err != nil {
		return nil, &models.PersistenceError{Op: "list achievements for export", Err: err}
	}
	for _, a := range achievements {
		item := ExportAchievement{
			Type:      string(a.AchievementType),
			Title:     a.Title,
			Completed: a.Completed,
		}
		if a.CompletedAt != nil {
			item.CompletedAt = a.CompletedAt.Format(time.RFC3339)
		}
		data.Achievements = append(data.Achievements, item)
	}

	return data, nil
}

// ExportToFile writes the user's history to outputPath as "yaml" or "markdown"
func (e *Exporter) ExportToFile(ctx context.Context, userID, outputPath, format string) error {
	data, err := e.Export(ctx, userID)
	if err != nil {
		return err
	}

	write := WriteYAML
	switch strings.ToLower(format) {
	case "yaml", "yml", "":
	case "markdown", "md":
		write = WriteMarkdown
	default:
		return &models.ValidationError{Field: "format", Reason: "must be yaml or markdown"}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	return writeAndClose(file, data, write)
}

// writeAndClose writes data to wc and closes it; a failed close fails the export
func writeAndClose(wc io.WriteCloser, data *ExportData, write func(io.Writer, *ExportData) error) error {
	if err := write(wc, data); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// WriteYAML encodes export data as YAML
func WriteYAML(w io.Writer, data *ExportData) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteMarkdown renders export data as a Markdown document
func WriteMarkdown(w io.Writer, data *ExportData) error {
	_, _ = fmt.Fprintf(w, "# Plant Care History - %s\n\n", data.UserID)
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", data.ExportedAt)

	if len(data.Achievements) > 0 {
		_, _ = fmt.Fprintln(w, "## Achievements")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "| Achievement | Status | Completed |")
		_, _ = fmt.Fprintln(w, "|-------------|--------|-----------|")
		for _, a := range data.Achievements {
			status := "pending"
			if a.Completed {
				status = "completed"
			}
			_, _ = fmt.Fprintf(w, "| %s | %s | %s |\n", a.Title, status, a.CompletedAt)
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(data.Interactions) > 0 {
		_, _ = fmt.Fprintln(w, "## Interactions")
		_, _ = fmt.Fprintln(w)
		for _, in := range data.Interactions {
			_, _ = fmt.Fprintf(w, "### %s (%s)\n\n", in.Type, in.CreatedAt)
			if in.Confidence != nil {
				_, _ = fmt.Fprintf(w, "*Confidence: %.0f%%*\n\n", *in.Confidence*100)
			}
			_, _ = fmt.Fprintf(w, "**User:** %s\n\n", in.UserMessage)
			_, _ = fmt.Fprintf(w, "**AI:** %s\n\n", in.AIResponse)
			_, _ = fmt.Fprintln(w, "---")
			_, _ = fmt.Fprintln(w)
		}
	}

	return nil
}
