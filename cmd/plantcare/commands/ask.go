// ABOUTME: CLI commands that ask the AI provider: identify, advise, diagnose, chat
// ABOUTME: Each answer is normalized, stored in the history, and printed as text or JSON
package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raajvamsy/plantopia/internal/app"
	"github.com/raajvamsy/plantopia/internal/models"
)

var (
	askPlantID  string
	askImageURL string
	askSpecies  string
	askSymptoms []string
	askContext  string
)

// NewIdentifyCmd creates the identify command
func NewIdentifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identify [description]",
		Short: "Identify a plant from a photo or description",
		Long: `Identify a plant from a photo URL and/or a description.

Examples:
  plantcare identify --image https://example.com/leaf.jpg
  plantcare identify "broad glossy leaves with holes, climbing"
  plantcare identify --image https://example.com/leaf.jpg --plant 3f2c... --format json`,
		RunE: runIdentify,
	}

	cmd.Flags().StringVar(&askImageURL, "image", "", "URL of a photo of the plant")
	cmd.Flags().StringVar(&askPlantID, "plant", "", "Plant this request is about")
	return cmd
}

func runIdentify(cmd *cobra.Command, args []string) error {
	// Description is optional when an image is given
	var message string
	if len(args) > 0 || askImageURL == "" {
		text, err := readText(cmd, args)
		if err != nil {
			return err
		}
		message = text
	}

	return withAssistant(cmd, func(ctx context.Context, a *app.App) (*models.AIInteraction, models.Response, error) {
		assistant, err := a.Assistant(ctx)
		if err != nil {
			return nil, nil, err
		}
		rec, resp, err := assistant.IdentifyPlant(ctx, userID, models.IdentifyRequest{
			ImageURL:    askImageURL,
			UserMessage: message,
			PlantID:     askPlantID,
		})
		if err != nil {
			return nil, nil, err
		}
		return rec, resp, nil
	})
}

// NewAdviseCmd creates the advise command
func NewAdviseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advise [question]",
		Short: "Get care advice for a plant",
		Long: `Get care advice with a priority and timeline.

Examples:
  plantcare advise "Leaves are turning yellow at the edges"
  plantcare advise --species "Monstera deliciosa" --symptom "yellow leaves" --symptom "soggy soil" "What should I change?"
  echo "How much light does a fiddle leaf fig need?" | plantcare advise`,
		RunE: runAdvise,
	}

	cmd.Flags().StringVar(&askSpecies, "species", "", "Species of the plant")
	cmd.Flags().StringArrayVar(&askSymptoms, "symptom", nil, "Observed symptom (repeatable)")
	cmd.Flags().StringVar(&askPlantID, "plant", "", "Plant this request is about")
	return cmd
}

func runAdvise(cmd *cobra.Command, args []string) error {
	message, err := readText(cmd, args)
	if err != nil {
		return err
	}

	return withAssistant(cmd, func(ctx context.Context, a *app.App) (*models.AIInteraction, models.Response, error) {
		assistant, err := a.Assistant(ctx)
		if err != nil {
			return nil, nil, err
		}
		rec, resp, err := assistant.GetCareAdvice(ctx, userID, models.CareAdviceRequest{
			PlantID:      askPlantID,
			PlantSpecies: askSpecies,
			Symptoms:     askSymptoms,
			UserMessage:  message,
		})
		if err != nil {
			return nil, nil, err
		}
		return rec, resp, nil
	})
}

// NewDiagnoseCmd creates the diagnose command
func NewDiagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose [symptoms]",
		Short: "Diagnose a plant disease or pest",
		Long: `Diagnose a disease or pest problem from a symptom description and optional photo.

Examples:
  plantcare diagnose "white powder on the upper leaves"
  plantcare diagnose --image https://example.com/spots.jpg --species "Rosa" "black spots with yellow halos"`,
		RunE: runDiagnose,
	}

	cmd.Flags().StringVar(&askImageURL, "image", "", "URL of a photo of the affected plant")
	cmd.Flags().StringVar(&askSpecies, "species", "", "Species of the plant")
	cmd.Flags().StringVar(&askPlantID, "plant", "", "Plant this request is about")
	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	symptoms, err := readText(cmd, args)
	if err != nil {
		return err
	}

	return withAssistant(cmd, func(ctx context.Context, a *app.App) (*models.AIInteraction, models.Response, error) {
		assistant, err := a.Assistant(ctx)
		if err != nil {
			return nil, nil, err
		}
		rec, resp, err := assistant.DetectDisease(ctx, userID, models.DiseaseRequest{
			ImageURL:            askImageURL,
			PlantSpecies:        askSpecies,
			SymptomsDescription: symptoms,
			PlantID:             askPlantID,
		})
		if err != nil {
			return nil, nil, err
		}
		return rec, resp, nil
	})
}

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Ask a free-form gardening question",
		Long: `Ask a free-form gardening question.

Examples:
  plantcare chat "When should I repot a snake plant?"
  plantcare chat --context "north-facing balcony" "What herbs will grow here?"`,
		RunE: runChat,
	}

	cmd.Flags().StringVar(&askContext, "context", "", "Extra context for the question")
	cmd.Flags().StringVar(&askPlantID, "plant", "", "Plant this question is about")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	message, err := readText(cmd, args)
	if err != nil {
		return err
	}

	return withAssistant(cmd, func(ctx context.Context, a *app.App) (*models.AIInteraction, models.Response, error) {
		assistant, err := a.Assistant(ctx)
		if err != nil {
			return nil, nil, err
		}
		rec, resp, err := assistant.GeneralChat(ctx, userID, models.ChatRequest{
			Message: message,
			Context: askContext,
			PlantID: askPlantID,
		})
		if err != nil {
			return nil, nil, err
		}
		return rec, resp, nil
	})
}

// withAssistant runs one provider exchange and prints the stored interaction
func withAssistant(cmd *cobra.Command, ask func(ctx context.Context, a *app.App) (*models.AIInteraction, models.Response, error)) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		rec, resp, err := ask(ctx, a)
		if err != nil {
			return explainAskError(err)
		}

		if jsonOutput() {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"interaction": rec,
				"response":    resp,
			})
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "%s\n", rec.AIResponse)
		info(cmd, "\nSaved as interaction %s\n", rec.ID)
		return nil
	})
}

func explainAskError(err error) error {
	switch {
	case errors.Is(err, app.ErrNoProvider):
		return err
	case models.IsValidation(err):
		return fmt.Errorf("invalid request: %w", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("the AI provider did not answer in time (PLANTCARE_PROVIDER_TIMEOUT): %w", err)
	case models.IsMalformedResponse(err):
		return fmt.Errorf("the AI provider returned an unusable answer, nothing was saved: %w", err)
	case models.IsProvider(err):
		return fmt.Errorf("the AI provider failed, nothing was saved: %w", err)
	}
	return err
}
