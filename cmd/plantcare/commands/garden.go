// ABOUTME: CLI commands for local garden bookkeeping
// ABOUTME: Adding plants and logging care feed the achievement rules, which run after each change
package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/raajvamsy/plantopia/internal/app"
	"github.com/raajvamsy/plantopia/internal/models"
)

var (
	plantSpecies  string
	plantSunlight int
	plantLevel    int
	gardenEval    bool
)

// NewGardenCmd creates the garden command group
func NewGardenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "garden",
		Short: "Track plants and care actions",
		Long: `Track plants and care actions.

Changes are followed by an achievement evaluation; pass --evaluate=false
to skip it.

Examples:
  plantcare garden add-plant "Kitchen basil" --species "Ocimum basilicum" --sunlight 85
  plantcare garden log-care 9d0e... watering
  plantcare garden archive-plant 9d0e...
  plantcare garden list`,
	}

	cmd.PersistentFlags().BoolVar(&gardenEval, "evaluate", true, "Evaluate achievements after the change")

	cmd.AddCommand(
		newGardenAddPlantCmd(),
		newGardenArchivePlantCmd(),
		newGardenLogCareCmd(),
		newGardenListCmd(),
	)
	return cmd
}

func newGardenAddPlantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-plant <name>",
		Short: "Add a plant to the garden",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := readText(cmd, args)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				p, err := a.Garden.AddPlant(ctx, models.Plant{
					UserID:   userID,
					Name:     name,
					Species:  plantSpecies,
					Sunlight: plantSunlight,
					Level:    plantLevel,
				})
				if err != nil {
					return fmt.Errorf("adding plant: %w", err)
				}
				if !jsonOutput() {
					info(cmd, "Added %s (%s)\n", p.Name, p.ID)
				}
				return afterGardenChange(ctx, cmd, a, "plant", p)
			})
		},
	}

	cmd.Flags().StringVar(&plantSpecies, "species", "", "Species of the plant")
	cmd.Flags().IntVar(&plantSunlight, "sunlight", 0, "Sunlight the plant gets, 0-100")
	cmd.Flags().IntVar(&plantLevel, "level", 1, "Growth level of the plant")
	return cmd
}

func newGardenArchivePlantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive-plant <plant-id>",
		Short: "Archive a plant so it no longer counts toward achievements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Garden.ArchivePlant(ctx, args[0], userID); err != nil {
					return fmt.Errorf("archiving plant: %w", err)
				}
				info(cmd, "Archived plant %s\n", args[0])
				return nil
			})
		},
	}
}

func newGardenLogCareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log-care <plant-id> <action>",
		Short: "Record a care action (watering, fertilizing, pruning, pest_control, repotting, misting)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := models.ParseCareAction(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				l, err := a.Garden.LogCare(ctx, userID, args[0], action)
				if err != nil {
					return fmt.Errorf("logging care: %w", err)
				}
				if !jsonOutput() {
					info(cmd, "Logged %s for %s\n", l.Action, l.PlantID)
				}
				return afterGardenChange(ctx, cmd, a, "care_log", l)
			})
		},
	}
}

func newGardenListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plants, archived ones included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				plants, err := a.Garden.ListPlants(ctx, userID)
				if err != nil {
					return fmt.Errorf("listing plants: %w", err)
				}

				if jsonOutput() {
					if plants == nil {
						plants = []models.Plant{}
					}
					return printJSON(cmd.OutOrStdout(), plants)
				}
				if len(plants) == 0 {
					info(cmd, "No plants yet\n")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintf(w, "NAME\tSPECIES\tSUN\tLEVEL\tADDED\tID\n")
				_, _ = fmt.Fprintf(w, "----\t-------\t---\t-----\t-----\t--\n")
				for _, p := range plants {
					name := truncate(p.Name, 25)
					if p.Archived {
						name += " (archived)"
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
						name, truncate(p.Species, 25), p.Sunlight, p.Level, formatTime(p.CreatedAt), p.ID)
				}
				return w.Flush()
			})
		},
	}
}

// afterGardenChange evaluates achievements when enabled and reports the change in JSON mode
func afterGardenChange(ctx context.Context, cmd *cobra.Command, a *app.App, key string, changed any) error {
	result := map[string]any{key: changed}
	if gardenEval {
		awarded, err := evaluate(ctx, a)
		if err != nil {
			return err
		}
		result["newly_completed"] = awarded
		if !jsonOutput() {
			printAwards(cmd, awarded)
		}
	}
	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), result)
	}
	return nil
}
