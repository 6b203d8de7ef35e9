// ABOUTME: CLI commands for garden achievements
// ABOUTME: list, recent, stats, evaluate, and bootstrap over the achievement store and rule engine
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
	achievementStatus string
	achievementLimit  int
)

// NewAchievementsCmd creates the achievements command group
func NewAchievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "achievements",
		Aliases: []string{"ach"},
		Short:   "Show and evaluate garden achievements",
		Long: `Show and evaluate garden achievements.

Achievements are earned from garden activity: adding plants, logging
care, and growing plants. Run "evaluate" to award what has been earned.

Examples:
  plantcare achievements list --status pending
  plantcare achievements recent
  plantcare achievements evaluate`,
	}

	cmd.AddCommand(
		newAchievementsListCmd(),
		newAchievementsRecentCmd(),
		newAchievementsStatsCmd(),
		newAchievementsEvaluateCmd(),
		newAchievementsBootstrapCmd(),
	)
	return cmd
}

func newAchievementsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				var (
					rows []models.Achievement
					err  error
				)
				switch achievementStatus {
				case "all", "":
					rows, err = a.Achievements.ListByUser(ctx, userID)
				case "pending":
					rows, err = a.Achievements.ListPending(ctx, userID)
				case "completed":
					rows, err = a.Achievements.ListCompleted(ctx, userID)
				default:
					return fmt.Errorf("--status must be all, pending or completed, got %q", achievementStatus)
				}
				if err != nil {
					return fmt.Errorf("listing achievements: %w", err)
				}
				return printAchievements(cmd, rows, `No achievements yet (run "plantcare achievements bootstrap")`)
			})
		},
	}

	cmd.Flags().StringVar(&achievementStatus, "status", "all", "Which achievements: all, pending, completed")
	return cmd
}

func newAchievementsRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recently completed achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePositiveInt(achievementLimit, "--limit"); err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				rows, err := a.Achievements.ListRecentlyCompleted(ctx, userID, achievementLimit)
				if err != nil {
					return fmt.Errorf("listing achievements: %w", err)
				}
				return printAchievements(cmd, rows, "No achievements completed yet")
			})
		},
	}

	cmd.Flags().IntVar(&achievementLimit, "limit", 5, "Maximum number of results")
	return cmd
}

func newAchievementsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize achievement progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				stats, err := a.Achievements.Stats(ctx, userID)
				if err != nil {
					return fmt.Errorf("computing stats: %w", err)
				}
				if jsonOutput() {
					return printJSON(cmd.OutOrStdout(), stats)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed %d of %d (%d%%), %d pending\n",
					stats.Completed, stats.Total, stats.CompletionRate, stats.Pending)
				return nil
			})
		},
	}
}

func newAchievementsEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Award every pending achievement that has been earned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return evaluateAndReport(ctx, cmd, a)
			})
		},
	}
}

func newAchievementsBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the achievement set for the gardener",
		Long: `Create one pending row per catalog achievement.

Achievements the gardener already has are left untouched, so running
this again is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				n, err := a.Engine.Bootstrap(ctx, userID)
				if err != nil {
					return fmt.Errorf("bootstrapping achievements: %w", err)
				}
				if jsonOutput() {
					return printJSON(cmd.OutOrStdout(), map[string]int{"created": n})
				}
				info(cmd, "Created %d achievement(s) for %s\n", n, userID)
				return nil
			})
		},
	}
}

// evaluate bootstraps the catalog and runs the rule engine for the current gardener
func evaluate(ctx context.Context, a *app.App) ([]models.Achievement, error) {
	if _, err := a.Engine.Bootstrap(ctx, userID); err != nil {
		return nil, fmt.Errorf("bootstrapping achievements: %w", err)
	}
	awarded, err := a.Engine.EvaluateAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("evaluating achievements: %w", err)
	}
	if awarded == nil {
		awarded = []models.Achievement{}
	}
	return awarded, nil
}

func evaluateAndReport(ctx context.Context, cmd *cobra.Command, a *app.App) error {
	awarded, err := evaluate(ctx, a)
	if err != nil {
		return err
	}
	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), map[string]any{"newly_completed": awarded})
	}
	printAwards(cmd, awarded)
	return nil
}

func printAwards(cmd *cobra.Command, awarded []models.Achievement) {
	if len(awarded) == 0 {
		info(cmd, "No new achievements\n")
		return
	}
	for _, ach := range awarded {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Achievement unlocked: %s - %s\n", ach.Icon, ach.Title, ach.Description)
	}
}

func printAchievements(cmd *cobra.Command, rows []models.Achievement, empty string) error {
	if jsonOutput() {
		if rows == nil {
			rows = []models.Achievement{}
		}
		return printJSON(cmd.OutOrStdout(), rows)
	}

	if len(rows) == 0 {
		info(cmd, "%s\n", empty)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "\tTITLE\tTYPE\tSTATUS\tDESCRIPTION\n")
	_, _ = fmt.Fprintf(w, "\t-----\t----\t------\t-----------\n")
	for _, ach := range rows {
		status := "pending"
		if ach.Completed && ach.CompletedAt != nil {
			status = "completed " + formatTime(*ach.CompletedAt)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ach.Icon, ach.Title, ach.AchievementType, status, truncate(ach.Description, 50))
	}
	return w.Flush()
}
