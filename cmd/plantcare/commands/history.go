// ABOUTME: CLI commands over the interaction history
// ABOUTME: list, search, show, stats, delete, and export of a gardener's AI interactions
package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/raajvamsy/plantopia/internal/app"
	"github.com/raajvamsy/plantopia/internal/models"
	"github.com/raajvamsy/plantopia/internal/storage"
)

var (
	historyType   string
	historyLimit  int
	historyFormat string
	historyOutput string
)

// NewHistoryCmd creates the history command group
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and manage past AI interactions",
		Long: `Browse and manage the history of AI interactions.

Examples:
  plantcare history list --type care_advice
  plantcare history search "powdery mildew"
  plantcare history show 5b1e...
  plantcare history stats
  plantcare history delete 5b1e... 7c2f...
  plantcare history export --as markdown --output garden.md`,
	}

	cmd.AddCommand(
		newHistoryListCmd(),
		newHistorySearchCmd(),
		newHistoryShowCmd(),
		newHistoryStatsCmd(),
		newHistoryDeleteCmd(),
		newHistoryExportCmd(),
	)
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List interactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := parseTypeFlag(historyType)
			if err != nil {
				return err
			}
			if err := validatePositiveInt(historyLimit, "--limit"); err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				rows, err := a.Interactions.ListByUser(ctx, userID, typ, historyLimit)
				if err != nil {
					return fmt.Errorf("listing interactions: %w", err)
				}
				return printInteractions(cmd, rows, "No interactions yet")
			})
		},
	}

	cmd.Flags().StringVar(&historyType, "type", "", "Only this interaction type")
	cmd.Flags().IntVar(&historyLimit, "limit", 50, "Maximum number of results (at most 100)")
	return cmd
}

func newHistorySearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search questions and answers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readText(cmd, args)
			if err != nil {
				return err
			}
			typ, err := parseTypeFlag(historyType)
			if err != nil {
				return err
			}
			if err := validatePositiveInt(historyLimit, "--limit"); err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				rows, err := a.Interactions.Search(ctx, userID, query, typ, historyLimit)
				if err != nil {
					return fmt.Errorf("searching interactions: %w", err)
				}
				return printInteractions(cmd, rows, fmt.Sprintf("No interactions match %q", query))
			})
		},
	}

	cmd.Flags().StringVar(&historyType, "type", "", "Only this interaction type")
	cmd.Flags().IntVar(&historyLimit, "limit", 50, "Maximum number of results (at most 100)")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <interaction-id>",
		Short: "Show one interaction in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				rec, err := a.Interactions.GetByID(ctx, args[0])
				if err != nil {
					return fmt.Errorf("loading interaction: %w", err)
				}
				// Other gardeners' rows are reported as missing
				if rec == nil || rec.UserID != userID {
					return fmt.Errorf("interaction %s: %w", args[0], models.ErrNotFound)
				}

				if jsonOutput() {
					return printJSON(cmd.OutOrStdout(), rec)
				}

				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "ID:         %s\n", rec.ID)
				_, _ = fmt.Fprintf(out, "Type:       %s\n", rec.InteractionType)
				_, _ = fmt.Fprintf(out, "Asked:      %s\n", rec.CreatedAt.Format("2006-01-02 15:04"))
				_, _ = fmt.Fprintf(out, "Confidence: %s\n", formatConfidence(rec.ConfidenceScore))
				if rec.PlantID != nil {
					_, _ = fmt.Fprintf(out, "Plant:      %s\n", *rec.PlantID)
				}
				if rec.ImageURL != nil {
					_, _ = fmt.Fprintf(out, "Image:      %s\n", *rec.ImageURL)
				}
				_, _ = fmt.Fprintf(out, "\nQuestion:\n%s\n\nAnswer:\n%s\n", rec.UserMessage, rec.AIResponse)
				return nil
			})
		},
	}
}

func newHistoryStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the interaction history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				stats, err := a.Interactions.Stats(ctx, userID)
				if err != nil {
					return fmt.Errorf("computing stats: %w", err)
				}

				if jsonOutput() {
					return printJSON(cmd.OutOrStdout(), stats)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintf(w, "Total interactions:\t%d\n", stats.TotalInteractions)
				for _, t := range models.InteractionTypes {
					_, _ = fmt.Fprintf(w, "  %s:\t%d\n", t, stats.ByType[t])
				}
				_, _ = fmt.Fprintf(w, "Average confidence:\t%.0f%%\n", stats.AverageConfidence*100)
				_, _ = fmt.Fprintf(w, "Last 7 days:\t%d\n", stats.RecentCount)
				return w.Flush()
			})
		},
	}
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <interaction-id>...",
		Short: "Delete one or more interactions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if len(args) == 1 {
					if err := a.Interactions.Delete(ctx, args[0], userID); err != nil {
						if errors.Is(err, models.ErrNotFound) {
							return fmt.Errorf("interaction %s not found", args[0])
						}
						return fmt.Errorf("deleting interaction: %w", err)
					}
					if jsonOutput() {
						return printJSON(cmd.OutOrStdout(), models.BulkDeleteResult{Success: 1})
					}
					info(cmd, "Deleted interaction %s\n", args[0])
					return nil
				}

				result := a.Interactions.BulkDelete(ctx, userID, args)
				if jsonOutput() {
					if err := printJSON(cmd.OutOrStdout(), result); err != nil {
						return err
					}
				} else {
					info(cmd, "Deleted %d interaction(s), %d failed\n", result.Success, result.Failed)
				}
				if result.Failed > 0 {
					return fmt.Errorf("%d interaction(s) could not be deleted", result.Failed)
				}
				return nil
			})
		},
	}
}

func newHistoryExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export interactions and achievements to YAML or Markdown",
		Long: `Export the gardener's interactions and achievements.

Without --output the export is written to stdout.

Examples:
  plantcare history export > history.yaml
  plantcare history export --as markdown --output garden.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if historyOutput != "" {
					if err := a.Exporter.ExportToFile(ctx, userID, historyOutput, historyFormat); err != nil {
						return fmt.Errorf("exporting: %w", err)
					}
					info(cmd, "Exported history to %s\n", historyOutput)
					return nil
				}

				data, err := a.Exporter.Export(ctx, userID)
				if err != nil {
					return fmt.Errorf("exporting: %w", err)
				}
				switch historyFormat {
				case "yaml", "yml", "":
					return storage.WriteYAML(cmd.OutOrStdout(), data)
				case "markdown", "md":
					return storage.WriteMarkdown(cmd.OutOrStdout(), data)
				}
				return fmt.Errorf("--as must be yaml or markdown, got %q", historyFormat)
			})
		},
	}

	cmd.Flags().StringVar(&historyFormat, "as", "yaml", "Export format: yaml or markdown")
	cmd.Flags().StringVarP(&historyOutput, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func printInteractions(cmd *cobra.Command, rows []models.AIInteraction, empty string) error {
	if jsonOutput() {
		if rows == nil {
			rows = []models.AIInteraction{}
		}
		return printJSON(cmd.OutOrStdout(), rows)
	}

	if len(rows) == 0 {
		info(cmd, "%s\n", empty)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "TYPE\tQUESTION\tANSWER\tCONF\tASKED\tID\n")
	_, _ = fmt.Fprintf(w, "----\t--------\t------\t----\t-----\t--\n")
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.InteractionType,
			truncate(oneLine(r.UserMessage), 30),
			truncate(oneLine(r.AIResponse), 40),
			formatConfidence(r.ConfidenceScore),
			formatTime(r.CreatedAt),
			r.ID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	info(cmd, "\nTotal: %d interaction(s)\n", len(rows))
	return nil
}
