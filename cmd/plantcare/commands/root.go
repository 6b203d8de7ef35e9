// ABOUTME: Root command, global flags, and application bootstrap for the plantcare CLI
// ABOUTME: Subcommands open the app through newApp so tests can substitute the backend and provider
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/raajvamsy/plantopia/internal/app"
	"github.com/raajvamsy/plantopia/internal/config"
	"github.com/raajvamsy/plantopia/internal/logging"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	userID       string
)

const banner = `
 ██████╗ ██╗      █████╗ ███╗   ██╗████████╗
 ██╔══██╗██║     ██╔══██╗████╗  ██║╚══██╔══╝
 ██████╔╝██║     ███████║██╔██╗ ██║   ██║
 ██╔═══╝ ██║     ██╔══██║██║╚██╗██║   ██║
 ██║     ███████╗██║  ██║██║ ╚████║   ██║
 ╚═╝     ╚══════╝╚═╝  ╚═╝╚═╝  ╚═══╝   ╚═╝  care
`

// newApp opens the wired application for one command invocation
var newApp = func(ctx context.Context) (*app.App, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.New(cfg.LogMode, cliLogLevel(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return a, nil
}

// cliLogLevel keeps the terminal quiet unless --verbose is set
func cliLogLevel(configured string) string {
	switch {
	case verbose:
		return "debug"
	case quiet:
		return "error"
	case strings.EqualFold(configured, "info"), configured == "":
		return "warn"
	}
	return configured
}

func defaultUser() string {
	if u := strings.TrimSpace(os.Getenv("PLANTCARE_USER")); u != "" {
		return u
	}
	return "local"
}

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plantcare",
		Short: "AI plant identification, care advice, and garden achievements",
		Long: banner + `
plantcare asks an AI provider about your plants and keeps a history of
every answer. It identifies plants from photos, gives care advice,
diagnoses diseases, and answers free-form gardening questions.

Garden activity (plants added, care logged) earns achievements that are
evaluated locally.

Configuration comes from the environment or a .env file:
  OPENAI_API_KEY / GEMINI_API_KEY   provider credentials
  PLANTCARE_PROVIDER                openai (default) or gemini
  PLANTCARE_DB_PATH                 SQLite database file
  PLANTCARE_DB_DRIVER, DATABASE_URL use postgres instead of SQLite`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return errors.New("--verbose and --quiet are mutually exclusive")
			}
			switch outputFormat {
			case "auto", "json", "table":
			default:
				return fmt.Errorf("--format must be auto, json or table, got %q", outputFormat)
			}
			if strings.TrimSpace(userID) == "" {
				return errors.New("--user cannot be empty")
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output with debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json, table")
	cmd.PersistentFlags().StringVar(&userID, "user", defaultUser(), "Gardener the command acts for (env PLANTCARE_USER)")

	cmd.AddCommand(
		NewIdentifyCmd(),
		NewAdviseCmd(),
		NewDiagnoseCmd(),
		NewChatCmd(),
		NewHistoryCmd(),
		NewAchievementsCmd(),
		NewGardenCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// withApp opens the application, runs fn, and closes it again
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		a.Log.Sync()
		_ = a.Close()
	}()

	return fn(ctx, a)
}
