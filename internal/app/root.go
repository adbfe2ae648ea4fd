// Package app contains the Cobra command tree for eventwatch.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/eventwatch/internal/config"
	"github.com/blackwell-systems/eventwatch/internal/output"
	"github.com/blackwell-systems/eventwatch/internal/store"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "eventwatch",
	Short: "Participant reconciliation and engagement analytics for events",
	Long: `eventwatch builds host-facing analytics for events: a reconciled
participant roster across RSVPs, registrations and the waiting list, feedback
sentiment and keywords, hourly activity series, check-in heatmaps, and the
invitation-to-feedback funnel. Mega events roll up their sub-events.

Load data with 'eventwatch import', then run 'eventwatch report' or serve the
same reports over HTTP with 'eventwatch serve'.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "eventwatch", appVersion)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Use a subcommand:")
		fmt.Fprintln(out, "  import    Load users, events and signups from a YAML fixture")
		fmt.Fprintln(out, "  events    List stored events")
		fmt.Fprintln(out, "  report    Show the analytics report for an event")
		fmt.Fprintln(out, "  serve     Serve analytics reports over HTTP")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/eventwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}

// setup configures logging and color before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	if flagNoColor || !isTerminal(cmd.OutOrStdout()) {
		output.SetNoColor(true)
	}
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loadConfig loads configuration and applies its output preferences.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if !cfg.Output.Color {
		output.SetNoColor(true)
	}
	return cfg, nil
}

// openStore opens the configured database, creating its directory if needed.
func openStore(cfg *config.Config) (*store.DB, error) {
	slog.Debug("opening database", slog.String("path", cfg.Database))
	open := store.Open
	if cfg.Database == ":memory:" {
		open = func(string) (*store.DB, error) { return store.OpenInMemory() }
	}
	db, err := open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}
