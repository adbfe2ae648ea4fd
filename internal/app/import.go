package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/eventwatch/internal/fixture"
	"github.com/blackwell-systems/eventwatch/internal/output"
)

var importCmd = &cobra.Command{
	Use:   "import <fixture.yaml>",
	Short: "Load users, events and signups from a YAML fixture",
	Long: `Import reads a YAML fixture describing users and events (with their
RSVPs, registrations, waiting list, feedback, invitations and sub-events) and
writes it to the database in a single transaction. A failing fixture leaves
the database unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := fixture.Load(args[0])
	if err != nil {
		return fmt.Errorf("reading fixture: %w", err)
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	stats, err := fixture.Import(cmd.Context(), db, f)
	if err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}
	slog.Debug("import complete", slog.String("fixture", args[0]), slog.Int("records", stats.Records))

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Fprintln(out, output.Section("Import"))
	fmt.Fprintln(out, output.KeyValue("Users", fmt.Sprintf("%d", stats.Users)))
	fmt.Fprintln(out, output.KeyValue("Events", fmt.Sprintf("%d", stats.Events)))
	fmt.Fprintln(out, output.KeyValue("Records", fmt.Sprintf("%d", stats.Records)))
	fmt.Fprintln(out)
	return nil
}
