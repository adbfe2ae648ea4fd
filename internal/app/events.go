package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/eventwatch/internal/output"
	"github.com/blackwell-systems/eventwatch/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List stored events",
	Long: `List every stored event with its host and schedule. Mega events show
their number of sub-events; sub-events show their parent.`,
	Args: cobra.NoArgs,
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	events, err := db.ListEvents(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	fmt.Fprintln(out, output.Section("Events"))
	if len(events) == 0 {
		fmt.Fprintf(out, " %s\n\n", output.StyleMuted.Render("No events stored. Load some with 'eventwatch import'."))
		return nil
	}

	tbl := output.NewTable("ID", "Title", "Host", "Start", "End", "Kind")
	for _, e := range events {
		tbl.AddRow(
			strconv.FormatInt(e.ID, 10),
			e.Title,
			strconv.FormatInt(e.HostID, 10),
			formatOptionalTime(e.StartTime),
			formatOptionalTime(e.EndTime),
			eventKind(e),
		)
	}
	fmt.Fprintln(out)
	tbl.Fprint(out)
	fmt.Fprintln(out)
	return nil
}

func eventKind(e store.EventRow) string {
	switch {
	case e.SubEventCount > 0:
		return fmt.Sprintf("mega (%d sub-events)", e.SubEventCount)
	case e.ParentEventID != nil:
		return fmt.Sprintf("sub-event of %d", *e.ParentEventID)
	default:
		return "standalone"
	}
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
