package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/eventwatch/internal/mcp"
)

var mcpAs int64

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server exposing event analytics",
	Long: `Start a Model Context Protocol stdio server that an assistant can
query. Every call acts as the user given with --as, so only events hosted by
that user return analytics. The server exposes three tools:

  list_events           Stored events with schedule and hierarchy
  get_event_analytics   Full analytics report for an event
  get_feedback_summary  Sentiment, satisfaction, keywords and emojis

Example MCP client configuration:
  {"mcpServers":{"eventwatch":{"command":"eventwatch","args":["mcp","--as","1"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().Int64Var(&mcpAs, "as", 0, "User id every tool call acts as")
	_ = mcpCmd.MarkFlagRequired("as")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	svc, err := newReportService(cfg, db)
	if err != nil {
		return err
	}
	srv := mcp.NewServer(svc, db, mcpAs)
	return srv.Run(cmd.Context(), os.Stdin, cmd.OutOrStdout())
}
