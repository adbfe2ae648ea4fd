package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/eventwatch/internal/analyzer"
	"github.com/blackwell-systems/eventwatch/internal/config"
	"github.com/blackwell-systems/eventwatch/internal/output"
	"github.com/blackwell-systems/eventwatch/internal/report"
)

var (
	reportAs           int64
	reportParticipants int
)

var reportCmd = &cobra.Command{
	Use:   "report <eventId>",
	Short: "Show the analytics report for an event",
	Long: `Report computes the host analytics for an event: the reconciled
participant roster, attendance and feedback series, sentiment, top keywords
and emojis, check-in heatmaps, the engagement funnel and headline rates.

Only the event host may view a report; pass the host's user id with --as.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().Int64Var(&reportAs, "as", 0, "User id of the requester (must be the event host)")
	reportCmd.Flags().IntVar(&reportParticipants, "participants", 20, "Maximum participants to list (0 for all)")
	_ = reportCmd.MarkFlagRequired("as")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
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
	rep, err := svc.GetAnalytics(cmd.Context(), args[0], reportAs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	renderReport(out, rep, cfg.Output.Width, reportParticipants)
	return nil
}

func newReportService(cfg *config.Config, src report.Source) (*report.Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return report.NewService(src, report.Options{
		Location:    loc,
		TopKeywords: cfg.Report.TopKeywords,
		TopEmojis:   cfg.Report.TopEmojis,
	}), nil
}

func renderReport(w io.Writer, r *analyzer.Report, width, maxParticipants int) {
	renderEventHeader(w, r.Event)
	renderCounts(w, r.Counts)
	renderRates(w, r.Rates, width)
	renderFunnel(w, r.Funnel)
	renderFeedback(w, r)
	renderTimeline(w, r)
	renderHeatmaps(w, r.Heatmaps)
	renderParticipants(w, r.Participants, maxParticipants)
}

func renderEventHeader(w io.Writer, e analyzer.EventSummary) {
	fmt.Fprintln(w, output.Section(e.Title))

	fmt.Fprintln(w, output.KeyValue("Event id", strconv.FormatInt(e.ID, 10)))
	fmt.Fprintln(w, output.KeyValue("Starts", e.StartTime.Format("2006-01-02 15:04 MST")))
	fmt.Fprintln(w, output.KeyValue("Ends", e.EndTime.Format("2006-01-02 15:04 MST")))
	if e.MaxAttendees > 0 {
		fmt.Fprintln(w, output.KeyValue("Capacity", strconv.Itoa(e.MaxAttendees)))
	}
	switch {
	case e.IsMega:
		fmt.Fprintln(w, output.KeyValue("Mega event", fmt.Sprintf("%d sub-events", e.SubEventCount)))
	case e.IsSub && e.Parent != nil:
		fmt.Fprintln(w, output.KeyValue("Part of", fmt.Sprintf("%s (#%d)", e.Parent.Title, e.Parent.ID)))
	}
	fmt.Fprintln(w)
}

func renderCounts(w io.Writer, c analyzer.Counts) {
	fmt.Fprintln(w, output.Section("Participants"))

	fmt.Fprintln(w, output.KeyValue("Total", strconv.Itoa(c.TotalParticipants)))
	fmt.Fprintln(w, output.KeyValue("RSVPs", strconv.Itoa(c.TotalRSVPs)))
	fmt.Fprintln(w, output.KeyValue("Registrations", strconv.Itoa(c.TotalRegistrations)))
	fmt.Fprintln(w, output.KeyValue("Waiting list", strconv.Itoa(c.WaitingList)))
	fmt.Fprintln(w, output.KeyValue("Rejected", strconv.Itoa(c.Rejected)))
	fmt.Fprintln(w, output.KeyValue("Checked in", strconv.Itoa(c.CheckedIn)))
	fmt.Fprintln(w, output.KeyValue("Feedback", strconv.Itoa(c.TotalFeedback)))
	fmt.Fprintln(w)
}

func renderRates(w io.Writer, r analyzer.Rates, width int) {
	fmt.Fprintln(w, output.Section("Rates"))

	barWidth := barWidthFor(width)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Registration"), output.PercentBar(r.RegistrationRate, barWidth))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Engagement"), output.PercentBar(r.EngagementRate, barWidth))
	satisfaction := "n/a"
	if r.SatisfactionScore != nil {
		satisfaction = fmt.Sprintf("%.1f / 5", *r.SatisfactionScore)
	}
	fmt.Fprintln(w, output.KeyValue("Satisfaction", satisfaction))
	fmt.Fprintln(w)
}

func renderFunnel(w io.Writer, f analyzer.Funnel) {
	fmt.Fprintln(w, output.Section("Funnel"))

	tbl := output.NewTable("Stage", "Count")
	tbl.AddRow("Invited", strconv.Itoa(f.Invited))
	tbl.AddRow("Registered", strconv.Itoa(f.Registered))
	tbl.AddRow("Checked in", strconv.Itoa(f.CheckedIn))
	tbl.AddRow("Completed", strconv.Itoa(f.Completed))
	tbl.AddRow("Gave feedback", strconv.Itoa(f.Feedback))
	fmt.Fprintln(w)
	tbl.Fprint(w)
	fmt.Fprintln(w)
}

func renderFeedback(w io.Writer, r *analyzer.Report) {
	fmt.Fprintln(w, output.Section("Feedback"))

	if r.Counts.TotalFeedback == 0 {
		fmt.Fprintf(w, " %s\n\n", output.StyleMuted.Render("No feedback yet"))
		return
	}

	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Positive"), output.PercentBar(r.Sentiment.Positive, 20))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Neutral"), output.PercentBar(r.Sentiment.Neutral, 20))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Negative"), output.PercentBar(r.Sentiment.Negative, 20))

	if len(r.FeedbackTypes) > 0 {
		fmt.Fprintf(w, "\n %s\n", output.StyleMuted.Render("Feedback types:"))
		for _, t := range r.FeedbackTypes {
			fmt.Fprintf(w, "   %s %s\n",
				output.StyleLabel.Render(t.Type),
				output.StyleValue.Render(fmt.Sprintf("%d (%d%%)", t.Count, t.Percentage)))
		}
	}

	if len(r.TopKeywords) > 0 {
		fmt.Fprintf(w, "\n %s\n", output.StyleMuted.Render("Top keywords:"))
		for _, k := range r.TopKeywords {
			fmt.Fprintf(w, "   %s %s\n", output.StyleLabel.Render(k.Word), output.StyleValue.Render(strconv.Itoa(k.Count)))
		}
	}

	if len(r.TopEmojis) > 0 {
		parts := make([]string, 0, len(r.TopEmojis))
		for _, e := range r.TopEmojis {
			parts = append(parts, fmt.Sprintf("%s ×%d", e.Emoji, e.Count))
		}
		fmt.Fprintf(w, "\n %s %s\n", output.StyleMuted.Render("Top emojis:"), strings.Join(parts, "  "))
	}
	fmt.Fprintln(w)
}

func renderTimeline(w io.Writer, r *analyzer.Report) {
	fmt.Fprintln(w, output.Section("Hourly Activity"))

	tbl := output.NewTable("Hour", "Feedback", "Attendance (cum.)", "Feedback users (cum.)")
	for i, b := range r.FeedbackPerHour {
		attendance, feedback := "-", "-"
		if i < len(r.AttendanceVsFeedback) {
			attendance = strconv.Itoa(r.AttendanceVsFeedback[i].Attendance)
			feedback = strconv.Itoa(r.AttendanceVsFeedback[i].Feedback)
		}
		tbl.AddRow(b.HourStart.Format("Jan 2 15:04"), strconv.Itoa(b.Count), attendance, feedback)
	}
	fmt.Fprintln(w)
	tbl.Fprint(w)
	fmt.Fprintln(w)
}

var (
	weekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	monthLabels   = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

func renderHeatmaps(w io.Writer, h analyzer.Heatmaps) {
	fmt.Fprintln(w, output.Section("Check-in Heatmaps"))

	weekly := make([][]int, len(h.Weekly))
	for i := range h.Weekly {
		weekly[i] = h.Weekly[i][:]
	}
	monthly := make([][]int, len(h.Monthly))
	for i := range h.Monthly {
		monthly[i] = h.Monthly[i][:]
	}

	fmt.Fprintf(w, "\n %s\n", output.StyleMuted.Render("Day of week by hour:"))
	fmt.Fprint(w, output.Heatmap(weekdayLabels, "0h    6h    12h   18h", weekly))
	fmt.Fprintf(w, "\n %s\n", output.StyleMuted.Render("Month by week:"))
	fmt.Fprint(w, output.Heatmap(monthLabels, "1234", monthly))
	fmt.Fprintln(w)
}

func renderParticipants(w io.Writer, roster []analyzer.CanonicalParticipant, limit int) {
	fmt.Fprintln(w, output.Section("Roster"))

	if len(roster) == 0 {
		fmt.Fprintf(w, " %s\n\n", output.StyleMuted.Render("No participants"))
		return
	}

	shown := roster
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	tbl := output.NewTable("Name", "Email", "Type", "Status", "Registered", "Checked in")
	for _, p := range shown {
		checkedIn := "-"
		if p.CheckedIn && p.CheckInDate != nil {
			checkedIn = p.CheckInDate.Format("Jan 2 15:04")
		} else if p.CheckedIn {
			checkedIn = "yes"
		}
		tbl.AddRow(p.Name, p.Email, string(p.RegistrationType), string(p.Status),
			p.RegistrationDate.Format("2006-01-02"), checkedIn)
	}
	fmt.Fprintln(w)
	tbl.Fprint(w)
	if len(shown) < len(roster) {
		fmt.Fprintf(w, " %s\n", output.StyleMuted.Render(fmt.Sprintf("... and %d more", len(roster)-len(shown))))
	}
	fmt.Fprintln(w)
}

// barWidthFor sizes percentage bars to the configured terminal width.
func barWidthFor(width int) int {
	bar := width - 40
	if bar < 10 {
		return 10
	}
	if bar > 40 {
		return 40
	}
	return bar
}
