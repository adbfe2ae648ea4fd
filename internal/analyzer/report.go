package analyzer

import (
	"time"

	"github.com/blackwell-systems/eventwatch/internal/model"
)

// ReportOptions tunes report assembly.
type ReportOptions struct {
	// Now is the evaluation instant for the completed funnel stage.
	Now time.Time

	// Location is the calendar used for heatmaps. Nil means UTC.
	Location *time.Location

	TopKeywords int
	TopEmojis   int
}

// BuildReport runs the analytics pipeline over an event whose schedule has
// already been validated. subLoads carries the registration counts of each
// sub-event and is only consulted for mega events.
func BuildReport(event *model.EventSnapshot, subLoads []SubEventLoad, opts ReportOptions) Report {
	if opts.TopKeywords <= 0 {
		opts.TopKeywords = DefaultTopKeywords
	}
	if opts.TopEmojis <= 0 {
		opts.TopEmojis = DefaultTopEmojis
	}
	start, end := *event.StartTime, *event.EndTime

	scope := ResolveScope(event)
	roster := ReconcileRoster(event.RSVPs, event.Registrations, event.WaitingList)
	analysis := ClassifyN(scope.Feedback, opts.TopKeywords, opts.TopEmojis)

	funnel := ComputeFunnel(event.RSVPs, event.Registrations, event.Invitations, scope.Feedback, end, opts.Now)

	var registrationRate int
	if scope.IsMega {
		registrationRate = MegaRegistrationRate(subLoads)
	} else {
		registrationRate = RegistrationRate(len(event.Registrations), event.MaxAttendees)
	}

	return Report{
		Event: EventSummary{
			ID:           event.ID,
			Title:        event.Title,
			StartTime:    start,
			EndTime:      end,
			MaxAttendees: event.MaxAttendees,
			Scope:        scope,
		},
		Participants:         roster.Roster,
		RejectedParticipants: roster.Rejected,
		Counts:               countsFor(event, roster, funnel, len(scope.Feedback)),
		FeedbackPerHour:      FeedbackPerHour(scope.Feedback, start, end),
		AttendanceVsFeedback: CumulativeSeries(event.RSVPs, scope.Feedback, event.HostID, start, end),
		TopEmojis:            analysis.TopEmojis,
		TopKeywords:          analysis.TopKeywords,
		Sentiment:            analysis.Sentiment,
		FeedbackTypes:        analysis.FeedbackTypes,
		Funnel:               funnel,
		Heatmaps:             CheckInHeatmaps(event.RSVPs, opts.Location),
		Rates: Rates{
			RegistrationRate:  registrationRate,
			EngagementRate:    EngagementRate(event.RSVPs),
			SatisfactionScore: analysis.SatisfactionScore,
		},
	}
}

func countsFor(event *model.EventSnapshot, roster RosterResult, funnel Funnel, feedback int) Counts {
	c := Counts{
		TotalParticipants:  len(roster.Roster),
		TotalRSVPs:         len(event.RSVPs),
		TotalRegistrations: len(event.Registrations),
		Rejected:           len(roster.Rejected),
		CheckedIn:          funnel.CheckedIn,
		TotalFeedback:      feedback,
	}
	for _, p := range roster.Roster {
		if p.Status == StatusPending {
			c.WaitingList++
		}
	}
	return c
}
