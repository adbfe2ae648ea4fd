package analyzer

import (
	"math"
	"time"

	"github.com/blackwell-systems/eventwatch/internal/model"
)

// SubEventLoad is the capacity and registration count of one sub-event, used
// for mega-event registration rates.
type SubEventLoad struct {
	EventID       int64
	MaxAttendees  int
	Registrations int
}

// ComputeFunnel derives funnel stage counts. Registered counts registration
// records only, not the merged roster. Completed counts check-ins once the
// event has ended as of now.
func ComputeFunnel(rsvps []model.RSVP, registrations []model.Registration, invitations []model.Invitation, feedback []model.Feedback, eventEnd, now time.Time) Funnel {
	f := Funnel{
		Invited:    len(invitations),
		Registered: len(registrations),
	}

	ended := now.After(eventEnd)
	for _, r := range rsvps {
		if !r.CheckedIn {
			continue
		}
		f.CheckedIn++
		if ended {
			f.Completed++
		}
	}

	authors := make(map[int64]struct{})
	for _, fb := range feedback {
		authors[fb.UserID] = struct{}{}
	}
	f.Feedback = len(authors)

	return f
}

// RegistrationRate is registrations as an integer percentage of capacity,
// or 0 when the event declares no capacity. It is not capped at 100.
func RegistrationRate(registrations, maxAttendees int) int {
	if maxAttendees <= 0 {
		return 0
	}
	return ratePercent(float64(registrations) / float64(maxAttendees))
}

// MegaRegistrationRate compares total sub-event registrations to total
// declared sub-event capacity. When no sub-event declares a capacity it
// falls back to the percentage of sub-events with at least one registration.
func MegaRegistrationRate(subs []SubEventLoad) int {
	if len(subs) == 0 {
		return 0
	}

	var registered, capacity, withSignups int
	for _, s := range subs {
		registered += s.Registrations
		if s.MaxAttendees > 0 {
			capacity += s.MaxAttendees
		}
		if s.Registrations > 0 {
			withSignups++
		}
	}

	if capacity > 0 {
		return ratePercent(float64(registered) / float64(capacity))
	}
	return ratePercent(float64(withSignups) / float64(len(subs)))
}

// EngagementRate is checked-in RSVPs as an integer percentage of all RSVPs.
func EngagementRate(rsvps []model.RSVP) int {
	if len(rsvps) == 0 {
		return 0
	}
	var checkedIn int
	for _, r := range rsvps {
		if r.CheckedIn {
			checkedIn++
		}
	}
	return ratePercent(float64(checkedIn) / float64(len(rsvps)))
}

func ratePercent(x float64) int {
	return int(math.Round(x * 100))
}
