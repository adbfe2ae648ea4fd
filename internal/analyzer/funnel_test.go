package analyzer

import (
	"testing"

	"github.com/blackwell-systems/eventwatch/internal/model"
)

func TestComputeFunnel(t *testing.T) {
	rsvps := []model.RSVP{
		{UserID: 1, CheckedIn: true},
		{UserID: 2, CheckedIn: true},
		{UserID: 3},
	}
	regs := []model.Registration{{UserID: 1}, {UserID: 4}}
	invites := []model.Invitation{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	feedback := []model.Feedback{
		textFeedback(1, "x"), textFeedback(1, "y"), textFeedback(2, "z"),
	}

	t.Run("event over", func(t *testing.T) {
		f := ComputeFunnel(rsvps, regs, invites, feedback, day(1), day(2))
		want := Funnel{Invited: 4, Registered: 2, CheckedIn: 2, Completed: 2, Feedback: 2}
		if f != want {
			t.Errorf("Funnel = %+v, want %+v", f, want)
		}
	})

	t.Run("event still running", func(t *testing.T) {
		f := ComputeFunnel(rsvps, regs, invites, feedback, day(3), day(2))
		if f.Completed != 0 {
			t.Errorf("Completed = %d, want 0 before the event ends", f.Completed)
		}
		if f.CheckedIn != 2 {
			t.Errorf("CheckedIn = %d, want 2", f.CheckedIn)
		}
	})

	t.Run("nothing loaded", func(t *testing.T) {
		f := ComputeFunnel(nil, nil, nil, nil, day(1), day(2))
		if f != (Funnel{}) {
			t.Errorf("Funnel = %+v, want zero", f)
		}
	})
}

func TestRegistrationRate(t *testing.T) {
	tests := []struct {
		name          string
		registrations int
		max           int
		want          int
	}{
		{"half full", 25, 50, 50},
		{"no capacity", 10, 0, 0},
		{"over capacity", 12, 10, 120},
		{"rounded", 1, 3, 33},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RegistrationRate(tc.registrations, tc.max); got != tc.want {
				t.Errorf("RegistrationRate(%d, %d) = %d, want %d", tc.registrations, tc.max, got, tc.want)
			}
		})
	}
}

func TestMegaRegistrationRate(t *testing.T) {
	tests := []struct {
		name string
		subs []SubEventLoad
		want int
	}{
		{
			name: "capacity ratio",
			subs: []SubEventLoad{{MaxAttendees: 10, Registrations: 5}, {MaxAttendees: 30, Registrations: 15}},
			want: 50,
		},
		{
			name: "capacity ignores undeclared sub-events",
			subs: []SubEventLoad{{MaxAttendees: 10, Registrations: 5}, {Registrations: 5}},
			want: 100,
		},
		{
			name: "fallback to sub-events with signups",
			subs: []SubEventLoad{{Registrations: 3}, {Registrations: 0}, {Registrations: 1}, {Registrations: 0}},
			want: 50,
		},
		{
			name: "no sub-events",
			want: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MegaRegistrationRate(tc.subs); got != tc.want {
				t.Errorf("MegaRegistrationRate() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEngagementRate(t *testing.T) {
	if got := EngagementRate(nil); got != 0 {
		t.Errorf("EngagementRate(nil) = %d, want 0", got)
	}
	rsvps := []model.RSVP{{CheckedIn: true}, {CheckedIn: true}, {}}
	if got := EngagementRate(rsvps); got != 67 {
		t.Errorf("EngagementRate() = %d, want 67", got)
	}
}
