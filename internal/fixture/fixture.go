// Package fixture reads YAML descriptions of users, events and their signup
// records and imports them into the store.
package fixture

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/eventwatch/internal/model"
	"github.com/blackwell-systems/eventwatch/internal/store"
)

// File is the top-level fixture document.
type File struct {
	Users  []model.User `yaml:"users"`
	Events []Event      `yaml:"events"`
}

// Event is one event and its records. Sub-events nest one level deep.
type Event struct {
	ID           int64      `yaml:"id"`
	Title        string     `yaml:"title"`
	Host         int64      `yaml:"host"`
	Start        *time.Time `yaml:"start"`
	End          *time.Time `yaml:"end"`
	MaxAttendees int        `yaml:"max_attendees"`

	RSVPs         []RSVP   `yaml:"rsvps"`
	Registrations []Signup `yaml:"registrations"`
	WaitingList   []Signup `yaml:"waiting_list"`
	Feedback      []Note   `yaml:"feedback"`
	Invitations   []Invite `yaml:"invitations"`
	SubEvents     []Event  `yaml:"sub_events"`
}

// RSVP is a direct signup, optionally checked in.
type RSVP struct {
	User        int64      `yaml:"user"`
	At          time.Time  `yaml:"at"`
	CheckedInAt *time.Time `yaml:"checked_in_at"`
}

// Signup is a registration or waiting-list entry.
type Signup struct {
	User         int64              `yaml:"user"`
	At           time.Time          `yaml:"at"`
	Status       string             `yaml:"status"`
	TeamName     *string            `yaml:"team_name"`
	Responses    map[string]string  `yaml:"responses"`
	PaymentProof *string            `yaml:"payment_proof"`
	Participants []model.TeamMember `yaml:"participants"`
}

// Note is a feedback item.
type Note struct {
	User    int64     `yaml:"user"`
	At      time.Time `yaml:"at"`
	Content *string   `yaml:"content"`
	Emoji   *string   `yaml:"emoji"`
}

// Invite is an invitation.
type Invite struct {
	User int64     `yaml:"user"`
	At   time.Time `yaml:"at"`
}

// Stats reports what an import wrote.
type Stats struct {
	Users   int `json:"users"`
	Events  int `json:"events"`
	Records int `json:"records"`
}

// Load reads and parses a fixture file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes fixture YAML and validates its shape.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	for i, ev := range f.Events {
		if err := validate(ev, false); err != nil {
			return nil, fmt.Errorf("event %d (%q): %w", i, ev.Title, err)
		}
	}
	return &f, nil
}

func validate(ev Event, nested bool) error {
	if ev.Title == "" {
		return fmt.Errorf("missing title")
	}
	if ev.Host == 0 {
		return fmt.Errorf("missing host")
	}
	if ev.Start != nil && ev.End != nil && !ev.Start.Before(*ev.End) {
		return fmt.Errorf("start must be before end")
	}
	if nested && len(ev.SubEvents) > 0 {
		return fmt.Errorf("sub-events cannot have sub-events")
	}
	for _, n := range ev.Feedback {
		if isEmpty(n.Content) && isEmpty(n.Emoji) {
			return fmt.Errorf("feedback from user %d has neither content nor emoji", n.User)
		}
	}
	for _, s := range ev.WaitingList {
		switch model.WaitingListStatus(s.Status) {
		case "", model.WaitingListPending, model.WaitingListApproved, model.WaitingListRejected:
		default:
			return fmt.Errorf("unknown waiting-list status %q", s.Status)
		}
	}
	for _, sub := range ev.SubEvents {
		if err := validate(sub, true); err != nil {
			return fmt.Errorf("sub-event %q: %w", sub.Title, err)
		}
	}
	return nil
}

func isEmpty(s *string) bool {
	return s == nil || *s == ""
}

// Import writes the fixture into db in a single transaction.
func Import(ctx context.Context, db *store.DB, f *File) (Stats, error) {
	var stats Stats
	err := db.InTx(ctx, func(w *store.Writer) error {
		for _, u := range f.Users {
			if err := w.UpsertUser(ctx, u); err != nil {
				return fmt.Errorf("user %d: %w", u.ID, err)
			}
			stats.Users++
		}
		for _, ev := range f.Events {
			if err := importEvent(ctx, w, ev, nil, &stats); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func importEvent(ctx context.Context, w *store.Writer, ev Event, parent *int64, stats *Stats) error {
	id, err := w.InsertEvent(ctx, store.NewEvent{
		ID:            ev.ID,
		Title:         ev.Title,
		HostID:        ev.Host,
		StartTime:     ev.Start,
		EndTime:       ev.End,
		MaxAttendees:  ev.MaxAttendees,
		ParentEventID: parent,
	})
	if err != nil {
		return fmt.Errorf("event %q: %w", ev.Title, err)
	}
	stats.Events++

	for _, r := range ev.RSVPs {
		rsvp := model.RSVP{UserID: r.User, CreatedAt: r.At, CheckedIn: r.CheckedInAt != nil, CheckedInAt: r.CheckedInAt}
		if err := w.InsertRSVP(ctx, id, rsvp); err != nil {
			return fmt.Errorf("event %q rsvp for user %d: %w", ev.Title, r.User, err)
		}
		stats.Records++
	}
	for _, s := range ev.Registrations {
		reg := model.Registration{
			UserID: s.User, CreatedAt: s.At, TeamName: s.TeamName, Responses: s.Responses,
			PaymentProof: s.PaymentProof, Participants: s.Participants,
		}
		if err := w.InsertRegistration(ctx, id, reg); err != nil {
			return fmt.Errorf("event %q registration for user %d: %w", ev.Title, s.User, err)
		}
		stats.Records++
	}
	for _, s := range ev.WaitingList {
		entry := model.WaitingListEntry{
			UserID: s.User, CreatedAt: s.At, Status: model.WaitingListStatus(s.Status), TeamName: s.TeamName,
			Responses: s.Responses, PaymentProof: s.PaymentProof, Participants: s.Participants,
		}
		if err := w.InsertWaitingListEntry(ctx, id, entry); err != nil {
			return fmt.Errorf("event %q waiting-list entry for user %d: %w", ev.Title, s.User, err)
		}
		stats.Records++
	}
	for _, n := range ev.Feedback {
		if err := w.InsertFeedback(ctx, id, model.Feedback{UserID: n.User, Content: n.Content, Emoji: n.Emoji, CreatedAt: n.At}); err != nil {
			return fmt.Errorf("event %q feedback from user %d: %w", ev.Title, n.User, err)
		}
		stats.Records++
	}
	for _, inv := range ev.Invitations {
		if err := w.InsertInvitation(ctx, id, model.Invitation{UserID: inv.User, CreatedAt: inv.At}); err != nil {
			return fmt.Errorf("event %q invitation for user %d: %w", ev.Title, inv.User, err)
		}
		stats.Records++
	}

	for _, sub := range ev.SubEvents {
		if err := importEvent(ctx, w, sub, &id, stats); err != nil {
			return err
		}
	}
	return nil
}
