package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blackwell-systems/eventwatch/internal/model"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Writer inserts rows either directly or inside a transaction (see DB.InTx).
type Writer struct {
	x execer
}

// UpsertUser inserts a user or updates the profile of an existing one.
func (w *Writer) UpsertUser(ctx context.Context, u model.User) error {
	_, err := w.x.ExecContext(ctx,
		`INSERT INTO users (id, name, email, avatar) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email, avatar = excluded.avatar`,
		u.ID, u.Name, u.Email, nullString(u.Avatar),
	)
	return err
}

// InsertEvent inserts an event and returns its ID.
func (w *Writer) InsertEvent(ctx context.Context, e NewEvent) (int64, error) {
	var id any
	if e.ID != 0 {
		id = e.ID
	}
	result, err := w.x.ExecContext(ctx,
		`INSERT INTO events (id, title, host_id, start_time, end_time, max_attendees, parent_event_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, e.Title, e.HostID, nullTime(e.StartTime), nullTime(e.EndTime), e.MaxAttendees, e.ParentEventID,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// InsertRSVP inserts an RSVP for an event.
func (w *Writer) InsertRSVP(ctx context.Context, eventID int64, r model.RSVP) error {
	_, err := w.x.ExecContext(ctx,
		`INSERT INTO rsvps (event_id, user_id, created_at, checked_in, checked_in_at)
		 VALUES (?, ?, ?, ?, ?)`,
		eventID, r.UserID, formatTime(r.CreatedAt), r.CheckedIn, nullTime(r.CheckedInAt),
	)
	return err
}

// InsertRegistration inserts an approved registration for an event.
func (w *Writer) InsertRegistration(ctx context.Context, eventID int64, r model.Registration) error {
	responses, members, err := encodeSignup(r.Responses, r.Participants)
	if err != nil {
		return err
	}
	_, err = w.x.ExecContext(ctx,
		`INSERT INTO registrations
		(event_id, user_id, created_at, team_name, responses, payment_proof, participants)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		eventID, r.UserID, formatTime(r.CreatedAt), nullString(r.TeamName),
		responses, nullString(r.PaymentProof), members,
	)
	return err
}

// InsertWaitingListEntry inserts a waiting-list entry for an event.
func (w *Writer) InsertWaitingListEntry(ctx context.Context, eventID int64, e model.WaitingListEntry) error {
	responses, members, err := encodeSignup(e.Responses, e.Participants)
	if err != nil {
		return err
	}
	status := e.Status
	if status == "" {
		status = model.WaitingListPending
	}
	_, err = w.x.ExecContext(ctx,
		`INSERT INTO waiting_list
		(event_id, user_id, created_at, status, team_name, responses, payment_proof, participants)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		eventID, e.UserID, formatTime(e.CreatedAt), string(status), nullString(e.TeamName),
		responses, nullString(e.PaymentProof), members,
	)
	return err
}

// InsertFeedback inserts a feedback item for an event.
func (w *Writer) InsertFeedback(ctx context.Context, eventID int64, f model.Feedback) error {
	_, err := w.x.ExecContext(ctx,
		"INSERT INTO feedback (event_id, user_id, content, emoji, created_at) VALUES (?, ?, ?, ?, ?)",
		eventID, f.UserID, nullString(f.Content), nullString(f.Emoji), formatTime(f.CreatedAt),
	)
	return err
}

// InsertInvitation inserts an invitation for an event.
func (w *Writer) InsertInvitation(ctx context.Context, eventID int64, inv model.Invitation) error {
	_, err := w.x.ExecContext(ctx,
		"INSERT INTO invitations (event_id, user_id, created_at) VALUES (?, ?, ?)",
		eventID, inv.UserID, formatTime(inv.CreatedAt),
	)
	return err
}

func encodeSignup(responses map[string]string, members []model.TeamMember) (sql.NullString, sql.NullString, error) {
	var r, m sql.NullString
	if responses != nil {
		data, err := json.Marshal(responses)
		if err != nil {
			return r, m, fmt.Errorf("encoding responses: %w", err)
		}
		r = sql.NullString{String: string(data), Valid: true}
	}
	if members != nil {
		data, err := json.Marshal(members)
		if err != nil {
			return r, m, fmt.Errorf("encoding participants: %w", err)
		}
		m = sql.NullString{String: string(data), Valid: true}
	}
	return r, m, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
