package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blackwell-systems/eventwatch/internal/model"
)

const eventColumns = "id, title, host_id, start_time, end_time, max_attendees, parent_event_id"

// LoadEventSnapshot loads an event with all of its records, its sub-events
// (each with their own records) and its parent reference. It returns nil if
// the event does not exist.
func (db *DB) LoadEventSnapshot(ctx context.Context, id int64) (*model.EventSnapshot, error) {
	row, err := db.getEvent(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}

	event, err := db.loadEvent(ctx, row)
	if err != nil {
		return nil, err
	}

	if row.ParentEventID != nil {
		parent, err := db.getEvent(ctx, *row.ParentEventID)
		if err != nil {
			return nil, fmt.Errorf("loading parent event: %w", err)
		}
		if parent != nil {
			event.Parent = &model.EventRef{ID: parent.ID, Title: parent.Title}
		}
	}

	subRows, err := db.queryEvents(ctx, "SELECT "+eventColumns+" FROM events WHERE parent_event_id = ? ORDER BY id", id)
	if err != nil {
		return nil, fmt.Errorf("loading sub-events: %w", err)
	}
	for i := range subRows {
		sub, err := db.loadEvent(ctx, &subRows[i])
		if err != nil {
			return nil, fmt.Errorf("loading sub-event %d: %w", subRows[i].ID, err)
		}
		sub.Parent = &model.EventRef{ID: event.ID, Title: event.Title}
		event.SubEvents = append(event.SubEvents, *sub)
	}

	return event, nil
}

// CountRegistrations returns the number of registrations for an event.
func (db *DB) CountRegistrations(ctx context.Context, eventID int64) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM registrations WHERE event_id = ?", eventID).Scan(&n)
	return n, err
}

// ListEvents returns all events ordered by ID, with sub-event counts.
func (db *DB) ListEvents(ctx context.Context) ([]EventRow, error) {
	rows, err := db.queryEvents(ctx, "SELECT "+eventColumns+" FROM events ORDER BY id")
	if err != nil {
		return nil, err
	}
	children := make(map[int64]int)
	for _, r := range rows {
		if r.ParentEventID != nil {
			children[*r.ParentEventID]++
		}
	}
	for i := range rows {
		rows[i].SubEventCount = children[rows[i].ID]
	}
	return rows, nil
}

func (db *DB) getEvent(ctx context.Context, id int64) (*EventRow, error) {
	rows, err := db.queryEvents(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (db *DB) queryEvents(ctx context.Context, query string, args ...any) ([]EventRow, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []EventRow
	for rows.Next() {
		var e EventRow
		var start, end sql.NullString
		var parent sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Title, &e.HostID, &start, &end, &e.MaxAttendees, &parent); err != nil {
			return nil, err
		}
		e.StartTime = parseNullTime(start)
		e.EndTime = parseNullTime(end)
		if parent.Valid {
			p := parent.Int64
			e.ParentEventID = &p
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (db *DB) loadEvent(ctx context.Context, row *EventRow) (*model.EventSnapshot, error) {
	event := &model.EventSnapshot{
		ID:           row.ID,
		Title:        row.Title,
		HostID:       row.HostID,
		StartTime:    row.StartTime,
		EndTime:      row.EndTime,
		MaxAttendees: row.MaxAttendees,
	}

	var err error
	if event.RSVPs, err = db.loadRSVPs(ctx, row.ID); err != nil {
		return nil, fmt.Errorf("loading rsvps: %w", err)
	}
	if event.Registrations, err = db.loadRegistrations(ctx, row.ID); err != nil {
		return nil, fmt.Errorf("loading registrations: %w", err)
	}
	if event.WaitingList, err = db.loadWaitingList(ctx, row.ID); err != nil {
		return nil, fmt.Errorf("loading waiting list: %w", err)
	}
	if event.Feedbacks, err = db.loadFeedback(ctx, row.ID); err != nil {
		return nil, fmt.Errorf("loading feedback: %w", err)
	}
	if event.Invitations, err = db.loadInvitations(ctx, row.ID); err != nil {
		return nil, fmt.Errorf("loading invitations: %w", err)
	}
	return event, nil
}

// userColumns are selected via LEFT JOIN so orphaned rows scan a nil user.
const userColumns = "u.id, u.name, u.email, u.avatar"

type userScan struct {
	id     sql.NullInt64
	name   sql.NullString
	email  sql.NullString
	avatar sql.NullString
}

func (s *userScan) dest() []any {
	return []any{&s.id, &s.name, &s.email, &s.avatar}
}

func (s *userScan) user() *model.User {
	if !s.id.Valid {
		return nil
	}
	u := &model.User{ID: s.id.Int64, Name: s.name.String, Email: s.email.String}
	if s.avatar.Valid {
		a := s.avatar.String
		u.Avatar = &a
	}
	return u
}

func (db *DB) loadRSVPs(ctx context.Context, eventID int64) ([]model.RSVP, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.user_id, r.created_at, r.checked_in, r.checked_in_at, `+userColumns+`
		 FROM rsvps r LEFT JOIN users u ON u.id = r.user_id
		 WHERE r.event_id = ? ORDER BY r.id`, eventID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.RSVP
	for rows.Next() {
		var r model.RSVP
		var created string
		var checkedInAt sql.NullString
		var us userScan
		dest := append([]any{&r.UserID, &created, &r.CheckedIn, &checkedInAt}, us.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(created)
		r.CheckedInAt = parseNullTime(checkedInAt)
		r.User = us.user()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (db *DB) loadRegistrations(ctx context.Context, eventID int64) ([]model.Registration, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.user_id, r.created_at, r.team_name, r.responses, r.payment_proof, r.participants, `+userColumns+`
		 FROM registrations r LEFT JOIN users u ON u.id = r.user_id
		 WHERE r.event_id = ? ORDER BY r.id`, eventID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Registration
	for rows.Next() {
		var r model.Registration
		var created string
		var s signupScan
		var us userScan
		dest := append([]any{&r.UserID, &created}, s.dest()...)
		if err := rows.Scan(append(dest, us.dest()...)...); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(created)
		r.User = us.user()
		if r.TeamName, r.Responses, r.PaymentProof, r.Participants, err = s.decode(); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (db *DB) loadWaitingList(ctx context.Context, eventID int64) ([]model.WaitingListEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT w.user_id, w.created_at, w.status, w.team_name, w.responses, w.payment_proof, w.participants, `+userColumns+`
		 FROM waiting_list w LEFT JOIN users u ON u.id = w.user_id
		 WHERE w.event_id = ? ORDER BY w.id`, eventID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.WaitingListEntry
	for rows.Next() {
		var e model.WaitingListEntry
		var created, status string
		var s signupScan
		var us userScan
		dest := append([]any{&e.UserID, &created, &status}, s.dest()...)
		if err := rows.Scan(append(dest, us.dest()...)...); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(created)
		e.Status = model.WaitingListStatus(status)
		e.User = us.user()
		if e.TeamName, e.Responses, e.PaymentProof, e.Participants, err = s.decode(); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (db *DB) loadFeedback(ctx context.Context, eventID int64) ([]model.Feedback, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT user_id, content, emoji, created_at FROM feedback WHERE event_id = ? ORDER BY id", eventID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Feedback
	for rows.Next() {
		var f model.Feedback
		var content, emoji sql.NullString
		var created string
		if err := rows.Scan(&f.UserID, &content, &emoji, &created); err != nil {
			return nil, err
		}
		f.Content = stringPtr(content)
		f.Emoji = stringPtr(emoji)
		f.CreatedAt = parseTime(created)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (db *DB) loadInvitations(ctx context.Context, eventID int64) ([]model.Invitation, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, user_id, created_at FROM invitations WHERE event_id = ? ORDER BY id", eventID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Invitation
	for rows.Next() {
		var inv model.Invitation
		var created string
		if err := rows.Scan(&inv.ID, &inv.UserID, &created); err != nil {
			return nil, err
		}
		inv.CreatedAt = parseTime(created)
		out = append(out, inv)
	}
	return out, rows.Err()
}

// signupScan holds the optional team columns shared by registrations and
// the waiting list.
type signupScan struct {
	teamName     sql.NullString
	responses    sql.NullString
	paymentProof sql.NullString
	participants sql.NullString
}

func (s *signupScan) dest() []any {
	return []any{&s.teamName, &s.responses, &s.paymentProof, &s.participants}
}

func (s *signupScan) decode() (*string, map[string]string, *string, []model.TeamMember, error) {
	var responses map[string]string
	if s.responses.Valid && s.responses.String != "" {
		if err := json.Unmarshal([]byte(s.responses.String), &responses); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("decoding responses: %w", err)
		}
	}
	var members []model.TeamMember
	if s.participants.Valid && s.participants.String != "" {
		if err := json.Unmarshal([]byte(s.participants.String), &members); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("decoding participants: %w", err)
		}
	}
	return stringPtr(s.teamName), responses, stringPtr(s.paymentProof), members, nil
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}
