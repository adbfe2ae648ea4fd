// Package model defines the read-only relational snapshot that the analytics
// engine consumes for a single event.
package model

import "time"

// User is the public profile attached to a participation record.
type User struct {
	ID     int64   `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Email  string  `json:"email" yaml:"email"`
	Avatar *string `json:"avatar" yaml:"avatar,omitempty"`
}

// EventRef identifies another event by id and title.
type EventRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// EventSnapshot is everything the engine needs to know about one event.
// Sub-events carry the same shape; nesting is one level deep.
type EventSnapshot struct {
	ID           int64
	Title        string
	HostID       int64
	StartTime    *time.Time
	EndTime      *time.Time
	MaxAttendees int

	RSVPs         []RSVP
	Registrations []Registration
	WaitingList   []WaitingListEntry
	Feedbacks     []Feedback
	Invitations   []Invitation

	SubEvents []EventSnapshot
	Parent    *EventRef
}

// HasSchedule reports whether both time bounds are set.
func (e *EventSnapshot) HasSchedule() bool {
	return e.StartTime != nil && e.EndTime != nil
}

// RSVP is a direct signup. There is at most one per (event, user).
type RSVP struct {
	UserID      int64
	User        *User
	CreatedAt   time.Time
	CheckedIn   bool
	CheckedInAt *time.Time
}

// TeamMember holds the free-form details of one person listed on a team signup.
type TeamMember struct {
	Details map[string]any `json:"details" yaml:"details"`
}

// Registration is an approved signup, optionally for a team.
type Registration struct {
	UserID       int64
	User         *User
	CreatedAt    time.Time
	TeamName     *string
	Responses    map[string]string
	PaymentProof *string
	Participants []TeamMember
}

// WaitingListStatus is the decision state of a waiting-list entry.
type WaitingListStatus string

const (
	WaitingListPending  WaitingListStatus = "PENDING"
	WaitingListApproved WaitingListStatus = "APPROVED"
	WaitingListRejected WaitingListStatus = "REJECTED"
)

// WaitingListEntry is a signup awaiting a host decision.
type WaitingListEntry struct {
	UserID       int64
	User         *User
	CreatedAt    time.Time
	Status       WaitingListStatus
	TeamName     *string
	Responses    map[string]string
	PaymentProof *string
	Participants []TeamMember
}

// Feedback is a free-text and/or emoji reaction left on an event.
type Feedback struct {
	UserID    int64
	Content   *string
	Emoji     *string
	CreatedAt time.Time
}

// Invitation is an outbound invite; the engine only counts them.
type Invitation struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
}
