// Package analyzer provides roster reconciliation, feedback classification,
// time bucketing, hierarchy scoping, and funnel metrics for event analytics.
package analyzer

import (
	"time"

	"github.com/blackwell-systems/eventwatch/internal/model"
)

// RegistrationType identifies the signup pathway a participant came through.
type RegistrationType string

const (
	TypeRegistration RegistrationType = "Registration"
	TypeRSVP         RegistrationType = "RSVP"
	TypeWaitingList  RegistrationType = "WaitingList"
)

// ParticipantStatus is the roster-level status of a participant.
type ParticipantStatus string

const (
	StatusConfirmed ParticipantStatus = "confirmed"
	StatusPending   ParticipantStatus = "pending"
	StatusRejected  ParticipantStatus = "rejected"
)

// CanonicalParticipant is the merged view of one user's signups for an event.
type CanonicalParticipant struct {
	UserID           int64              `json:"userId"`
	Name             string             `json:"name"`
	Email            string             `json:"email"`
	Avatar           *string            `json:"avatar"`
	RegistrationType RegistrationType   `json:"registrationType"`
	RegistrationDate time.Time          `json:"registrationDate"`
	CheckedIn        bool               `json:"checkedIn"`
	CheckInDate      *time.Time         `json:"checkInDate"`
	Status           ParticipantStatus  `json:"status"`
	TeamName         *string            `json:"teamName"`
	Participants     []model.TeamMember `json:"participants"`
	Responses        map[string]string  `json:"responses"`
	PaymentProof     *string            `json:"paymentProof"`
}

// RosterResult is the output of ReconcileRoster.
type RosterResult struct {
	// Roster holds one entry per distinct user, newest signup first.
	Roster []CanonicalParticipant `json:"roster"`

	// Rejected lists rejected waiting-list candidates. It is not deduplicated
	// against Roster.
	Rejected []CanonicalParticipant `json:"rejected"`
}

// Scope is the feedback scope and hierarchy shape of an event.
type Scope struct {
	Feedback      []model.Feedback `json:"-"`
	IsMega        bool             `json:"isMegaEvent"`
	IsSub         bool             `json:"isSubEvent"`
	SubEventCount int              `json:"subEventCount"`
	Parent        *model.EventRef  `json:"parentEvent"`
}

// Sentiment holds integer percentages of feedback per class.
type Sentiment struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// EmojiCount is an emoji and how often it was used.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// KeywordCount is a keyword and how often it appeared.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// FeedbackType summarizes how many feedback items carried a given kind of payload.
type FeedbackType struct {
	Type       string `json:"type"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// FeedbackAnalysis is the output of Classify.
type FeedbackAnalysis struct {
	Sentiment     Sentiment      `json:"sentiment"`
	TopEmojis     []EmojiCount   `json:"topEmojis"`
	TopKeywords   []KeywordCount `json:"topKeywords"`
	FeedbackTypes []FeedbackType `json:"feedbackTypes"`

	// SatisfactionScore is the 1-5 mean of per-item sentiment, nil when
	// there is no feedback.
	SatisfactionScore *float64 `json:"satisfactionScore"`
}

// HourBucket is the count of items that fell into one hour of an event.
type HourBucket struct {
	HourStart time.Time `json:"hour"`
	Count     int       `json:"count"`
}

// CumulativePoint is the running attendance and feedback totals at the end
// of one hour of an event.
type CumulativePoint struct {
	HourStart  time.Time `json:"hour"`
	Attendance int       `json:"attendance"`
	Feedback   int       `json:"feedback"`
}

// Heatmaps holds the calendar-position check-in grids.
type Heatmaps struct {
	// Weekly is indexed [day-of-week][hour], Sunday = 0.
	Weekly [7][24]int `json:"weekly"`

	// Monthly is indexed [month-1][week-of-month-1].
	Monthly [12][4]int `json:"monthly"`
}

// Funnel holds the participation funnel stage counts.
type Funnel struct {
	Invited    int `json:"invited"`
	Registered int `json:"registered"`
	CheckedIn  int `json:"checkedIn"`
	Completed  int `json:"completed"`
	Feedback   int `json:"feedback"`
}

// Rates holds integer percentage metrics and the satisfaction score.
type Rates struct {
	RegistrationRate  int      `json:"registrationRate"`
	EngagementRate    int      `json:"engagementRate"`
	SatisfactionScore *float64 `json:"satisfactionScore"`
}

// Counts summarizes record volumes for the event.
type Counts struct {
	TotalParticipants  int `json:"totalParticipants"`
	TotalRSVPs         int `json:"totalRsvps"`
	TotalRegistrations int `json:"totalRegistrations"`
	WaitingList        int `json:"waitingList"`
	Rejected           int `json:"rejected"`
	CheckedIn          int `json:"checkedIn"`
	TotalFeedback      int `json:"totalFeedback"`
}

// EventSummary is the event metadata block of a report.
type EventSummary struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	MaxAttendees int       `json:"maxAttendees"`
	Scope
}

// Report is the complete analytics document for one event. It is computed
// fresh on every request and never persisted.
type Report struct {
	Event                EventSummary           `json:"event"`
	Participants         []CanonicalParticipant `json:"participants"`
	RejectedParticipants []CanonicalParticipant `json:"rejectedParticipants"`
	Counts               Counts                 `json:"counts"`
	FeedbackPerHour      []HourBucket           `json:"feedbackPerHour"`
	AttendanceVsFeedback []CumulativePoint      `json:"attendanceVsFeedback"`
	TopEmojis            []EmojiCount           `json:"topEmojis"`
	TopKeywords          []KeywordCount         `json:"topKeywords"`
	Sentiment            Sentiment              `json:"sentiment"`
	FeedbackTypes        []FeedbackType         `json:"feedbackTypes"`
	Funnel               Funnel                 `json:"funnel"`
	Heatmaps             Heatmaps               `json:"heatmaps"`
	Rates                Rates                  `json:"rates"`
}
