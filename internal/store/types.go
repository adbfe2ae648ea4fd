// Package store provides SQLite persistence for events, signups and feedback,
// and loads the per-event snapshots the analytics engine consumes.
package store

import "time"

// timeLayout is the on-disk format of every timestamp column.
const timeLayout = time.RFC3339Nano

// EventRow is a summary of a stored event.
type EventRow struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	HostID        int64      `json:"host_id"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	MaxAttendees  int        `json:"max_attendees"`
	ParentEventID *int64     `json:"parent_event_id,omitempty"`
	SubEventCount int        `json:"sub_event_count"`
}

// NewEvent describes an event to insert. A zero ID lets SQLite assign one.
type NewEvent struct {
	ID            int64
	Title         string
	HostID        int64
	StartTime     *time.Time
	EndTime       *time.Time
	MaxAttendees  int
	ParentEventID *int64
}
