package analyzer

import (
	"time"

	"github.com/blackwell-systems/eventwatch/internal/model"
)

// BucketByHour splits [start, end) into ceil((end-start)/1h) hourly buckets
// and counts the items whose timestamp falls in each half-open bucket.
// Items outside the window are ignored.
func BucketByHour[T any](items []T, start, end time.Time, timestampOf func(T) time.Time) []HourBucket {
	buckets := hourBuckets(start, end)
	for _, item := range items {
		ts := timestampOf(item)
		if ts.Before(start) {
			continue
		}
		i := int(ts.Sub(start) / time.Hour)
		if i < len(buckets) {
			buckets[i].Count++
		}
	}
	return buckets
}

func hourBuckets(start, end time.Time) []HourBucket {
	n := bucketCount(start, end)
	buckets := make([]HourBucket, n)
	for i := range buckets {
		buckets[i].HourStart = start.Add(time.Duration(i) * time.Hour)
	}
	return buckets
}

func bucketCount(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	n := int(d / time.Hour)
	if d%time.Hour != 0 {
		n++
	}
	return n
}

// FeedbackPerHour counts feedback items per hour of the event window.
func FeedbackPerHour(feedback []model.Feedback, start, end time.Time) []HourBucket {
	return BucketByHour(feedback, start, end, func(fb model.Feedback) time.Time { return fb.CreatedAt })
}

// CumulativeSeries computes, at the end of each hour of the event window,
// how many RSVPs had checked in and how many distinct users other than the
// host had left feedback so far.
func CumulativeSeries(rsvps []model.RSVP, feedback []model.Feedback, hostID int64, start, end time.Time) []CumulativePoint {
	n := bucketCount(start, end)
	points := make([]CumulativePoint, n)

	for i := range points {
		hourStart := start.Add(time.Duration(i) * time.Hour)
		boundary := hourStart.Add(time.Hour)
		points[i].HourStart = hourStart

		for _, r := range rsvps {
			if r.CheckedIn && r.CheckedInAt != nil && r.CheckedInAt.Before(boundary) {
				points[i].Attendance++
			}
		}

		seen := make(map[int64]bool)
		for _, fb := range feedback {
			if fb.UserID == hostID || seen[fb.UserID] {
				continue
			}
			if fb.CreatedAt.Before(boundary) {
				seen[fb.UserID] = true
			}
		}
		points[i].Feedback = len(seen)
	}

	return points
}

// CheckInHeatmaps buckets check-in timestamps by absolute calendar position
// in loc: day-of-week by hour, and month by week-of-month.
func CheckInHeatmaps(rsvps []model.RSVP, loc *time.Location) Heatmaps {
	if loc == nil {
		loc = time.UTC
	}

	var h Heatmaps
	for _, r := range rsvps {
		if r.CheckedInAt == nil {
			continue
		}
		t := r.CheckedInAt.In(loc)
		h.Weekly[int(t.Weekday())][t.Hour()]++
		h.Monthly[int(t.Month())-1][WeekOfMonth(t)-1]++
	}
	return h
}

// WeekOfMonth returns ceil(day/7) clamped to 1..4, so days 29-31 fold into
// the fourth week.
func WeekOfMonth(t time.Time) int {
	w := (t.Day() + 6) / 7
	if w > 4 {
		w = 4
	}
	if w < 1 {
		w = 1
	}
	return w
}
