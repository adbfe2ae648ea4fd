package analyzer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/blackwell-systems/eventwatch/internal/model"
)

func scheduled(id int64, start, end time.Time) model.EventSnapshot {
	return model.EventSnapshot{ID: id, Title: "Event", HostID: 100, StartTime: &start, EndTime: &end}
}

func TestBuildReport_EmptyEvent(t *testing.T) {
	event := scheduled(1, at(10, 0), at(12, 0))
	r := BuildReport(&event, nil, ReportOptions{Now: at(13, 0)})

	if len(r.Participants) != 0 || len(r.RejectedParticipants) != 0 {
		t.Error("expected empty roster and rejected list")
	}
	if r.Counts != (Counts{}) {
		t.Errorf("Counts = %+v, want zero", r.Counts)
	}
	if r.Sentiment != (Sentiment{}) {
		t.Errorf("Sentiment = %+v, want zero", r.Sentiment)
	}
	if r.Funnel != (Funnel{}) {
		t.Errorf("Funnel = %+v, want zero", r.Funnel)
	}
	if r.Rates.RegistrationRate != 0 || r.Rates.EngagementRate != 0 || r.Rates.SatisfactionScore != nil {
		t.Errorf("Rates = %+v, want zero with nil satisfaction", r.Rates)
	}
	if len(r.FeedbackPerHour) != 2 {
		t.Errorf("got %d hourly buckets, want 2", len(r.FeedbackPerHour))
	}
}

func TestBuildReport_MegaEvent(t *testing.T) {
	checkIn := at(10, 30)
	sub1 := scheduled(2, at(10, 0), at(11, 0))
	sub1.MaxAttendees = 10
	sub1.Feedbacks = []model.Feedback{{UserID: 5, Content: strPtr("great workshop"), CreatedAt: at(10, 40)}}
	sub2 := scheduled(3, at(11, 0), at(12, 0))
	sub2.MaxAttendees = 10

	mega := scheduled(1, at(10, 0), at(12, 0))
	mega.SubEvents = []model.EventSnapshot{sub1, sub2}
	mega.RSVPs = []model.RSVP{{UserID: 5, CreatedAt: day(1), CheckedIn: true, CheckedInAt: &checkIn}}
	mega.Registrations = []model.Registration{{UserID: 5, CreatedAt: day(2)}}
	mega.Feedbacks = []model.Feedback{{UserID: 6, Content: strPtr("boring keynote"), CreatedAt: at(11, 10)}}

	loads := []SubEventLoad{
		{EventID: 2, MaxAttendees: 10, Registrations: 4},
		{EventID: 3, MaxAttendees: 10, Registrations: 1},
	}
	r := BuildReport(&mega, loads, ReportOptions{Now: at(13, 0)})

	if !r.Event.IsMega || r.Event.SubEventCount != 2 {
		t.Errorf("event = %+v, want mega with 2 sub-events", r.Event)
	}
	if r.Counts.TotalFeedback != 2 {
		t.Errorf("TotalFeedback = %d, want 2 (own + child)", r.Counts.TotalFeedback)
	}
	if r.Rates.RegistrationRate != 25 {
		t.Errorf("RegistrationRate = %d, want 25", r.Rates.RegistrationRate)
	}
	if r.Rates.EngagementRate != 100 {
		t.Errorf("EngagementRate = %d, want 100", r.Rates.EngagementRate)
	}
	if r.Sentiment.Positive != 50 || r.Sentiment.Negative != 50 {
		t.Errorf("Sentiment = %+v, want 50/50", r.Sentiment)
	}
	if r.Rates.SatisfactionScore == nil || *r.Rates.SatisfactionScore != 3 {
		t.Errorf("SatisfactionScore = %v, want 3", r.Rates.SatisfactionScore)
	}
	if r.Funnel.Completed != 1 || r.Funnel.Feedback != 2 {
		t.Errorf("Funnel = %+v, want completed 1 feedback 2", r.Funnel)
	}
	if len(r.Participants) != 1 || !r.Participants[0].RegistrationDate.Equal(day(1)) {
		t.Errorf("Participants = %+v, want one merged entry dated Jan 1", r.Participants)
	}
}

func TestReport_JSONFieldNames(t *testing.T) {
	event := scheduled(1, at(10, 0), at(11, 0))
	event.Parent = &model.EventRef{ID: 9, Title: "Parent"}
	r := BuildReport(&event, nil, ReportOptions{Now: at(12, 0)})

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{
		"event", "participants", "rejectedParticipants", "counts", "feedbackPerHour",
		"attendanceVsFeedback", "topEmojis", "topKeywords", "sentiment",
		"feedbackTypes", "funnel", "heatmaps", "rates",
	} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	ev := doc["event"].(map[string]any)
	if ev["isSubEvent"] != true {
		t.Errorf("event.isSubEvent = %v, want true", ev["isSubEvent"])
	}
	if _, ok := ev["parentEvent"]; !ok {
		t.Error("missing event.parentEvent")
	}
}
