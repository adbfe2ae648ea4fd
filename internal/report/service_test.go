package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/eventwatch/internal/model"
)

type fakeSource struct {
	mu       sync.Mutex
	events   map[int64]*model.EventSnapshot
	counts   map[int64]int
	countErr error
	loadErr  error
	counted  []int64
}

func (f *fakeSource) LoadEventSnapshot(_ context.Context, id int64) (*model.EventSnapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.events[id], nil
}

func (f *fakeSource) CountRegistrations(_ context.Context, id int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counted = append(f.counted, id)
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[id], nil
}

var (
	start = time.Date(2026, time.May, 2, 9, 0, 0, 0, time.UTC)
	end   = start.Add(3 * time.Hour)
)

func fixedNow() time.Time { return end.Add(time.Hour) }

func newTestService(src Source) *Service {
	return NewService(src, Options{Now: fixedNow})
}

func TestGetAnalytics_InvalidID(t *testing.T) {
	svc := newTestService(&fakeSource{})
	for _, raw := range []string{"", "abc", "0", "-4", "1.5"} {
		_, err := svc.GetAnalytics(context.Background(), raw, 1)
		assert.ErrorIs(t, err, ErrInvalidInput, "id %q", raw)
	}
}

func TestGetAnalytics_NotFound(t *testing.T) {
	svc := newTestService(&fakeSource{events: map[int64]*model.EventSnapshot{}})
	_, err := svc.GetAnalytics(context.Background(), "42", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAnalytics_Forbidden(t *testing.T) {
	src := &fakeSource{events: map[int64]*model.EventSnapshot{
		1: {ID: 1, HostID: 7, StartTime: &start, EndTime: &end},
	}}
	_, err := newTestService(src).GetAnalytics(context.Background(), "1", 8)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetAnalytics_MissingSchedule(t *testing.T) {
	src := &fakeSource{events: map[int64]*model.EventSnapshot{
		1: {ID: 1, HostID: 7, StartTime: &start},
	}}
	_, err := newTestService(src).GetAnalytics(context.Background(), "1", 7)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestGetAnalytics_LoadFailureIsInternal(t *testing.T) {
	src := &fakeSource{loadErr: errors.New("disk on fire")}
	rep, err := newTestService(src).GetAnalytics(context.Background(), "1", 7)
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetAnalytics_Standalone(t *testing.T) {
	checkIn := start.Add(15 * time.Minute)
	content := "great session"
	src := &fakeSource{events: map[int64]*model.EventSnapshot{
		1: {
			ID: 1, HostID: 7, Title: "Meetup", StartTime: &start, EndTime: &end, MaxAttendees: 4,
			RSVPs:         []model.RSVP{{UserID: 5, CreatedAt: start.Add(-48 * time.Hour), CheckedIn: true, CheckedInAt: &checkIn}},
			Registrations: []model.Registration{{UserID: 5, CreatedAt: start.Add(-24 * time.Hour)}},
			Feedbacks:     []model.Feedback{{UserID: 5, Content: &content, CreatedAt: start.Add(time.Hour)}},
		},
	}}

	rep, err := newTestService(src).GetAnalytics(context.Background(), "1", 7)
	require.NoError(t, err)
	require.Len(t, rep.Participants, 1)
	assert.Equal(t, 25, rep.Rates.RegistrationRate)
	assert.Equal(t, 100, rep.Rates.EngagementRate)
	assert.Equal(t, 1, rep.Funnel.Completed)
	assert.Equal(t, 100, rep.Sentiment.Positive)
	assert.Len(t, rep.FeedbackPerHour, 3)
	assert.Empty(t, src.counted, "standalone events should not count sub-event registrations")
}

func TestGetAnalytics_MegaCountsEverySubEvent(t *testing.T) {
	subs := []model.EventSnapshot{
		{ID: 11, MaxAttendees: 0},
		{ID: 12, MaxAttendees: 0},
		{ID: 13, MaxAttendees: 0},
		{ID: 14, MaxAttendees: 0},
	}
	src := &fakeSource{
		events: map[int64]*model.EventSnapshot{
			1: {ID: 1, HostID: 7, StartTime: &start, EndTime: &end, SubEvents: subs},
		},
		counts: map[int64]int{11: 2, 13: 1},
	}

	rep, err := newTestService(src).GetAnalytics(context.Background(), "1", 7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{11, 12, 13, 14}, src.counted)
	assert.Equal(t, 50, rep.Rates.RegistrationRate)
	assert.True(t, rep.Event.IsMega)
}

func TestGetAnalytics_SubEventCountFailure(t *testing.T) {
	src := &fakeSource{
		events: map[int64]*model.EventSnapshot{
			1: {ID: 1, HostID: 7, StartTime: &start, EndTime: &end, SubEvents: []model.EventSnapshot{{ID: 2}}},
		},
		countErr: errors.New("timeout"),
	}
	rep, err := newTestService(src).GetAnalytics(context.Background(), "1", 7)
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestParseEventID(t *testing.T) {
	id, err := ParseEventID(" 17 ")
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
}
