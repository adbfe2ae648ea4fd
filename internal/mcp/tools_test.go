package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/eventwatch/internal/analyzer"
	"github.com/blackwell-systems/eventwatch/internal/report"
	"github.com/blackwell-systems/eventwatch/internal/store"
)

type fakeAnalytics struct {
	gotID        string
	gotRequester int64
}

func (f *fakeAnalytics) GetAnalytics(_ context.Context, eventID string, requesterID int64) (*analyzer.Report, error) {
	f.gotID, f.gotRequester = eventID, requesterID
	if requesterID != 1 {
		return nil, report.ErrForbidden
	}
	score := 4.2
	return &analyzer.Report{
		Event:       analyzer.EventSummary{ID: 9, Title: "Meetup"},
		Counts:      analyzer.Counts{TotalFeedback: 3},
		Sentiment:   analyzer.Sentiment{Positive: 67, Neutral: 33},
		TopKeywords: []analyzer.KeywordCount{{Word: "venue", Count: 2}},
		Rates:       analyzer.Rates{SatisfactionScore: &score},
	}, nil
}

type fakeLister struct {
	events []store.EventRow
}

func (f fakeLister) ListEvents(context.Context) ([]store.EventRow, error) {
	return f.events, nil
}

// callTool invokes the named tool handler and returns the typed result.
func callTool(s *Server, name string, args json.RawMessage) (any, error) {
	for _, tool := range s.tools {
		if tool.Name == name {
			return tool.Handler(context.Background(), args)
		}
	}
	return nil, nil
}

func TestAddTools_Registered(t *testing.T) {
	s := NewServer(&fakeAnalytics{}, fakeLister{}, 1)
	var names []string
	for _, tool := range s.tools {
		names = append(names, tool.Name)
		assert.True(t, json.Valid(tool.InputSchema), "schema for %s", tool.Name)
	}
	assert.Equal(t, []string{"list_events", "get_event_analytics", "get_feedback_summary"}, names)
}

func TestListEvents(t *testing.T) {
	start := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	s := NewServer(&fakeAnalytics{}, fakeLister{events: []store.EventRow{{ID: 1, Title: "Hack Week", StartTime: &start}}}, 1)

	got, err := callTool(s, "list_events", json.RawMessage(`{}`))
	require.NoError(t, err)
	result := got.(EventListResult)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "Hack Week", result.Events[0].Title)

	empty := NewServer(&fakeAnalytics{}, fakeLister{}, 1)
	got, err = callTool(empty, "list_events", nil)
	require.NoError(t, err)
	assert.NotNil(t, got.(EventListResult).Events)
}

func TestGetEventAnalytics_ActsAsRequester(t *testing.T) {
	fake := &fakeAnalytics{}
	s := NewServer(fake, fakeLister{}, 1)

	got, err := callTool(s, "get_event_analytics", json.RawMessage(`{"event_id":9}`))
	require.NoError(t, err)
	assert.Equal(t, "9", fake.gotID)
	assert.Equal(t, int64(1), fake.gotRequester)
	assert.Equal(t, "Meetup", got.(*analyzer.Report).Event.Title)
}

func TestGetEventAnalytics_Errors(t *testing.T) {
	s := NewServer(&fakeAnalytics{}, fakeLister{}, 2)

	_, err := callTool(s, "get_event_analytics", json.RawMessage(`{"event_id":9}`))
	assert.ErrorIs(t, err, report.ErrForbidden)

	_, err = callTool(s, "get_event_analytics", json.RawMessage(`{}`))
	assert.EqualError(t, err, "event_id is required")

	_, err = callTool(s, "get_event_analytics", json.RawMessage(`{"event_id":"nine"}`))
	assert.Error(t, err)
}

func TestGetFeedbackSummary(t *testing.T) {
	s := NewServer(&fakeAnalytics{}, fakeLister{}, 1)

	got, err := callTool(s, "get_feedback_summary", json.RawMessage(`{"event_id":9}`))
	require.NoError(t, err)
	summary := got.(FeedbackSummaryResult)
	assert.Equal(t, int64(9), summary.EventID)
	assert.Equal(t, 3, summary.TotalFeedback)
	assert.Equal(t, 67, summary.Sentiment.Positive)
	require.NotNil(t, summary.SatisfactionScore)
	assert.InDelta(t, 4.2, *summary.SatisfactionScore, 1e-9)
	assert.Equal(t, "venue", summary.TopKeywords[0].Word)
}
