package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/blackwell-systems/eventwatch/internal/analyzer"
	"github.com/blackwell-systems/eventwatch/internal/store"
)

// EventListResult holds the stored events.
type EventListResult struct {
	Events []store.EventRow `json:"events"`
}

// FeedbackSummaryResult is the feedback slice of a report.
type FeedbackSummaryResult struct {
	EventID           int64                   `json:"eventId"`
	TotalFeedback     int                     `json:"totalFeedback"`
	Sentiment         analyzer.Sentiment      `json:"sentiment"`
	SatisfactionScore *float64                `json:"satisfactionScore"`
	TopKeywords       []analyzer.KeywordCount `json:"topKeywords"`
	TopEmojis         []analyzer.EmojiCount   `json:"topEmojis"`
}

var (
	noArgsSchema  = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)
	eventIDSchema = json.RawMessage(`{"type":"object","properties":{"event_id":{"type":"integer","description":"Event id"}},"required":["event_id"],"additionalProperties":false}`)
)

// addTools registers all MCP tool handlers on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "list_events",
		Description: "Stored events with host, schedule, and mega/sub-event structure.",
		InputSchema: noArgsSchema,
		Handler:     s.handleListEvents,
	})
	s.registerTool(toolDef{
		Name:        "get_event_analytics",
		Description: "Full host analytics report for an event: roster, series, sentiment, heatmaps, funnel and rates.",
		InputSchema: eventIDSchema,
		Handler:     s.handleGetEventAnalytics,
	})
	s.registerTool(toolDef{
		Name:        "get_feedback_summary",
		Description: "Sentiment split, satisfaction score, top keywords and top emojis for an event.",
		InputSchema: eventIDSchema,
		Handler:     s.handleGetFeedbackSummary,
	})
}

func (s *Server) handleListEvents(ctx context.Context, _ json.RawMessage) (any, error) {
	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []store.EventRow{}
	}
	return EventListResult{Events: events}, nil
}

func (s *Server) handleGetEventAnalytics(ctx context.Context, args json.RawMessage) (any, error) {
	return s.report(ctx, args)
}

func (s *Server) handleGetFeedbackSummary(ctx context.Context, args json.RawMessage) (any, error) {
	rep, err := s.report(ctx, args)
	if err != nil {
		return nil, err
	}
	return FeedbackSummaryResult{
		EventID:           rep.Event.ID,
		TotalFeedback:     rep.Counts.TotalFeedback,
		Sentiment:         rep.Sentiment,
		SatisfactionScore: rep.Rates.SatisfactionScore,
		TopKeywords:       rep.TopKeywords,
		TopEmojis:         rep.TopEmojis,
	}, nil
}

func (s *Server) report(ctx context.Context, args json.RawMessage) (*analyzer.Report, error) {
	var params struct {
		EventID *int64 `json:"event_id"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if params.EventID == nil {
		return nil, errors.New("event_id is required")
	}
	return s.analytics.GetAnalytics(ctx, strconv.FormatInt(*params.EventID, 10), s.requester)
}
