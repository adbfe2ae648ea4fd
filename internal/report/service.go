// Package report is the boundary of the analytics engine: it validates an
// analytics request, loads the event snapshot, and runs the pure analyzer
// pipeline.
package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/eventwatch/internal/analyzer"
	"github.com/blackwell-systems/eventwatch/internal/model"
)

// Request-level failures. Callers classify errors with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid event id")
	ErrNotFound           = errors.New("event not found")
	ErrForbidden          = errors.New("only the event host can view analytics")
	ErrPreconditionFailed = errors.New("event has no schedule set")
	ErrInternal           = errors.New("internal error")
)

// Source is the read-only data access the engine depends on.
type Source interface {
	// LoadEventSnapshot returns the event with its records, sub-events and
	// parent reference, or nil if no such event exists.
	LoadEventSnapshot(ctx context.Context, id int64) (*model.EventSnapshot, error)

	// CountRegistrations returns the number of registrations for an event.
	CountRegistrations(ctx context.Context, eventID int64) (int, error)
}

// Options configures a Service.
type Options struct {
	Location    *time.Location
	TopKeywords int
	TopEmojis   int

	// Now defaults to time.Now.
	Now func() time.Time
}

// Service computes analytics reports.
type Service struct {
	src  Source
	opts Options
}

// NewService returns a Service reading from src.
func NewService(src Source, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{src: src, opts: opts}
}

// ParseEventID parses a path or argument value into a positive event id.
func ParseEventID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, raw)
	}
	return id, nil
}

// GetAnalytics returns the analytics report for an event on behalf of the
// requesting user. Preconditions are checked before any computation: the id
// must parse, the event must exist, the requester must be the host, and the
// event must have a start and end time. Reports are all-or-nothing.
func (s *Service) GetAnalytics(ctx context.Context, eventID string, requesterID int64) (*analyzer.Report, error) {
	id, err := ParseEventID(eventID)
	if err != nil {
		return nil, err
	}

	event, err := s.src.LoadEventSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: loading event %d: %v", ErrInternal, id, err)
	}
	if event == nil {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if event.HostID != requesterID {
		return nil, ErrForbidden
	}
	if !event.HasSchedule() {
		return nil, fmt.Errorf("%w: event %d", ErrPreconditionFailed, id)
	}

	var loads []analyzer.SubEventLoad
	if len(event.SubEvents) > 0 {
		loads, err = s.subEventLoads(ctx, event.SubEvents)
		if err != nil {
			return nil, fmt.Errorf("%w: counting sub-event registrations: %v", ErrInternal, err)
		}
	}

	return s.build(event, loads)
}

// subEventLoads fetches every sub-event's registration count concurrently.
// Each goroutine writes only its own slot.
func (s *Service) subEventLoads(ctx context.Context, subs []model.EventSnapshot) ([]analyzer.SubEventLoad, error) {
	loads := make([]analyzer.SubEventLoad, len(subs))
	g, gctx := errgroup.WithContext(ctx)
	for i, sub := range subs {
		loads[i] = analyzer.SubEventLoad{EventID: sub.ID, MaxAttendees: sub.MaxAttendees}
		g.Go(func() error {
			n, err := s.src.CountRegistrations(gctx, sub.ID)
			if err != nil {
				return fmt.Errorf("sub-event %d: %w", sub.ID, err)
			}
			loads[i].Registrations = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return loads, nil
}

func (s *Service) build(event *model.EventSnapshot, loads []analyzer.SubEventLoad) (rep *analyzer.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			rep = nil
			err = fmt.Errorf("%w: building report for event %d: %v", ErrInternal, event.ID, r)
		}
	}()

	built := analyzer.BuildReport(event, loads, analyzer.ReportOptions{
		Now:         s.opts.Now(),
		Location:    s.opts.Location,
		TopKeywords: s.opts.TopKeywords,
		TopEmojis:   s.opts.TopEmojis,
	})
	return &built, nil
}
