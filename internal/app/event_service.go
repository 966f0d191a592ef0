package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/ctxutil"
	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/primary"
	"github.com/example/praetor/internal/ports/secondary"
)

// MaxEventLimit caps a single event query.
const MaxEventLimit = 1000

// EventServiceImpl implements the EventService interface.
type EventServiceImpl struct {
	eventRepo    secondary.EventRepository
	events       secondary.EventWriter
	clock        clock.Clock
	defaultLimit int
}

// NewEventService creates a new EventService with injected dependencies.
// defaultLimit applies when a query names no limit.
func NewEventService(eventRepo secondary.EventRepository, events secondary.EventWriter, clk clock.Clock, defaultLimit int) *EventServiceImpl {
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	return &EventServiceImpl{
		eventRepo:    eventRepo,
		events:       events,
		clock:        clk,
		defaultLimit: defaultLimit,
	}
}

// ListEvents retrieves events matching the given filters, newest first.
// Since and Until accept any ISO-8601 form and are normalized to the
// configured zone before comparison.
func (s *EventServiceImpl) ListEvents(ctx context.Context, filters primary.EventFilters) ([]*primary.Event, error) {
	problems := &errs.ValidationError{}
	since, err := s.normalizeBound(filters.Since)
	if err != nil {
		problems.Add("since", err.Error())
	}
	until, err := s.normalizeBound(filters.Until)
	if err != nil {
		problems.Add("until", err.Error())
	}
	if filters.Limit < 0 || filters.Limit > MaxEventLimit {
		problems.Add("limit", fmt.Sprintf("limit must be between 1 and %d", MaxEventLimit))
	}
	if err := problems.OrNil(); err != nil {
		return nil, err
	}

	limit := filters.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}

	records, err := s.eventRepo.List(ctx, secondary.EventFilters{
		EventName: filters.EventName,
		Source:    filters.Source,
		AgentName: filters.AgentName,
		MissionID: filters.MissionID,
		HotLeadID: filters.HotLeadID,
		ThreadID:  filters.ThreadID,
		Since:     since,
		Until:     until,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	entries := make([]*primary.Event, len(records))
	for i, r := range records {
		entries[i] = recordToEvent(r)
	}
	return entries, nil
}

// RecordEvent appends an externally reported event such as a frontend error.
func (s *EventServiceImpl) RecordEvent(ctx context.Context, req primary.RecordEventRequest) (*primary.Event, error) {
	name := strings.TrimSpace(req.EventName)
	if name == "" {
		return nil, errs.Validation("event_name", "event_name is required")
	}
	source := req.Source
	if source == "" {
		source = ctxutil.SourceFrontend
	}

	record := &secondary.EventRecord{
		EventName: name,
		Source:    source,
		AgentName: req.AgentName,
		MissionID: req.MissionID,
		HotLeadID: req.HotLeadID,
		ThreadID:  req.ThreadID,
		Payload:   req.Payload,
	}
	if err := s.events.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record event: %w", err)
	}
	return recordToEvent(record), nil
}

// PruneEvents deletes events older than the specified number of days.
func (s *EventServiceImpl) PruneEvents(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays <= 0 {
		return 0, errs.Validation("days", "days must be positive")
	}
	cutoff := clock.Format(s.clock.Now().AddDate(0, 0, -olderThanDays))
	count, err := s.eventRepo.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	return count, nil
}

// Helper methods

func (s *EventServiceImpl) normalizeBound(ts string) (string, error) {
	if strings.TrimSpace(ts) == "" {
		return "", nil
	}
	return clock.Normalize(s.clock, ts)
}

func recordToEvent(r *secondary.EventRecord) *primary.Event {
	payload := r.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return &primary.Event{
		ID:        r.ID,
		EventName: r.EventName,
		Source:    r.Source,
		AgentName: r.AgentName,
		MissionID: r.MissionID,
		HotLeadID: r.HotLeadID,
		ThreadID:  r.ThreadID,
		Payload:   payload,
		Timestamp: r.Timestamp,
	}
}

// Ensure EventServiceImpl implements the interface
var _ primary.EventService = (*EventServiceImpl)(nil)
