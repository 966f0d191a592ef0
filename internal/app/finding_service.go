package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/core/event"
	corefinding "github.com/example/praetor/internal/core/finding"
	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/primary"
	"github.com/example/praetor/internal/ports/secondary"
)

// FindingServiceImpl implements the FindingService interface.
type FindingServiceImpl struct {
	findingRepo secondary.FindingRepository
	threadRepo  secondary.ThreadRepository
	messageRepo secondary.MessageRepository
	events      secondary.EventWriter
	clock       clock.Clock
}

// NewFindingService creates a new FindingService with injected dependencies.
func NewFindingService(
	findingRepo secondary.FindingRepository,
	threadRepo secondary.ThreadRepository,
	messageRepo secondary.MessageRepository,
	events secondary.EventWriter,
	clk clock.Clock,
) *FindingServiceImpl {
	return &FindingServiceImpl{
		findingRepo: findingRepo,
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		events:      events,
		clock:       clk,
	}
}

// ListFindings lists findings, newest first.
func (s *FindingServiceImpl) ListFindings(ctx context.Context, filters primary.FindingFilters) ([]*primary.Finding, error) {
	records, err := s.findingRepo.List(ctx, secondary.FindingFilters{MissionID: filters.MissionID, Limit: filters.Limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list findings: %w", err)
	}
	out := make([]*primary.Finding, len(records))
	for i, r := range records {
		out[i] = recordToFinding(r)
	}
	return out, nil
}

// GetFinding retrieves a finding by ID.
func (s *FindingServiceImpl) GetFinding(ctx context.Context, id string) (*primary.Finding, error) {
	record, err := s.findingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToFinding(record), nil
}

// UpdateFinding patches a finding.
func (s *FindingServiceImpl) UpdateFinding(ctx context.Context, req primary.UpdateFindingRequest) (*primary.Finding, error) {
	record, err := s.findingRepo.GetByID(ctx, req.FindingID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		record.Title = *req.Title
	}
	if req.BodyMarkdown != nil {
		record.BodyMarkdown = *req.BodyMarkdown
	}
	if req.Highlights != nil {
		record.Highlights = *req.Highlights
	}
	if req.Metrics != nil {
		record.Metrics = *req.Metrics
	}
	record.UpdatedAt = clock.Stamp(s.clock)

	if err := s.findingRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update finding: %w", err)
	}
	return recordToFinding(record), nil
}

// SnapshotFindings records the last turns of a mission-linked thread as a finding.
func (s *FindingServiceImpl) SnapshotFindings(ctx context.Context, threadID string) (*primary.Finding, error) {
	th, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if th.MissionID == "" {
		return nil, errs.Validation("thread_id", "thread is not linked to a mission")
	}

	messages, _, err := s.messageRepo.ListWindow(ctx, th.ThreadID, corefinding.SnapshotTurns, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load recent turns: %w", err)
	}
	turns := make([]corefinding.Turn, len(messages))
	for i, m := range messages {
		turns[i] = corefinding.Turn{Timestamp: m.CreatedAt, Role: m.Role, Text: m.Text}
	}

	stamp := clock.Stamp(s.clock)
	title, body := corefinding.BuildSnapshot(corefinding.ThreadSummary{
		Title:    th.Title,
		Goal:     th.Goal,
		Stage:    th.Stage,
		Synopsis: th.Synopsis,
	}, turns, stamp)

	record := &secondary.FindingRecord{
		ID:           uuid.NewString(),
		MissionID:    th.MissionID,
		ThreadID:     th.ThreadID,
		Title:        title,
		BodyMarkdown: body,
		Highlights:   []string{},
		Metrics:      map[string]any{},
		CreatedAt:    stamp,
		UpdatedAt:    stamp,
	}
	if err := s.findingRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create finding: %w", err)
	}

	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.FindingsCreated,
		MissionID: th.MissionID,
		ThreadID:  th.ThreadID,
		Payload:   map[string]any{"finding_id": record.ID, "turns": len(turns)},
	})
	return recordToFinding(record), nil
}

// ExportFinding renders a finding as a markdown or csv download.
func (s *FindingServiceImpl) ExportFinding(ctx context.Context, id, format string) (*primary.FindingExport, error) {
	record, err := s.findingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	f := corefinding.ParseFormat(format)
	rendered, err := corefinding.Render(corefinding.ExportInput{
		ID:           record.ID,
		MissionID:    record.MissionID,
		ThreadID:     record.ThreadID,
		Title:        record.Title,
		BodyMarkdown: record.BodyMarkdown,
		UpdatedAt:    record.UpdatedAt,
	}, f)
	if err != nil {
		return nil, err
	}

	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.FindingsExported,
		MissionID: record.MissionID,
		ThreadID:  record.ThreadID,
		Payload:   map[string]any{"finding_id": record.ID, "format": string(f)},
	})
	return &primary.FindingExport{
		Filename:    rendered.Filename,
		ContentType: rendered.ContentType,
		Content:     rendered.Content,
	}, nil
}

func recordToFinding(r *secondary.FindingRecord) *primary.Finding {
	highlights := r.Highlights
	if highlights == nil {
		highlights = []string{}
	}
	metrics := r.Metrics
	if metrics == nil {
		metrics = map[string]any{}
	}
	return &primary.Finding{
		ID:           r.ID,
		MissionID:    r.MissionID,
		ThreadID:     r.ThreadID,
		Title:        r.Title,
		BodyMarkdown: r.BodyMarkdown,
		Highlights:   highlights,
		Metrics:      metrics,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Ensure FindingServiceImpl implements the interface
var _ primary.FindingService = (*FindingServiceImpl)(nil)
