package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/core/event"
	coreforum "github.com/example/praetor/internal/core/forum"
	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/primary"
	"github.com/example/praetor/internal/ports/secondary"
)

// ForumServiceImpl implements the ForumService interface.
type ForumServiceImpl struct {
	forumRepo secondary.ForumRepository
	checker   secondary.LinkChecker
	events    secondary.EventWriter
	clock     clock.Clock
}

// NewForumService creates a new ForumService with injected dependencies.
func NewForumService(forumRepo secondary.ForumRepository, checker secondary.LinkChecker, events secondary.EventWriter, clk clock.Clock) *ForumServiceImpl {
	return &ForumServiceImpl{
		forumRepo: forumRepo,
		checker:   checker,
		events:    events,
		clock:     clk,
	}
}

// CreateForum starts tracking a forum.
func (s *ForumServiceImpl) CreateForum(ctx context.Context, req primary.CreateForumRequest) (*primary.Forum, error) {
	if problems := coreforum.ValidateCreate(req.Platform, req.Name, req.URL, req.RuleProfile); problems != nil {
		return nil, &errs.ValidationError{Fields: problems}
	}

	stamp := clock.Stamp(s.clock)
	record := &secondary.ForumRecord{
		ID:             uuid.NewString(),
		Platform:       strings.TrimSpace(req.Platform),
		Name:           strings.TrimSpace(req.Name),
		URL:            strings.TrimSpace(req.URL),
		RuleProfile:    strings.TrimSpace(req.RuleProfile),
		TopicTags:      nonNilStrings(req.TopicTags),
		SizeVelocity:   req.SizeVelocity,
		RelevanceNotes: req.RelevanceNotes,
		LastSeenAt:     req.LastSeenAt,
		CreatedAt:      stamp,
		UpdatedAt:      stamp,
	}
	if err := s.forumRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create forum: %w", err)
	}
	return recordToForum(record), nil
}

// GetForum retrieves a forum by ID.
func (s *ForumServiceImpl) GetForum(ctx context.Context, id string) (*primary.Forum, error) {
	record, err := s.forumRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToForum(record), nil
}

// ListForums lists all tracked forums.
func (s *ForumServiceImpl) ListForums(ctx context.Context) ([]*primary.Forum, error) {
	records, err := s.forumRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list forums: %w", err)
	}
	out := make([]*primary.Forum, len(records))
	for i, r := range records {
		out[i] = recordToForum(r)
	}
	return out, nil
}

// UpdateForum patches a forum.
func (s *ForumServiceImpl) UpdateForum(ctx context.Context, req primary.UpdateForumRequest) (*primary.Forum, error) {
	record, err := s.forumRepo.GetByID(ctx, req.ForumID)
	if err != nil {
		return nil, err
	}

	if req.Platform != nil {
		record.Platform = strings.TrimSpace(*req.Platform)
	}
	if req.Name != nil {
		record.Name = strings.TrimSpace(*req.Name)
	}
	if req.URL != nil {
		record.URL = strings.TrimSpace(*req.URL)
	}
	if req.RuleProfile != nil {
		record.RuleProfile = strings.TrimSpace(*req.RuleProfile)
	}
	if req.TopicTags != nil {
		record.TopicTags = nonNilStrings(*req.TopicTags)
	}
	if req.SizeVelocity != nil {
		record.SizeVelocity = *req.SizeVelocity
	}
	if req.RelevanceNotes != nil {
		record.RelevanceNotes = *req.RelevanceNotes
	}
	if req.LastSeenAt != nil {
		record.LastSeenAt = *req.LastSeenAt
	}
	if problems := coreforum.ValidateCreate(record.Platform, record.Name, record.URL, record.RuleProfile); problems != nil {
		return nil, &errs.ValidationError{Fields: problems}
	}
	record.UpdatedAt = clock.Stamp(s.clock)

	if err := s.forumRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update forum: %w", err)
	}
	return recordToForum(record), nil
}

// CheckLink probes the forum URL and records the outcome.
// A transport failure is recorded as blocked rather than returned.
func (s *ForumServiceImpl) CheckLink(ctx context.Context, id string) (*primary.Forum, error) {
	record, err := s.forumRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	code, err := s.checker.Check(ctx, record.URL)
	if err != nil {
		slog.Debug("link check failed", "forum", record.ID, "url", record.URL, "error", err)
		code = 0
	}
	status := coreforum.ClassifyResponse(code)

	stamp := clock.Stamp(s.clock)
	record.LinkStatus = string(status)
	record.LastCheckedAt = stamp
	record.UpdatedAt = stamp
	if err := s.forumRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record link status: %w", err)
	}

	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.ForumLinkChecked,
		Payload:   map[string]any{"forum_id": record.ID, "status": string(status), "code": code},
	})
	return recordToForum(record), nil
}

func recordToForum(r *secondary.ForumRecord) *primary.Forum {
	return &primary.Forum{
		ID:             r.ID,
		Platform:       r.Platform,
		Name:           r.Name,
		URL:            r.URL,
		RuleProfile:    r.RuleProfile,
		TopicTags:      nonNilStrings(r.TopicTags),
		SizeVelocity:   r.SizeVelocity,
		RelevanceNotes: r.RelevanceNotes,
		LastSeenAt:     r.LastSeenAt,
		LinkStatus:     r.LinkStatus,
		LastCheckedAt:  r.LastCheckedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// Ensure ForumServiceImpl implements the interface
var _ primary.ForumService = (*ForumServiceImpl)(nil)
