package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/core/event"
	coreforum "github.com/example/praetor/internal/core/forum"
	corehotlead "github.com/example/praetor/internal/core/hotlead"
	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/primary"
	"github.com/example/praetor/internal/ports/secondary"
)

// HotLeadServiceImpl implements the HotLeadService interface.
type HotLeadServiceImpl struct {
	hotLeadRepo secondary.HotLeadRepository
	missionRepo secondary.MissionRepository
	events      secondary.EventWriter
	clock       clock.Clock
}

// NewHotLeadService creates a new HotLeadService with injected dependencies.
func NewHotLeadService(hotLeadRepo secondary.HotLeadRepository, missionRepo secondary.MissionRepository, events secondary.EventWriter, clk clock.Clock) *HotLeadServiceImpl {
	return &HotLeadServiceImpl{
		hotLeadRepo: hotLeadRepo,
		missionRepo: missionRepo,
		events:      events,
		clock:       clk,
	}
}

// CreateHotLead records a prospect awaiting review and bumps the mission's hot_leads counter.
func (s *HotLeadServiceImpl) CreateHotLead(ctx context.Context, req primary.CreateHotLeadRequest) (*primary.HotLead, error) {
	problems := &errs.ValidationError{}
	if strings.TrimSpace(req.MissionID) == "" {
		problems.Add("mission_id", "mission_id is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		problems.Add("title", "title is required")
	}
	if req.URL != "" {
		if problem := coreforum.ValidateURL(req.URL); problem != "" {
			problems.Add("url", problem)
		}
	}
	if err := problems.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.missionRepo.GetByID(ctx, req.MissionID); err != nil {
		return nil, err
	}

	stamp := clock.Stamp(s.clock)
	record := &secondary.HotLeadRecord{
		ID:          uuid.NewString(),
		MissionID:   req.MissionID,
		ForumID:     req.ForumID,
		Title:       strings.TrimSpace(req.Title),
		URL:         req.URL,
		DraftScript: req.DraftScript,
		Status:      string(corehotlead.InitialStatus()),
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	}
	if err := s.hotLeadRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create hot lead: %w", err)
	}
	if err := s.missionRepo.IncrementCounter(ctx, req.MissionID, secondary.CounterHotLeads, 1, stamp); err != nil {
		return nil, fmt.Errorf("failed to count hot lead: %w", err)
	}

	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.HotLeadCreated,
		HotLeadID: record.ID,
		MissionID: record.MissionID,
		Payload:   map[string]any{"title": record.Title},
	})
	return recordToHotLead(record), nil
}

// GetHotLead retrieves a hot lead by ID.
func (s *HotLeadServiceImpl) GetHotLead(ctx context.Context, id string) (*primary.HotLead, error) {
	record, err := s.hotLeadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToHotLead(record), nil
}

// ListHotLeads lists hot leads with optional filters.
func (s *HotLeadServiceImpl) ListHotLeads(ctx context.Context, filters primary.HotLeadFilters) ([]*primary.HotLead, error) {
	if filters.Status != "" && !corehotlead.IsValidStatus(corehotlead.Status(filters.Status)) {
		return nil, errs.Validation("status", fmt.Sprintf("unknown status %q", filters.Status))
	}
	records, err := s.hotLeadRepo.List(ctx, secondary.HotLeadFilters{MissionID: filters.MissionID, Status: filters.Status})
	if err != nil {
		return nil, fmt.Errorf("failed to list hot leads: %w", err)
	}
	leads := make([]*primary.HotLead, len(records))
	for i, r := range records {
		leads[i] = recordToHotLead(r)
	}
	return leads, nil
}

// UpdateScript replaces the draft outreach script of an unposted lead.
func (s *HotLeadServiceImpl) UpdateScript(ctx context.Context, req primary.UpdateScriptRequest) (*primary.HotLead, error) {
	record, err := s.hotLeadRepo.GetByID(ctx, req.HotLeadID)
	if err != nil {
		return nil, err
	}
	if guard := corehotlead.CanEditScript(corehotlead.Status(record.Status)); !guard.Allowed {
		return nil, errs.InvalidTransition(record.Status, "edit_script", guard.Reason)
	}

	stamp := clock.Stamp(s.clock)
	if err := s.hotLeadRepo.UpdateScript(ctx, record.ID, req.DraftScript, stamp); err != nil {
		return nil, fmt.Errorf("failed to update script: %w", err)
	}

	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.HotLeadScriptEdited,
		HotLeadID: record.ID,
		MissionID: record.MissionID,
		Payload:   map[string]any{"length": len(req.DraftScript)},
	})

	record.DraftScript = req.DraftScript
	record.UpdatedAt = stamp
	return recordToHotLead(record), nil
}

// SetStatus records a review decision.
func (s *HotLeadServiceImpl) SetStatus(ctx context.Context, req primary.SetHotLeadStatusRequest) (*primary.HotLead, error) {
	next := corehotlead.Status(req.Status)
	if !corehotlead.IsValidStatus(next) {
		return nil, errs.Validation("status", fmt.Sprintf("unknown status %q", req.Status))
	}

	record, err := s.hotLeadRepo.GetByID(ctx, req.HotLeadID)
	if err != nil {
		return nil, err
	}
	if guard := corehotlead.CanSetStatus(corehotlead.Status(record.Status), next); !guard.Allowed {
		return nil, errs.InvalidTransition(record.Status, req.Status, guard.Reason)
	}

	stamp := clock.Stamp(s.clock)
	applied, err := s.hotLeadRepo.UpdateStatus(ctx, record.ID, record.Status, req.Status, stamp)
	if err != nil {
		return nil, fmt.Errorf("failed to update hot lead status: %w", err)
	}
	if !applied {
		current, err := s.hotLeadRepo.GetByID(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		return nil, errs.InvalidTransition(current.Status, req.Status,
			fmt.Sprintf("hot lead changed to %s while moving to %s", current.Status, req.Status))
	}

	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.HotLeadStatusChanged,
		HotLeadID: record.ID,
		MissionID: record.MissionID,
		Payload:   map[string]any{"from": record.Status, "to": req.Status},
	})

	record.Status = req.Status
	record.UpdatedAt = stamp
	return recordToHotLead(record), nil
}

func recordToHotLead(r *secondary.HotLeadRecord) *primary.HotLead {
	return &primary.HotLead{
		ID:          r.ID,
		MissionID:   r.MissionID,
		ForumID:     r.ForumID,
		Title:       r.Title,
		URL:         r.URL,
		DraftScript: r.DraftScript,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Ensure HotLeadServiceImpl implements the interface
var _ primary.HotLeadService = (*HotLeadServiceImpl)(nil)
