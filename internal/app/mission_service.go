package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/core/event"
	coremission "github.com/example/praetor/internal/core/mission"
	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/primary"
	"github.com/example/praetor/internal/ports/secondary"
)

// MissionServiceImpl implements the MissionService interface.
type MissionServiceImpl struct {
	missionRepo secondary.MissionRepository
	events      secondary.EventWriter
	clock       clock.Clock
}

// NewMissionService creates a new MissionService with injected dependencies.
func NewMissionService(missionRepo secondary.MissionRepository, events secondary.EventWriter, clk clock.Clock) *MissionServiceImpl {
	return &MissionServiceImpl{
		missionRepo: missionRepo,
		events:      events,
		clock:       clk,
	}
}

// CreateMission creates a new draft mission.
func (s *MissionServiceImpl) CreateMission(ctx context.Context, req primary.CreateMissionRequest) (*primary.CreateMissionResponse, error) {
	// 1. Validate
	if problems := coremission.ValidateCreate(coremission.CreateContext{
		Title:     req.Title,
		Objective: req.Objective,
		Posture:   coremission.Posture(req.Posture),
	}); problems != nil {
		return nil, &errs.ValidationError{Fields: problems}
	}

	posture := coremission.Posture(req.Posture)
	if posture == "" {
		posture = coremission.DefaultPosture
	}

	// 2. Build the record; legacy insights are mirrored into the rich form
	stamp := clock.Stamp(s.clock)
	record := &secondary.MissionRecord{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(req.Title),
		Objective:      strings.TrimSpace(req.Objective),
		Posture:        string(posture),
		State:          string(coremission.InitialState()),
		Insights:       nonNilStrings(req.Insights),
		InsightsRich:   insightsToRecords(coremission.MigrateInsights(req.Insights, stamp)),
		AgentsAssigned: nonNilStrings(req.AgentsAssigned),
		CreatedAt:      stamp,
		UpdatedAt:      stamp,
	}

	if err := s.missionRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create mission: %w", err)
	}

	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.MissionCreated,
		MissionID: record.ID,
		Payload:   map[string]any{"title": record.Title, "posture": record.Posture},
	})

	return &primary.CreateMissionResponse{
		MissionID: record.ID,
		Mission:   recordToMission(record),
	}, nil
}

// GetMission retrieves a mission, lifting legacy insights into insights_rich once.
func (s *MissionServiceImpl) GetMission(ctx context.Context, missionID string) (*primary.Mission, error) {
	record, err := s.missionRepo.GetByID(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if err := s.migrateInsights(ctx, record); err != nil {
		return nil, err
	}
	return recordToMission(record), nil
}

// ListMissions lists missions, most recently updated first.
func (s *MissionServiceImpl) ListMissions(ctx context.Context, filters primary.MissionFilters) ([]*primary.Mission, error) {
	if filters.State != "" && !coremission.IsValidState(coremission.State(filters.State)) {
		return nil, errs.Validation("state", fmt.Sprintf("unknown state %q", filters.State))
	}

	records, err := s.missionRepo.List(ctx, secondary.MissionFilters{State: filters.State, Limit: filters.Limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}

	missions := make([]*primary.Mission, len(records))
	for i, r := range records {
		if err := s.migrateInsights(ctx, r); err != nil {
			return nil, err
		}
		missions[i] = recordToMission(r)
	}
	return missions, nil
}

// UpdateMission patches the given fields. State is changed only by SetState.
func (s *MissionServiceImpl) UpdateMission(ctx context.Context, req primary.UpdateMissionRequest) (*primary.Mission, error) {
	record, err := s.missionRepo.GetByID(ctx, req.MissionID)
	if err != nil {
		return nil, err
	}

	// 1. Validate every provided field before applying any
	problems := &errs.ValidationError{}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		problems.Add("title", "title cannot be empty")
	}
	if req.Objective != nil && strings.TrimSpace(*req.Objective) == "" {
		problems.Add("objective", "objective cannot be empty")
	}
	if req.Posture != nil && !coremission.IsValidPosture(coremission.Posture(*req.Posture)) {
		problems.Add("posture", fmt.Sprintf("unknown posture %q", *req.Posture))
	}
	if req.Counters != nil && (req.Counters.ForumsFound < 0 || req.Counters.ProspectsAdded < 0 || req.Counters.HotLeads < 0) {
		problems.Add("counters", "counters cannot be negative")
	}
	var rich []secondary.InsightRecord
	if req.InsightsRich != nil {
		rich = make([]secondary.InsightRecord, len(*req.InsightsRich))
		for i, in := range *req.InsightsRich {
			ts := clock.Stamp(s.clock)
			if in.Timestamp != "" {
				normalized, err := clock.Normalize(s.clock, in.Timestamp)
				if err != nil {
					problems.Add("insights_rich", err.Error())
					break
				}
				ts = normalized
			}
			rich[i] = secondary.InsightRecord{Text: in.Text, Timestamp: ts}
		}
	}
	if err := problems.OrNil(); err != nil {
		return nil, err
	}

	// 2. Apply
	var changed []string
	if req.Title != nil {
		record.Title = strings.TrimSpace(*req.Title)
		changed = append(changed, "title")
	}
	if req.Objective != nil {
		record.Objective = strings.TrimSpace(*req.Objective)
		changed = append(changed, "objective")
	}
	if req.Posture != nil {
		record.Posture = *req.Posture
		changed = append(changed, "posture")
	}
	if req.Counters != nil {
		record.ForumsFound = req.Counters.ForumsFound
		record.ProspectsAdded = req.Counters.ProspectsAdded
		record.HotLeads = req.Counters.HotLeads
		changed = append(changed, "counters")
	}
	if req.Insights != nil {
		record.Insights = nonNilStrings(*req.Insights)
		changed = append(changed, "insights")
	}
	if req.InsightsRich != nil {
		record.InsightsRich = rich
		changed = append(changed, "insights_rich")
	}
	if req.AgentsAssigned != nil {
		record.AgentsAssigned = nonNilStrings(*req.AgentsAssigned)
		changed = append(changed, "agents_assigned")
	}
	record.UpdatedAt = clock.Stamp(s.clock)

	if err := s.missionRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update mission: %w", err)
	}

	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.MissionUpdated,
		MissionID: record.ID,
		Payload:   map[string]any{"fields": changed},
	})

	return s.GetMission(ctx, record.ID)
}

// SetState drives the lifecycle state machine. The check-then-set is a
// conditional update on the stored state.
func (s *MissionServiceImpl) SetState(ctx context.Context, req primary.SetStateRequest) (*primary.Mission, error) {
	// 1. Fetch mission
	record, err := s.missionRepo.GetByID(ctx, req.MissionID)
	if err != nil {
		return nil, err
	}

	// 2. Resolve the requested target (aliases included); anything outside
	// the transition table is an invalid transition from the current state
	target, ok := coremission.ParseTarget(strings.ToLower(strings.TrimSpace(req.State)))
	if !ok {
		return nil, errs.InvalidTransition(record.State, req.State,
			fmt.Sprintf("cannot move a %s mission to %q", record.State, req.State))
	}

	// 3. Guard check
	transitionCtx := coremission.TransitionContext{
		MissionID:      record.ID,
		Current:        coremission.State(record.State),
		PreviousActive: coremission.State(record.PreviousActiveState),
	}
	if guard := coremission.CanTransition(transitionCtx, target); !guard.Allowed {
		return nil, errs.InvalidTransition(record.State, req.State, guard.Reason)
	}

	// 4. Apply conditionally; losing a race reports the state that won
	result := coremission.ApplyStateTransition(transitionCtx, target)
	applied, err := s.missionRepo.UpdateState(ctx, record.ID, record.State,
		string(result.NewState), string(result.PreviousActiveState), clock.Stamp(s.clock))
	if err != nil {
		return nil, fmt.Errorf("failed to update mission state: %w", err)
	}
	if !applied {
		current, err := s.missionRepo.GetByID(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		return nil, errs.InvalidTransition(current.State, req.State,
			fmt.Sprintf("mission changed to %s while moving to %s", current.State, req.State))
	}

	// 5. Record the lifecycle event
	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: result.EventName,
		MissionID: record.ID,
		Payload:   map[string]any{"from": record.State, "to": string(result.NewState)},
	})

	return s.GetMission(ctx, record.ID)
}

// DuplicateMission creates a fresh draft copied from an existing mission.
func (s *MissionServiceImpl) DuplicateMission(ctx context.Context, missionID string) (*primary.CreateMissionResponse, error) {
	source, err := s.missionRepo.GetByID(ctx, missionID)
	if err != nil {
		return nil, err
	}

	stamp := clock.Stamp(s.clock)
	record := &secondary.MissionRecord{
		ID:             uuid.NewString(),
		Title:          source.Title,
		Objective:      source.Objective,
		Posture:        source.Posture,
		State:          string(coremission.InitialState()),
		Insights:       []string{},
		InsightsRich:   []secondary.InsightRecord{},
		AgentsAssigned: nonNilStrings(source.AgentsAssigned),
		CreatedAt:      stamp,
		UpdatedAt:      stamp,
	}
	if err := s.missionRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to duplicate mission: %w", err)
	}

	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.MissionDuplicated,
		MissionID: record.ID,
		Payload:   map[string]any{"duplicated_from": source.ID},
	})

	return &primary.CreateMissionResponse{
		MissionID: record.ID,
		Mission:   recordToMission(record),
	}, nil
}

// Helper methods

// migrateInsights lifts legacy insights stamped with updated_at and
// persists them without bumping updated_at.
func (s *MissionServiceImpl) migrateInsights(ctx context.Context, record *secondary.MissionRecord) error {
	if !coremission.NeedsInsightsMigration(record.Insights, recordsToInsights(record.InsightsRich)) {
		return nil
	}
	rich := insightsToRecords(coremission.MigrateInsights(record.Insights, record.UpdatedAt))
	if err := s.missionRepo.SaveInsightsRich(ctx, record.ID, rich); err != nil {
		return fmt.Errorf("failed to migrate insights: %w", err)
	}
	record.InsightsRich = rich
	return nil
}

func insightsToRecords(in []coremission.Insight) []secondary.InsightRecord {
	out := make([]secondary.InsightRecord, len(in))
	for i, v := range in {
		out[i] = secondary.InsightRecord{Text: v.Text, Timestamp: v.Timestamp}
	}
	return out
}

func recordsToInsights(in []secondary.InsightRecord) []coremission.Insight {
	out := make([]coremission.Insight, len(in))
	for i, v := range in {
		out[i] = coremission.Insight{Text: v.Text, Timestamp: v.Timestamp}
	}
	return out
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func recordToMission(r *secondary.MissionRecord) *primary.Mission {
	rich := make([]primary.Insight, len(r.InsightsRich))
	for i, v := range r.InsightsRich {
		rich[i] = primary.Insight{Text: v.Text, Timestamp: v.Timestamp}
	}
	return &primary.Mission{
		ID:                  r.ID,
		Title:               r.Title,
		Objective:           r.Objective,
		Posture:             r.Posture,
		State:               r.State,
		PreviousActiveState: optionalString(r.PreviousActiveState),
		Counters: primary.Counters{
			ForumsFound:    r.ForumsFound,
			ProspectsAdded: r.ProspectsAdded,
			HotLeads:       r.HotLeads,
		},
		Insights:       nonNilStrings(r.Insights),
		InsightsRich:   rich,
		AgentsAssigned: nonNilStrings(r.AgentsAssigned),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// Ensure MissionServiceImpl implements the interface
var _ primary.MissionService = (*MissionServiceImpl)(nil)
