package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/praetor/internal/clock"
	coreagent "github.com/example/praetor/internal/core/agent"
	"github.com/example/praetor/internal/core/event"
	coremission "github.com/example/praetor/internal/core/mission"
	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/primary"
	"github.com/example/praetor/internal/ports/secondary"
)

// AgentServiceImpl implements the AgentService interface.
// Recovery is evaluated lazily on every read; there is no timer.
type AgentServiceImpl struct {
	agentRepo   secondary.AgentRepository
	missionRepo secondary.MissionRepository
	outreach    secondary.OutreachSignal
	events      secondary.EventWriter
	clock       clock.Clock
}

// NewAgentService creates a new AgentService with injected dependencies.
func NewAgentService(
	agentRepo secondary.AgentRepository,
	missionRepo secondary.MissionRepository,
	outreach secondary.OutreachSignal,
	events secondary.EventWriter,
	clk clock.Clock,
) *AgentServiceImpl {
	return &AgentServiceImpl{
		agentRepo:   agentRepo,
		missionRepo: missionRepo,
		outreach:    outreach,
		events:      events,
		clock:       clk,
	}
}

// GetAgents returns the full roster in display order.
func (s *AgentServiceImpl) GetAgents(ctx context.Context) ([]*primary.Agent, error) {
	// 1. Make sure all three agents exist
	records, err := s.ensureRoster(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Read the live posture facts once for the whole roster
	in, err := s.postureInput(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Apply due recoveries and posture changes
	now := s.clock.Now()
	agents := make([]*primary.Agent, 0, len(records))
	for _, name := range coreagent.Roster() {
		record, err := s.evaluate(ctx, records[name], now, in)
		if err != nil {
			return nil, err
		}
		agents = append(agents, recordToAgent(record))
	}
	return agents, nil
}

// GetAgent returns one agent after the same evaluation as GetAgents.
func (s *AgentServiceImpl) GetAgent(ctx context.Context, name string) (*primary.Agent, error) {
	if !coreagent.IsKnown(name) {
		return nil, &errs.InvalidAgentError{Name: name}
	}

	record, err := s.ensureAgent(ctx, name)
	if err != nil {
		return nil, err
	}

	in, err := s.postureInput(ctx)
	if err != nil {
		return nil, err
	}

	record, err = s.evaluate(ctx, record, s.clock.Now(), in)
	if err != nil {
		return nil, err
	}
	return recordToAgent(record), nil
}

// TriggerError puts an agent into red with a retry scheduled retry_minutes from now.
func (s *AgentServiceImpl) TriggerError(ctx context.Context, req primary.TriggerErrorRequest) (*primary.Agent, error) {
	// 1. Validate before touching anything
	if !coreagent.IsKnown(req.AgentName) {
		return nil, &errs.InvalidAgentError{Name: req.AgentName}
	}
	guard := coreagent.CanTriggerError(coreagent.TriggerErrorContext{
		AgentName:    req.AgentName,
		ErrorCode:    req.ErrorCode,
		RetryMinutes: req.RetryMinutes,
	})
	if !guard.Allowed {
		return nil, errs.Validation(guard.Field, guard.Reason)
	}

	// 2. Load (seeding if missing) to know the status we leave
	record, err := s.ensureAgent(ctx, req.AgentName)
	if err != nil {
		return nil, err
	}

	// 3. Compute and persist the red state
	now := s.clock.Now()
	transition := coreagent.ApplyError(req.ErrorCode, req.RetryMinutes, now)
	nextRetryAt := clock.Format(transition.NextRetryAt)
	if err := s.agentRepo.SetError(ctx, req.AgentName, transition.ErrorState, nextRetryAt, clock.Format(now)); err != nil {
		return nil, fmt.Errorf("failed to set agent error: %w", err)
	}

	// 4. Record both events
	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.AgentErrorDetected,
		AgentName: req.AgentName,
		Payload: map[string]any{
			"error_code":      req.ErrorCode,
			"previous_status": record.StatusLight,
		},
	})
	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.AgentRetryScheduled,
		AgentName: req.AgentName,
		Payload: map[string]any{
			"next_retry_at": nextRetryAt,
			"retry_minutes": req.RetryMinutes,
		},
	})

	return s.reload(ctx, req.AgentName)
}

// AppendActivity appends an entry to the agent's activity stream.
// The status light is not affected.
func (s *AgentServiceImpl) AppendActivity(ctx context.Context, req primary.AppendActivityRequest) (*primary.Agent, error) {
	if !coreagent.IsKnown(req.AgentName) {
		return nil, &errs.InvalidAgentError{Name: req.AgentName}
	}
	who := req.Who
	if who == "" {
		who = req.AgentName
	}
	if guard := coreagent.CanAppendActivity(who, req.Content); !guard.Allowed {
		return nil, errs.Validation(guard.Field, guard.Reason)
	}

	if _, err := s.ensureAgent(ctx, req.AgentName); err != nil {
		return nil, err
	}

	stamp := clock.Stamp(s.clock)
	entry := secondary.ActivityRecord{Who: who, Content: req.Content, Timestamp: stamp, Channel: req.Channel}
	if err := s.agentRepo.AppendActivity(ctx, req.AgentName, entry, stamp); err != nil {
		return nil, fmt.Errorf("failed to append activity: %w", err)
	}

	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.AgentActivityAppended,
		AgentName: req.AgentName,
		Payload:   map[string]any{"who": who, "channel": req.Channel},
	})

	return s.reload(ctx, req.AgentName)
}

// Helper methods

func (s *AgentServiceImpl) ensureRoster(ctx context.Context) (map[string]*secondary.AgentRecord, error) {
	stored, err := s.agentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	byName := make(map[string]*secondary.AgentRecord, len(stored))
	for _, r := range stored {
		byName[r.AgentName] = r
	}

	for _, name := range coreagent.Roster() {
		if _, ok := byName[name]; ok {
			continue
		}
		record, err := s.seed(ctx, name)
		if err != nil {
			return nil, err
		}
		byName[name] = record
	}
	return byName, nil
}

func (s *AgentServiceImpl) ensureAgent(ctx context.Context, name string) (*secondary.AgentRecord, error) {
	record, err := s.agentRepo.GetByName(ctx, name)
	if errors.Is(err, errs.ErrNotFound) {
		return s.seed(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	return record, nil
}

// seed inserts a missing agent with its default light. A concurrent reader
// may win the insert; either way the stored row is returned.
func (s *AgentServiceImpl) seed(ctx context.Context, name string) (*secondary.AgentRecord, error) {
	stamp := clock.Stamp(s.clock)
	_, err := s.agentRepo.Seed(ctx, &secondary.AgentRecord{
		AgentName:      name,
		StatusLight:    string(coreagent.DefaultStatus(name)),
		ActivityStream: []secondary.ActivityRecord{},
		CreatedAt:      stamp,
		UpdatedAt:      stamp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed agent %s: %w", name, err)
	}
	return s.agentRepo.GetByName(ctx, name)
}

func (s *AgentServiceImpl) postureInput(ctx context.Context) (coreagent.PostureInput, error) {
	researchOnly, err := s.missionRepo.HasPostureInStates(ctx, string(coremission.PostureResearchOnly), postureHoldingStates())
	if err != nil {
		return coreagent.PostureInput{}, fmt.Errorf("failed to read mission postures: %w", err)
	}
	outreach, err := s.outreach.HasActiveOutreach(ctx)
	if err != nil {
		return coreagent.PostureInput{}, fmt.Errorf("failed to read outreach: %w", err)
	}
	return coreagent.PostureInput{ResearchOnlyActive: researchOnly, ActiveOutreach: outreach}, nil
}

// evaluate applies a due recovery or posture change to record and returns
// the stored result. Events are appended only by the reader whose
// conditional update changed the row.
func (s *AgentServiceImpl) evaluate(ctx context.Context, record *secondary.AgentRecord, now time.Time, in coreagent.PostureInput) (*secondary.AgentRecord, error) {
	state := coreagent.State{
		Name:       record.AgentName,
		Status:     coreagent.StatusLight(record.StatusLight),
		ErrorState: record.ErrorState,
	}
	if !coreagent.IsValidStatus(state.Status) {
		return nil, fmt.Errorf("agent %s has unknown status_light %q", record.AgentName, record.StatusLight)
	}
	if record.NextRetryAt != "" {
		retryAt, err := clock.Parse(record.NextRetryAt)
		if err != nil {
			return nil, fmt.Errorf("agent %s has unreadable next_retry_at: %w", record.AgentName, err)
		}
		state.NextRetryAt = retryAt
	}

	result := coreagent.Evaluate(state, now, in)
	stamp := clock.Format(now)

	switch result.Action {
	case coreagent.ActionRecover:
		changed, err := s.agentRepo.ClearError(ctx, record.AgentName, record.NextRetryAt, string(result.Status), stamp)
		if err != nil {
			return nil, fmt.Errorf("failed to clear agent error: %w", err)
		}
		if changed {
			appendEvent(ctx, s.events, &secondary.EventRecord{
				EventName: event.AgentErrorCleared,
				AgentName: record.AgentName,
				Payload: map[string]any{
					"error_state":   record.ErrorState,
					"next_retry_at": record.NextRetryAt,
				},
			})
			appendEvent(ctx, s.events, &secondary.EventRecord{
				EventName: event.AgentStatusChanged,
				AgentName: record.AgentName,
				Payload: map[string]any{
					"from":   record.StatusLight,
					"to":     string(result.Status),
					"reason": "retry_elapsed",
				},
			})
		}
		return s.agentRepo.GetByName(ctx, record.AgentName)

	case coreagent.ActionRestatus:
		changed, err := s.agentRepo.SetStatus(ctx, record.AgentName, record.StatusLight, string(result.Status), stamp)
		if err != nil {
			return nil, fmt.Errorf("failed to set agent status: %w", err)
		}
		if changed {
			appendEvent(ctx, s.events, &secondary.EventRecord{
				EventName: event.AgentStatusChanged,
				AgentName: record.AgentName,
				Payload: map[string]any{
					"from":   record.StatusLight,
					"to":     string(result.Status),
					"reason": "posture",
				},
			})
		}
		return s.agentRepo.GetByName(ctx, record.AgentName)
	}

	return record, nil
}

func (s *AgentServiceImpl) reload(ctx context.Context, name string) (*primary.Agent, error) {
	record, err := s.agentRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to reload agent: %w", err)
	}
	return recordToAgent(record), nil
}

// postureHoldingStates lists the mission states whose posture the Legatus rule reads.
func postureHoldingStates() []string {
	var states []string
	for _, st := range []coremission.State{
		coremission.StateDraft, coremission.StateScanning, coremission.StateEngaging,
		coremission.StatePaused, coremission.StateComplete, coremission.StateAborted,
	} {
		if coremission.HoldsPosture(st) {
			states = append(states, string(st))
		}
	}
	return states
}

func recordToAgent(r *secondary.AgentRecord) *primary.Agent {
	activity := make([]primary.ActivityEntry, len(r.ActivityStream))
	for i, a := range r.ActivityStream {
		activity[i] = primary.ActivityEntry{Who: a.Who, Content: a.Content, Timestamp: a.Timestamp, Channel: a.Channel}
	}
	return &primary.Agent{
		ID:             r.AgentName,
		AgentName:      r.AgentName,
		StatusLight:    r.StatusLight,
		ErrorState:     optionalString(r.ErrorState),
		NextRetryAt:    optionalString(r.NextRetryAt),
		ActivityStream: activity,
		UpdatedAt:      r.UpdatedAt,
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Ensure AgentServiceImpl implements the interface
var _ primary.AgentService = (*AgentServiceImpl)(nil)
