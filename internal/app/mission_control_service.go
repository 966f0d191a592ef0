package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/core/event"
	coremission "github.com/example/praetor/internal/core/mission"
	corethread "github.com/example/praetor/internal/core/thread"
	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/primary"
	"github.com/example/praetor/internal/ports/secondary"
)

// Thread window bounds for GetThread.
const (
	DefaultThreadWindow = 50
	MaxThreadWindow     = 500
)

// ChatSettings tunes the completions Praefectus requests.
type ChatSettings struct {
	Temperature float64
	MaxTokens   int
}

// MissionControlServiceImpl implements the MissionControlService interface.
// It composes MissionService for every mission mutation so lifecycle rules
// and events stay in one place.
type MissionControlServiceImpl struct {
	threadRepo  secondary.ThreadRepository
	messageRepo secondary.MessageRepository
	missions    primary.MissionService
	provider    primary.ProviderService
	llm         secondary.LLMClient
	events      secondary.EventWriter
	clock       clock.Clock
	settings    ChatSettings
}

// NewMissionControlService creates a new MissionControlService with injected dependencies.
func NewMissionControlService(
	threadRepo secondary.ThreadRepository,
	messageRepo secondary.MessageRepository,
	missions primary.MissionService,
	provider primary.ProviderService,
	llm secondary.LLMClient,
	events secondary.EventWriter,
	clk clock.Clock,
	settings ChatSettings,
) *MissionControlServiceImpl {
	return &MissionControlServiceImpl{
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		missions:    missions,
		provider:    provider,
		llm:         llm,
		events:      events,
		clock:       clk,
		settings:    settings,
	}
}

// CreateThread opens a new conversation, optionally linked to a mission.
func (s *MissionControlServiceImpl) CreateThread(ctx context.Context, req primary.CreateThreadRequest) (*primary.Thread, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errs.Validation("title", "title is required")
	}
	if req.MissionID != "" {
		if _, err := s.missions.GetMission(ctx, req.MissionID); err != nil {
			return nil, err
		}
	}

	record, err := s.createThread(ctx, title, req.MissionID, "")
	if err != nil {
		return nil, err
	}
	return s.toThread(ctx, record, nil)
}

// ListThreads lists threads, creating the General thread when none exist.
func (s *MissionControlServiceImpl) ListThreads(ctx context.Context, missionID string) ([]*primary.Thread, error) {
	records, err := s.threadRepo.List(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	if len(records) == 0 && missionID == "" {
		general, err := s.ensureGeneral(ctx)
		if err != nil {
			return nil, err
		}
		records = []*secondary.ThreadRecord{general}
	}

	states := map[string]coremission.State{}
	threads := make([]*primary.Thread, len(records))
	for i, r := range records {
		th, err := s.toThread(ctx, r, states)
		if err != nil {
			return nil, err
		}
		threads[i] = th
	}
	return threads, nil
}

// GetThread returns the thread and a window of its messages in ascending order.
func (s *MissionControlServiceImpl) GetThread(ctx context.Context, req primary.GetThreadRequest) (*primary.ThreadView, error) {
	limit := req.Limit
	if limit == 0 {
		limit = DefaultThreadWindow
	}
	if limit < 0 || limit > MaxThreadWindow {
		return nil, errs.Validation("limit", fmt.Sprintf("limit must be between 1 and %d", MaxThreadWindow))
	}

	record, err := s.threadRepo.GetByID(ctx, req.ThreadID)
	if err != nil {
		return nil, err
	}

	messages, hasMore, err := s.messageRepo.ListWindow(ctx, record.ThreadID, limit, req.Before)
	if err != nil {
		return nil, err
	}

	th, err := s.toThread(ctx, record, nil)
	if err != nil {
		return nil, err
	}

	if req.Before == "" {
		appendEvent(ctx, s.events, &secondary.EventRecord{
			EventName: event.ThreadLoaded,
			ThreadID:  record.ThreadID,
			MissionID: record.MissionID,
			Payload:   map[string]any{"message_count": record.MessageCount},
		})
	}

	view := &primary.ThreadView{Thread: th, Messages: make([]*primary.Message, len(messages)), HasMore: hasMore}
	for i, m := range messages {
		view.Messages[i] = recordToMessage(m)
	}
	return view, nil
}

// UpdateThread patches thread metadata.
func (s *MissionControlServiceImpl) UpdateThread(ctx context.Context, req primary.UpdateThreadRequest) (*primary.Thread, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, errs.Validation("title", "title cannot be empty")
	}

	record, err := s.threadRepo.GetByID(ctx, req.ThreadID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		record.Title = strings.TrimSpace(*req.Title)
	}
	if req.Goal != nil {
		record.Goal = *req.Goal
	}
	if req.Stage != nil {
		record.Stage = *req.Stage
	}
	if req.Synopsis != nil {
		record.Synopsis = *req.Synopsis
	}
	record.UpdatedAt = clock.Stamp(s.clock)

	if err := s.threadRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update thread: %w", err)
	}
	return s.toThread(ctx, record, nil)
}

// LinkMission links a thread to a mission.
func (s *MissionControlServiceImpl) LinkMission(ctx context.Context, threadID, missionID string) (*primary.Thread, error) {
	record, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if _, err := s.missions.GetMission(ctx, missionID); err != nil {
		return nil, err
	}
	if err := s.link(ctx, record, missionID); err != nil {
		return nil, err
	}
	return s.toThread(ctx, record, nil)
}

// SendMessage appends the human message, then the Praefectus reply: either
// the outcome of a run-control phrase or an LLM completion over the full
// thread history.
func (s *MissionControlServiceImpl) SendMessage(ctx context.Context, req primary.SendMessageRequest) (*primary.SendMessageResponse, error) {
	// 1. Validate
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errs.Validation("text", "text is required")
	}

	// 2. Resolve the thread (General when none named)
	var (
		th  *secondary.ThreadRecord
		err error
	)
	if req.ThreadID == "" {
		th, err = s.ensureGeneral(ctx)
	} else {
		th, err = s.threadRepo.GetByID(ctx, req.ThreadID)
	}
	if err != nil {
		return nil, err
	}

	// 3. Persist the human side first; it stays even if the reply fails
	human, err := s.appendMessage(ctx, th, corethread.RoleHuman, text, nil)
	if err != nil {
		return nil, err
	}
	resp := &primary.SendMessageResponse{ThreadID: th.ThreadID, Human: recordToMessage(human)}

	// 4. Run controls bypass the LLM
	if control := corethread.ParseRunControl(text); control != corethread.ControlNone {
		replyText, err := s.runControl(ctx, th, control)
		if err != nil {
			return nil, err
		}
		reply, err := s.appendMessage(ctx, th, corethread.RolePraefectus, replyText, map[string]any{"run_control": string(control)})
		if err != nil {
			return nil, err
		}
		appendEvent(ctx, s.events, &secondary.EventRecord{
			EventName: event.RunControlsUsed,
			ThreadID:  th.ThreadID,
			MissionID: th.MissionID,
			Payload:   map[string]any{"control": string(control)},
		})
		resp.MissionID = th.MissionID
		resp.Reply = recordToMessage(reply)
		resp.RunControl = string(control)
		return resp, nil
	}

	// 5. Ask Praefectus with the full ascending history
	history, err := s.messageRepo.ListByThread(ctx, th.ThreadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load thread history: %w", err)
	}
	model, replyText, err := s.complete(ctx, chatMessages(history, ""))
	if err != nil {
		return nil, err
	}

	// 6. Persist the reply
	reply, err := s.appendMessage(ctx, th, corethread.RolePraefectus, replyText, map[string]any{"model": model})
	if err != nil {
		return nil, err
	}
	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.PraefectusMessageAppended,
		ThreadID:  th.ThreadID,
		MissionID: th.MissionID,
		Payload:   map[string]any{"message_id": reply.ID, "model": model},
	})

	resp.MissionID = th.MissionID
	resp.Reply = recordToMessage(reply)
	return resp, nil
}

// ConvertToDraft distills the thread into a mission draft.
func (s *MissionControlServiceImpl) ConvertToDraft(ctx context.Context, req primary.ConvertToDraftRequest) (*primary.MissionDraft, error) {
	if req.Overrides.Posture != "" && !coremission.IsValidPosture(coremission.Posture(req.Overrides.Posture)) {
		return nil, errs.Validation("posture", fmt.Sprintf("unknown posture %q", req.Overrides.Posture))
	}

	th, err := s.threadRepo.GetByID(ctx, req.ThreadID)
	if err != nil {
		return nil, err
	}

	draft, err := s.draftFromThread(ctx, th, corethread.Draft(req.Overrides))
	if err != nil {
		return nil, err
	}
	out := primary.MissionDraft(draft)
	return &out, nil
}

// ApproveDraft creates the drafted mission, links the thread and optionally starts it.
func (s *MissionControlServiceImpl) ApproveDraft(ctx context.Context, req primary.ApproveDraftRequest) (*primary.ApproveDraftResponse, error) {
	th, err := s.threadRepo.GetByID(ctx, req.ThreadID)
	if err != nil {
		return nil, err
	}

	m, err := s.approve(ctx, th, corethread.Draft(req.Draft), req.StartNow)
	if err != nil {
		return nil, err
	}
	return &primary.ApproveDraftResponse{MissionID: m.ID, ThreadID: th.ThreadID, Mission: m}, nil
}

// DuplicateRun starts a new run of a mission in a fresh thread.
func (s *MissionControlServiceImpl) DuplicateRun(ctx context.Context, req primary.DuplicateRunRequest) (*primary.DuplicateRunResponse, error) {
	var source *secondary.ThreadRecord
	if req.SourceThreadID != "" {
		var err error
		if source, err = s.threadRepo.GetByID(ctx, req.SourceThreadID); err != nil {
			return nil, err
		}
	}

	dup, err := s.missions.DuplicateMission(ctx, req.MissionID)
	if err != nil {
		return nil, err
	}
	m := dup.Mission
	if req.StartNow {
		if m, err = s.missions.SetState(ctx, primary.SetStateRequest{MissionID: dup.MissionID, State: string(coremission.TargetScanning)}); err != nil {
			return nil, err
		}
	}

	goal := ""
	if source != nil {
		goal = source.Goal
	}
	th, err := s.createThread(ctx, fmt.Sprintf("%s (new run)", m.Title), m.ID, goal)
	if err != nil {
		return nil, err
	}

	reply, err := s.appendMessage(ctx, th, corethread.RolePraefectus,
		fmt.Sprintf("Started a new run of %q as mission %s (%s).", m.Title, m.ID, m.State), nil)
	if err != nil {
		return nil, err
	}

	return &primary.DuplicateRunResponse{MissionID: m.ID, ThreadID: th.ThreadID, Reply: recordToMessage(reply)}, nil
}

// Helper methods

// runControl applies a run-control phrase to the thread's mission and
// returns the confirmation Praefectus replies with.
func (s *MissionControlServiceImpl) runControl(ctx context.Context, th *secondary.ThreadRecord, control corethread.RunControl) (string, error) {
	var state coremission.State
	if th.MissionID != "" {
		m, err := s.missions.GetMission(ctx, th.MissionID)
		switch {
		case err == nil:
			state = coremission.State(m.State)
		case !errors.Is(err, errs.ErrNotFound):
			return "", err
		}
	}

	decision := corethread.DecideRunControl(control, state)
	switch decision.Plan {
	case corethread.PlanCreate:
		draft, err := s.draftFromThread(ctx, th, corethread.Draft{})
		if err != nil {
			return "", err
		}
		m, err := s.approveWithoutConfirmation(ctx, th, draft, true)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Created mission %q (%s) and started it. State: %s.", m.Title, m.ID, m.State), nil

	case corethread.PlanTransition:
		m, err := s.missions.SetState(ctx, primary.SetStateRequest{MissionID: th.MissionID, State: string(decision.Target)})
		if errors.Is(err, errs.ErrInvalidTransition) {
			return fmt.Sprintf("Cannot do that: %v.", err), nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Mission %q is now %s.", m.Title, m.State), nil

	case corethread.PlanDuplicate:
		dup, err := s.missions.DuplicateMission(ctx, th.MissionID)
		if err != nil {
			return "", err
		}
		if err := s.link(ctx, th, dup.MissionID); err != nil {
			return "", err
		}
		m, err := s.missions.SetState(ctx, primary.SetStateRequest{MissionID: dup.MissionID, State: string(coremission.TargetScanning)})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("The previous run was %s. Started a new run as mission %s.", state, m.ID), nil
	}

	if state == "" {
		return "This thread is not linked to a mission yet. Say \"create mission now\" to draft one.", nil
	}
	return fmt.Sprintf("Mission is already %s.", state), nil
}

// draftFromThread asks the LLM to summarize the thread into a draft and
// applies overrides on top.
func (s *MissionControlServiceImpl) draftFromThread(ctx context.Context, th *secondary.ThreadRecord, overrides corethread.Draft) (corethread.Draft, error) {
	history, err := s.messageRepo.ListByThread(ctx, th.ThreadID)
	if err != nil {
		return corethread.Draft{}, fmt.Errorf("failed to load thread history: %w", err)
	}
	_, reply, err := s.complete(ctx, chatMessages(history, corethread.DraftPrompt))
	if err != nil {
		return corethread.Draft{}, err
	}

	draft := corethread.ParseDraftReply(reply, th.Title).Merge(overrides)
	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.MissionDraftCreated,
		ThreadID:  th.ThreadID,
		Payload:   map[string]any{"title": draft.Title, "posture": draft.Posture},
	})
	return draft, nil
}

func (s *MissionControlServiceImpl) approve(ctx context.Context, th *secondary.ThreadRecord, draft corethread.Draft, startNow bool) (*primary.Mission, error) {
	m, err := s.approveWithoutConfirmation(ctx, th, draft, startNow)
	if err != nil {
		return nil, err
	}
	text := fmt.Sprintf("Mission %q approved as %s. State: %s.", m.Title, m.ID, m.State)
	if _, err := s.appendMessage(ctx, th, corethread.RolePraefectus, text, map[string]any{"mission_id": m.ID}); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MissionControlServiceImpl) approveWithoutConfirmation(ctx context.Context, th *secondary.ThreadRecord, draft corethread.Draft, startNow bool) (*primary.Mission, error) {
	created, err := s.missions.CreateMission(ctx, primary.CreateMissionRequest{
		Title:     draft.Title,
		Objective: draft.Objective,
		Posture:   draft.Posture,
	})
	if err != nil {
		return nil, err
	}
	if err := s.link(ctx, th, created.MissionID); err != nil {
		return nil, err
	}
	if !startNow {
		return created.Mission, nil
	}
	return s.missions.SetState(ctx, primary.SetStateRequest{MissionID: created.MissionID, State: string(coremission.TargetScanning)})
}

// complete sends messages to the default model. No lock is held while the
// provider runs; a failure is reported as an upstream error and not retried.
func (s *MissionControlServiceImpl) complete(ctx context.Context, messages []secondary.ChatMessage) (model, reply string, err error) {
	model, err = s.provider.DefaultModel(ctx)
	if err != nil {
		return "", "", err
	}
	reply, err = s.llm.Chat(ctx, secondary.ChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: s.settings.Temperature,
		MaxTokens:   s.settings.MaxTokens,
	})
	if err != nil {
		return "", "", errs.Upstream(s.llm.Name(), err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", "", errs.Upstream(s.llm.Name(), errors.New("empty reply"))
	}
	return model, reply, nil
}

func (s *MissionControlServiceImpl) ensureGeneral(ctx context.Context) (*secondary.ThreadRecord, error) {
	existing, err := s.threadRepo.FindByTitle(ctx, corethread.GeneralTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to find general thread: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	return s.createThread(ctx, corethread.GeneralTitle, "", "")
}

func (s *MissionControlServiceImpl) createThread(ctx context.Context, title, missionID, goal string) (*secondary.ThreadRecord, error) {
	stamp := clock.Stamp(s.clock)
	record := &secondary.ThreadRecord{
		ThreadID:  uuid.NewString(),
		Title:     title,
		MissionID: missionID,
		Goal:      goal,
		Stage:     corethread.DefaultStage,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
	if err := s.threadRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.ThreadCreated,
		ThreadID:  record.ThreadID,
		MissionID: missionID,
		Payload:   map[string]any{"title": title},
	})
	return record, nil
}

func (s *MissionControlServiceImpl) link(ctx context.Context, th *secondary.ThreadRecord, missionID string) error {
	th.MissionID = missionID
	th.UpdatedAt = clock.Stamp(s.clock)
	if err := s.threadRepo.Update(ctx, th); err != nil {
		return fmt.Errorf("failed to link thread: %w", err)
	}
	return nil
}

func (s *MissionControlServiceImpl) appendMessage(ctx context.Context, th *secondary.ThreadRecord, role corethread.Role, text string, metadata map[string]any) (*secondary.MessageRecord, error) {
	record := &secondary.MessageRecord{
		ID:        uuid.NewString(),
		ThreadID:  th.ThreadID,
		MissionID: th.MissionID,
		Role:      string(role),
		Text:      text,
		Metadata:  metadata,
		CreatedAt: clock.Stamp(s.clock),
	}
	if err := s.messageRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}
	th.MessageCount++
	th.UpdatedAt = record.CreatedAt
	return record, nil
}

// toThread derives thread_status from the linked mission. states caches
// mission lookups across a listing; nil disables the cache.
func (s *MissionControlServiceImpl) toThread(ctx context.Context, r *secondary.ThreadRecord, states map[string]coremission.State) (*primary.Thread, error) {
	var state coremission.State
	if r.MissionID != "" {
		cached, ok := states[r.MissionID]
		if ok {
			state = cached
		} else {
			m, err := s.missions.GetMission(ctx, r.MissionID)
			switch {
			case err == nil:
				state = coremission.State(m.State)
			case !errors.Is(err, errs.ErrNotFound):
				return nil, err
			}
			if states != nil {
				states[r.MissionID] = state
			}
		}
	}

	return &primary.Thread{
		ThreadID:     r.ThreadID,
		Title:        r.Title,
		MissionID:    r.MissionID,
		Goal:         r.Goal,
		Stage:        r.Stage,
		Synopsis:     r.Synopsis,
		MessageCount: r.MessageCount,
		ThreadStatus: string(corethread.DeriveStatus(state)),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

// chatMessages builds the model conversation: the Praefectus system prompt,
// every message in ascending order, and an optional closing instruction.
func chatMessages(history []*secondary.MessageRecord, instruction string) []secondary.ChatMessage {
	messages := make([]secondary.ChatMessage, 0, len(history)+2)
	messages = append(messages, secondary.ChatMessage{Role: secondary.ChatRoleSystem, Content: corethread.SystemPrompt})
	for _, m := range history {
		role := secondary.ChatRoleUser
		if m.Role == string(corethread.RolePraefectus) {
			role = secondary.ChatRoleAssistant
		}
		messages = append(messages, secondary.ChatMessage{Role: role, Content: m.Text})
	}
	if instruction != "" {
		messages = append(messages, secondary.ChatMessage{Role: secondary.ChatRoleUser, Content: instruction})
	}
	return messages
}

func recordToMessage(r *secondary.MessageRecord) *primary.Message {
	return &primary.Message{
		ID:        r.ID,
		ThreadID:  r.ThreadID,
		MissionID: r.MissionID,
		Role:      r.Role,
		Text:      r.Text,
		Metadata:  r.Metadata,
		CreatedAt: r.CreatedAt,
	}
}

// Ensure MissionControlServiceImpl implements the interface
var _ primary.MissionControlService = (*MissionControlServiceImpl)(nil)
