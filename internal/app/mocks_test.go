package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/secondary"
)

// newTestClock returns a fake clock frozen at 2026-04-01 09:00 in the default zone.
func newTestClock(t *testing.T) *clock.Fake {
	t.Helper()
	loc, err := clock.LoadZone("")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}
	return clock.NewFake(time.Date(2026, 4, 1, 9, 0, 0, 0, loc))
}

// ============================================================================
// mockEventWriter
// ============================================================================

type mockEventWriter struct {
	mu        sync.Mutex
	events    []*secondary.EventRecord
	appendErr error
}

func newMockEventWriter() *mockEventWriter {
	return &mockEventWriter{}
}

func (m *mockEventWriter) Append(ctx context.Context, event *secondary.EventRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if event.ID == "" {
		event.ID = fmt.Sprintf("EV-%04d", len(m.events)+1)
	}
	if event.Timestamp == "" {
		event.Timestamp = "2026-04-01T09:00:00.000000-07:00"
	}
	m.events = append(m.events, event)
	return nil
}

// names returns the appended event names in order.
func (m *mockEventWriter) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.EventName
	}
	return out
}

func (m *mockEventWriter) count(name string) int {
	n := 0
	for _, got := range m.names() {
		if got == name {
			n++
		}
	}
	return n
}

// ============================================================================
// mockAgentRepository
// ============================================================================

type mockAgentRepository struct {
	mu     sync.Mutex
	agents map[string]*secondary.AgentRecord
}

func newMockAgentRepository() *mockAgentRepository {
	return &mockAgentRepository{agents: make(map[string]*secondary.AgentRecord)}
}

func (m *mockAgentRepository) copyOf(r *secondary.AgentRecord) *secondary.AgentRecord {
	c := *r
	c.ActivityStream = append([]secondary.ActivityRecord{}, r.ActivityStream...)
	return &c
}

func (m *mockAgentRepository) List(ctx context.Context) ([]*secondary.AgentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.AgentRecord
	for _, r := range m.agents {
		out = append(out, m.copyOf(r))
	}
	return out, nil
}

func (m *mockAgentRepository) GetByName(ctx context.Context, name string) (*secondary.AgentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.agents[name]
	if !ok {
		return nil, errs.NotFound("agent", name)
	}
	return m.copyOf(r), nil
}

func (m *mockAgentRepository) Seed(ctx context.Context, agent *secondary.AgentRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.agents[agent.AgentName]; ok {
		return false, nil
	}
	m.agents[agent.AgentName] = m.copyOf(agent)
	return true, nil
}

func (m *mockAgentRepository) SetError(ctx context.Context, name, errorState, nextRetryAt, updatedAt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.agents[name]
	if !ok {
		return errs.NotFound("agent", name)
	}
	r.StatusLight, r.ErrorState, r.NextRetryAt, r.UpdatedAt = "red", errorState, nextRetryAt, updatedAt
	return nil
}

func (m *mockAgentRepository) ClearError(ctx context.Context, name, expectedRetryAt, status, updatedAt string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.agents[name]
	if !ok || r.StatusLight != "red" || r.NextRetryAt != expectedRetryAt {
		return false, nil
	}
	r.StatusLight, r.ErrorState, r.NextRetryAt, r.UpdatedAt = status, "", "", updatedAt
	return true, nil
}

func (m *mockAgentRepository) SetStatus(ctx context.Context, name, from, to, updatedAt string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.agents[name]
	if !ok || r.StatusLight != from || r.StatusLight == "red" {
		return false, nil
	}
	r.StatusLight, r.UpdatedAt = to, updatedAt
	return true, nil
}

func (m *mockAgentRepository) AppendActivity(ctx context.Context, name string, entry secondary.ActivityRecord, updatedAt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.agents[name]
	if !ok {
		return errs.NotFound("agent", name)
	}
	r.ActivityStream = append(r.ActivityStream, entry)
	r.UpdatedAt = updatedAt
	return nil
}

// ============================================================================
// mockMissionRepository
// ============================================================================

type mockMissionRepository struct {
	mu            sync.Mutex
	missions      map[string]*secondary.MissionRecord
	insightsSaves int
	// beforeUpdateState runs inside UpdateState to simulate a concurrent writer.
	beforeUpdateState func(r *secondary.MissionRecord)
}

func newMockMissionRepository() *mockMissionRepository {
	return &mockMissionRepository{missions: make(map[string]*secondary.MissionRecord)}
}

func (m *mockMissionRepository) put(r *secondary.MissionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.missions[r.ID] = r
}

func (m *mockMissionRepository) Create(ctx context.Context, mission *secondary.MissionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *mission
	m.missions[mission.ID] = &c
	return nil
}

func (m *mockMissionRepository) GetByID(ctx context.Context, id string) (*secondary.MissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.missions[id]
	if !ok {
		return nil, errs.NotFound("mission", id)
	}
	c := *r
	return &c, nil
}

func (m *mockMissionRepository) List(ctx context.Context, filters secondary.MissionFilters) ([]*secondary.MissionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.MissionRecord
	for _, r := range m.missions {
		if filters.State != "" && r.State != filters.State {
			continue
		}
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt > out[j].UpdatedAt })
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (m *mockMissionRepository) Update(ctx context.Context, mission *secondary.MissionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.missions[mission.ID]
	if !ok {
		return errs.NotFound("mission", mission.ID)
	}
	c := *mission
	c.State, c.PreviousActiveState = r.State, r.PreviousActiveState
	m.missions[mission.ID] = &c
	return nil
}

func (m *mockMissionRepository) UpdateState(ctx context.Context, id, fromState, toState, previousActiveState, updatedAt string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.missions[id]
	if !ok {
		return false, nil
	}
	if m.beforeUpdateState != nil {
		m.beforeUpdateState(r)
	}
	if r.State != fromState {
		return false, nil
	}
	r.State, r.PreviousActiveState, r.UpdatedAt = toState, previousActiveState, updatedAt
	return true, nil
}

func (m *mockMissionRepository) SaveInsightsRich(ctx context.Context, id string, insights []secondary.InsightRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.missions[id]
	if !ok || len(r.InsightsRich) > 0 {
		return nil
	}
	r.InsightsRich = insights
	m.insightsSaves++
	return nil
}

func (m *mockMissionRepository) IncrementCounter(ctx context.Context, id, counter string, delta int, updatedAt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.missions[id]
	if !ok {
		return errs.NotFound("mission", id)
	}
	switch counter {
	case secondary.CounterForumsFound:
		r.ForumsFound += delta
	case secondary.CounterProspectsAdded:
		r.ProspectsAdded += delta
	case secondary.CounterHotLeads:
		r.HotLeads += delta
	default:
		return fmt.Errorf("unknown mission counter %q", counter)
	}
	r.UpdatedAt = updatedAt
	return nil
}

func (m *mockMissionRepository) HasPostureInStates(ctx context.Context, posture string, states []string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.missions {
		if r.Posture != posture {
			continue
		}
		for _, s := range states {
			if r.State == s {
				return true, nil
			}
		}
	}
	return false, nil
}

// ============================================================================
// mockOutreachSignal
// ============================================================================

type mockOutreachSignal struct {
	active bool
}

func (m *mockOutreachSignal) HasActiveOutreach(ctx context.Context) (bool, error) {
	return m.active, nil
}

// ============================================================================
// mockThreadRepository / mockMessageRepository
// ============================================================================

type mockThreadRepository struct {
	threads map[string]*secondary.ThreadRecord
	order   []string
}

func newMockThreadRepository() *mockThreadRepository {
	return &mockThreadRepository{threads: make(map[string]*secondary.ThreadRecord)}
}

func (m *mockThreadRepository) Create(ctx context.Context, thread *secondary.ThreadRecord) error {
	c := *thread
	m.threads[thread.ThreadID] = &c
	m.order = append(m.order, thread.ThreadID)
	return nil
}

func (m *mockThreadRepository) GetByID(ctx context.Context, id string) (*secondary.ThreadRecord, error) {
	r, ok := m.threads[id]
	if !ok {
		return nil, errs.NotFound("thread", id)
	}
	c := *r
	return &c, nil
}

func (m *mockThreadRepository) FindByTitle(ctx context.Context, title string) (*secondary.ThreadRecord, error) {
	for _, id := range m.order {
		if m.threads[id].Title == title {
			c := *m.threads[id]
			return &c, nil
		}
	}
	return nil, nil
}

func (m *mockThreadRepository) List(ctx context.Context, missionID string) ([]*secondary.ThreadRecord, error) {
	var out []*secondary.ThreadRecord
	for _, id := range m.order {
		r := m.threads[id]
		if missionID != "" && r.MissionID != missionID {
			continue
		}
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (m *mockThreadRepository) Update(ctx context.Context, thread *secondary.ThreadRecord) error {
	if _, ok := m.threads[thread.ThreadID]; !ok {
		return errs.NotFound("thread", thread.ThreadID)
	}
	c := *thread
	m.threads[thread.ThreadID] = &c
	return nil
}

type mockMessageRepository struct {
	threads  *mockThreadRepository
	messages []*secondary.MessageRecord
}

func newMockMessageRepository(threads *mockThreadRepository) *mockMessageRepository {
	return &mockMessageRepository{threads: threads}
}

func (m *mockMessageRepository) Create(ctx context.Context, message *secondary.MessageRecord) error {
	th, ok := m.threads.threads[message.ThreadID]
	if !ok {
		return errs.NotFound("thread", message.ThreadID)
	}
	th.MessageCount++
	th.UpdatedAt = message.CreatedAt
	c := *message
	m.messages = append(m.messages, &c)
	return nil
}

func (m *mockMessageRepository) GetByID(ctx context.Context, id string) (*secondary.MessageRecord, error) {
	for _, msg := range m.messages {
		if msg.ID == id {
			c := *msg
			return &c, nil
		}
	}
	return nil, errs.NotFound("message", id)
}

func (m *mockMessageRepository) ListByThread(ctx context.Context, threadID string) ([]*secondary.MessageRecord, error) {
	var out []*secondary.MessageRecord
	for _, msg := range m.messages {
		if msg.ThreadID == threadID {
			c := *msg
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *mockMessageRepository) ListWindow(ctx context.Context, threadID string, limit int, beforeID string) ([]*secondary.MessageRecord, bool, error) {
	all, _ := m.ListByThread(ctx, threadID)
	end := len(all)
	if beforeID != "" {
		end = -1
		for i, msg := range all {
			if msg.ID == beforeID {
				end = i
			}
		}
		if end < 0 {
			return nil, false, errs.NotFound("message", beforeID)
		}
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	return all[start:end], start > 0, nil
}

// ============================================================================
// mockHotLeadRepository
// ============================================================================

type mockHotLeadRepository struct {
	leads map[string]*secondary.HotLeadRecord
}

func newMockHotLeadRepository() *mockHotLeadRepository {
	return &mockHotLeadRepository{leads: make(map[string]*secondary.HotLeadRecord)}
}

func (m *mockHotLeadRepository) Create(ctx context.Context, lead *secondary.HotLeadRecord) error {
	c := *lead
	m.leads[lead.ID] = &c
	return nil
}

func (m *mockHotLeadRepository) GetByID(ctx context.Context, id string) (*secondary.HotLeadRecord, error) {
	r, ok := m.leads[id]
	if !ok {
		return nil, errs.NotFound("hot lead", id)
	}
	c := *r
	return &c, nil
}

func (m *mockHotLeadRepository) List(ctx context.Context, filters secondary.HotLeadFilters) ([]*secondary.HotLeadRecord, error) {
	var out []*secondary.HotLeadRecord
	for _, r := range m.leads {
		if filters.MissionID != "" && r.MissionID != filters.MissionID {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (m *mockHotLeadRepository) UpdateScript(ctx context.Context, id, script, updatedAt string) error {
	r, ok := m.leads[id]
	if !ok {
		return errs.NotFound("hot lead", id)
	}
	r.DraftScript, r.UpdatedAt = script, updatedAt
	return nil
}

func (m *mockHotLeadRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus, updatedAt string) (bool, error) {
	r, ok := m.leads[id]
	if !ok || r.Status != fromStatus {
		return false, nil
	}
	r.Status, r.UpdatedAt = toStatus, updatedAt
	return true, nil
}

func (m *mockHotLeadRepository) HasActiveOutreach(ctx context.Context) (bool, error) {
	for _, r := range m.leads {
		if r.Status == "approved" {
			return true, nil
		}
	}
	return false, nil
}

// ============================================================================
// mockGuardrailRepository / mockFindingRepository / mockForumRepository
// ============================================================================

type mockGuardrailRepository struct {
	guardrails map[string]*secondary.GuardrailRecord
}

func newMockGuardrailRepository() *mockGuardrailRepository {
	return &mockGuardrailRepository{guardrails: make(map[string]*secondary.GuardrailRecord)}
}

func (m *mockGuardrailRepository) Create(ctx context.Context, g *secondary.GuardrailRecord) error {
	c := *g
	m.guardrails[g.ID] = &c
	return nil
}

func (m *mockGuardrailRepository) GetByID(ctx context.Context, id string) (*secondary.GuardrailRecord, error) {
	r, ok := m.guardrails[id]
	if !ok {
		return nil, errs.NotFound("guardrail", id)
	}
	c := *r
	return &c, nil
}

func (m *mockGuardrailRepository) List(ctx context.Context, filters secondary.GuardrailFilters) ([]*secondary.GuardrailRecord, error) {
	var out []*secondary.GuardrailRecord
	for _, r := range m.guardrails {
		if filters.Type != "" && r.Type != filters.Type {
			continue
		}
		if filters.Scope != "" && r.Scope != filters.Scope {
			continue
		}
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (m *mockGuardrailRepository) Update(ctx context.Context, g *secondary.GuardrailRecord) error {
	if _, ok := m.guardrails[g.ID]; !ok {
		return errs.NotFound("guardrail", g.ID)
	}
	c := *g
	m.guardrails[g.ID] = &c
	return nil
}

type mockFindingRepository struct {
	findings map[string]*secondary.FindingRecord
}

func newMockFindingRepository() *mockFindingRepository {
	return &mockFindingRepository{findings: make(map[string]*secondary.FindingRecord)}
}

func (m *mockFindingRepository) Create(ctx context.Context, f *secondary.FindingRecord) error {
	c := *f
	m.findings[f.ID] = &c
	return nil
}

func (m *mockFindingRepository) GetByID(ctx context.Context, id string) (*secondary.FindingRecord, error) {
	r, ok := m.findings[id]
	if !ok {
		return nil, errs.NotFound("finding", id)
	}
	c := *r
	return &c, nil
}

func (m *mockFindingRepository) List(ctx context.Context, filters secondary.FindingFilters) ([]*secondary.FindingRecord, error) {
	var out []*secondary.FindingRecord
	for _, r := range m.findings {
		if filters.MissionID != "" && r.MissionID != filters.MissionID {
			continue
		}
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (m *mockFindingRepository) Update(ctx context.Context, f *secondary.FindingRecord) error {
	if _, ok := m.findings[f.ID]; !ok {
		return errs.NotFound("finding", f.ID)
	}
	c := *f
	m.findings[f.ID] = &c
	return nil
}

type mockForumRepository struct {
	forums map[string]*secondary.ForumRecord
}

func newMockForumRepository() *mockForumRepository {
	return &mockForumRepository{forums: make(map[string]*secondary.ForumRecord)}
}

func (m *mockForumRepository) Create(ctx context.Context, f *secondary.ForumRecord) error {
	c := *f
	m.forums[f.ID] = &c
	return nil
}

func (m *mockForumRepository) GetByID(ctx context.Context, id string) (*secondary.ForumRecord, error) {
	r, ok := m.forums[id]
	if !ok {
		return nil, errs.NotFound("forum", id)
	}
	c := *r
	return &c, nil
}

func (m *mockForumRepository) List(ctx context.Context) ([]*secondary.ForumRecord, error) {
	var out []*secondary.ForumRecord
	for _, r := range m.forums {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

func (m *mockForumRepository) Update(ctx context.Context, f *secondary.ForumRecord) error {
	if _, ok := m.forums[f.ID]; !ok {
		return errs.NotFound("forum", f.ID)
	}
	c := *f
	m.forums[f.ID] = &c
	return nil
}

// ============================================================================
// mockLLMClient / mockLinkChecker
// ============================================================================

type mockLLMClient struct {
	replies   []string
	chatErr   error
	models    []string
	modelsErr error
	requests  []secondary.ChatRequest
	listCalls int
}

func (m *mockLLMClient) Chat(ctx context.Context, req secondary.ChatRequest) (string, error) {
	m.requests = append(m.requests, req)
	if m.chatErr != nil {
		return "", m.chatErr
	}
	if len(m.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return reply, nil
}

func (m *mockLLMClient) ListModels(ctx context.Context) ([]string, error) {
	m.listCalls++
	return m.models, m.modelsErr
}

func (m *mockLLMClient) Name() string { return "mock" }

type mockLinkChecker struct {
	code int
	err  error
}

func (m *mockLinkChecker) Check(ctx context.Context, url string) (int, error) {
	return m.code, m.err
}
