// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// AgentRepository defines the secondary port for agent persistence.
// Status changes are conditional updates so that concurrent readers apply a
// recovery or posture change at most once.
type AgentRepository interface {
	// List retrieves all stored agents.
	List(ctx context.Context) ([]*AgentRecord, error)

	// GetByName retrieves an agent by name.
	GetByName(ctx context.Context, name string) (*AgentRecord, error)

	// Seed inserts the agent unless it already exists. Returns true when inserted.
	Seed(ctx context.Context, agent *AgentRecord) (bool, error)

	// SetError puts the agent into red with both error fields set.
	SetError(ctx context.Context, name, errorState, nextRetryAt, updatedAt string) error

	// ClearError clears both error fields and sets status, only while the
	// agent is still red with the given next_retry_at. Returns true when the
	// row changed.
	ClearError(ctx context.Context, name, expectedRetryAt, status, updatedAt string) (bool, error)

	// SetStatus changes a non-red agent's status from one value to another.
	// Returns true when the row changed.
	SetStatus(ctx context.Context, name, from, to, updatedAt string) (bool, error)

	// AppendActivity appends an entry to the activity stream.
	AppendActivity(ctx context.Context, name string, entry ActivityRecord, updatedAt string) error
}

// AgentRecord represents an agent as stored in persistence.
// ErrorState and NextRetryAt are empty when no error is recorded.
type AgentRecord struct {
	AgentName      string
	StatusLight    string
	ErrorState     string
	NextRetryAt    string
	ActivityStream []ActivityRecord
	CreatedAt      string
	UpdatedAt      string
}

// ActivityRecord is one stored activity entry.
type ActivityRecord struct {
	Who       string `json:"who"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Channel   string `json:"channel,omitempty"`
}

// MissionRepository defines the secondary port for mission persistence.
type MissionRepository interface {
	// Create persists a new mission.
	Create(ctx context.Context, mission *MissionRecord) error

	// GetByID retrieves a mission by its ID.
	GetByID(ctx context.Context, id string) (*MissionRecord, error)

	// List retrieves missions matching the given filters, newest update first.
	List(ctx context.Context, filters MissionFilters) ([]*MissionRecord, error)

	// Update writes the mutable fields (everything except state).
	Update(ctx context.Context, mission *MissionRecord) error

	// UpdateState moves the mission from one state to another, only if it is
	// still in fromState. Returns true when the row changed.
	UpdateState(ctx context.Context, id, fromState, toState, previousActiveState, updatedAt string) (bool, error)

	// SaveInsightsRich stores migrated insights without touching updated_at.
	SaveInsightsRich(ctx context.Context, id string, insights []InsightRecord) error

	// IncrementCounter adds delta to one of the mission counters.
	IncrementCounter(ctx context.Context, id, counter string, delta int, updatedAt string) error

	// HasPostureInStates reports whether any mission in one of states has posture.
	HasPostureInStates(ctx context.Context, posture string, states []string) (bool, error)
}

// MissionRecord represents a mission as stored in persistence.
type MissionRecord struct {
	ID                  string
	Title               string
	Objective           string
	Posture             string
	State               string
	PreviousActiveState string
	ForumsFound         int
	ProspectsAdded      int
	HotLeads            int
	Insights            []string
	InsightsRich        []InsightRecord
	AgentsAssigned      []string
	CreatedAt           string
	UpdatedAt           string
}

// InsightRecord is one stored rich insight.
type InsightRecord struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// MissionFilters contains filter criteria for querying missions.
type MissionFilters struct {
	State string
	Limit int
}

// Mission counter names accepted by IncrementCounter.
const (
	CounterForumsFound    = "forums_found"
	CounterProspectsAdded = "prospects_added"
	CounterHotLeads       = "hot_leads"
)

// EventRepository defines the secondary port for the append-only event log.
type EventRepository interface {
	// Create appends an event.
	Create(ctx context.Context, event *EventRecord) error

	// List retrieves events matching filters, newest first.
	List(ctx context.Context, filters EventFilters) ([]*EventRecord, error)

	// PruneOlderThan deletes events stamped before cutoff.
	// Returns the number of deleted events.
	PruneOlderThan(ctx context.Context, cutoff string) (int, error)
}

// EventRecord represents an event as stored in persistence.
type EventRecord struct {
	ID        string
	EventName string
	Source    string
	AgentName string
	MissionID string
	HotLeadID string
	ThreadID  string
	Payload   map[string]any
	Timestamp string
}

// EventFilters contains filter criteria for querying events.
type EventFilters struct {
	EventName string
	Source    string
	AgentName string
	MissionID string
	HotLeadID string
	ThreadID  string
	Since     string
	Until     string
	Limit     int
}

// ThreadRepository defines the secondary port for chat threads.
type ThreadRepository interface {
	Create(ctx context.Context, thread *ThreadRecord) error
	GetByID(ctx context.Context, id string) (*ThreadRecord, error)

	// FindByTitle returns the oldest thread with the title, or nil.
	FindByTitle(ctx context.Context, title string) (*ThreadRecord, error)

	// List retrieves threads, optionally for one mission, newest update first.
	List(ctx context.Context, missionID string) ([]*ThreadRecord, error)

	// Update writes title, goal, stage, synopsis, mission link and updated_at.
	Update(ctx context.Context, thread *ThreadRecord) error
}

// ThreadRecord represents a thread as stored in persistence.
// MessageCount is derived from the messages table.
type ThreadRecord struct {
	ThreadID     string
	Title        string
	MissionID    string
	Goal         string
	Stage        string
	Synopsis     string
	MessageCount int
	CreatedAt    string
	UpdatedAt    string
}

// MessageRepository defines the secondary port for chat messages.
type MessageRepository interface {
	// Create appends a message and bumps the thread's updated_at.
	Create(ctx context.Context, message *MessageRecord) error

	GetByID(ctx context.Context, id string) (*MessageRecord, error)

	// ListByThread returns every message of the thread in ascending order.
	ListByThread(ctx context.Context, threadID string) ([]*MessageRecord, error)

	// ListWindow returns up to limit messages older than beforeID (or the
	// newest when beforeID is empty), in ascending order, and whether older
	// messages remain.
	ListWindow(ctx context.Context, threadID string, limit int, beforeID string) ([]*MessageRecord, bool, error)
}

// MessageRecord represents a message as stored in persistence.
type MessageRecord struct {
	ID        string
	ThreadID  string
	MissionID string
	Role      string
	Text      string
	Metadata  map[string]any
	CreatedAt string
}

// HotLeadRepository defines the secondary port for hot leads.
type HotLeadRepository interface {
	Create(ctx context.Context, lead *HotLeadRecord) error
	GetByID(ctx context.Context, id string) (*HotLeadRecord, error)
	List(ctx context.Context, filters HotLeadFilters) ([]*HotLeadRecord, error)
	UpdateScript(ctx context.Context, id, script, updatedAt string) error

	// UpdateStatus changes status only if it is still fromStatus.
	UpdateStatus(ctx context.Context, id, fromStatus, toStatus, updatedAt string) (bool, error)
}

// HotLeadRecord represents a hot lead as stored in persistence.
type HotLeadRecord struct {
	ID          string
	MissionID   string
	ForumID     string
	Title       string
	URL         string
	DraftScript string
	Status      string
	CreatedAt   string
	UpdatedAt   string
}

// HotLeadFilters contains filter criteria for querying hot leads.
type HotLeadFilters struct {
	MissionID string
	Status    string
}

// OutreachSignal reports whether outreach is currently active.
type OutreachSignal interface {
	HasActiveOutreach(ctx context.Context) (bool, error)
}

// GuardrailRepository defines the secondary port for guardrails.
type GuardrailRepository interface {
	Create(ctx context.Context, guardrail *GuardrailRecord) error
	GetByID(ctx context.Context, id string) (*GuardrailRecord, error)
	List(ctx context.Context, filters GuardrailFilters) ([]*GuardrailRecord, error)
	Update(ctx context.Context, guardrail *GuardrailRecord) error
}

// GuardrailRecord represents a guardrail as stored in persistence.
type GuardrailRecord struct {
	ID        string
	Type      string
	Scope     string
	Value     map[string]any
	CreatedAt string
	UpdatedAt string
}

// GuardrailFilters contains filter criteria for querying guardrails.
type GuardrailFilters struct {
	Type  string
	Scope string
}

// FindingRepository defines the secondary port for findings.
type FindingRepository interface {
	Create(ctx context.Context, finding *FindingRecord) error
	GetByID(ctx context.Context, id string) (*FindingRecord, error)
	List(ctx context.Context, filters FindingFilters) ([]*FindingRecord, error)
	Update(ctx context.Context, finding *FindingRecord) error
}

// FindingRecord represents a finding as stored in persistence.
type FindingRecord struct {
	ID           string
	MissionID    string
	ThreadID     string
	Title        string
	BodyMarkdown string
	Highlights   []string
	Metrics      map[string]any
	CreatedAt    string
	UpdatedAt    string
}

// FindingFilters contains filter criteria for querying findings.
type FindingFilters struct {
	MissionID string
	Limit     int
}

// ForumRepository defines the secondary port for tracked forums.
type ForumRepository interface {
	Create(ctx context.Context, forum *ForumRecord) error
	GetByID(ctx context.Context, id string) (*ForumRecord, error)
	List(ctx context.Context) ([]*ForumRecord, error)
	Update(ctx context.Context, forum *ForumRecord) error
}

// ForumRecord represents a forum as stored in persistence.
type ForumRecord struct {
	ID             string
	Platform       string
	Name           string
	URL            string
	RuleProfile    string
	TopicTags      []string
	SizeVelocity   string
	RelevanceNotes string
	LastSeenAt     string
	LinkStatus     string
	LastCheckedAt  string
	CreatedAt      string
	UpdatedAt      string
}
