package primary

import "context"

// MissionControlService defines the primary port for the Praefectus chat
// pipeline and its threads.
type MissionControlService interface {
	// CreateThread opens a new conversation, optionally linked to a mission.
	CreateThread(ctx context.Context, req CreateThreadRequest) (*Thread, error)

	// ListThreads lists threads (optionally for one mission). The General
	// thread is created when no threads exist.
	ListThreads(ctx context.Context, missionID string) ([]*Thread, error)

	// GetThread returns a thread with a window of its messages in ascending order.
	GetThread(ctx context.Context, req GetThreadRequest) (*ThreadView, error)

	// UpdateThread patches thread metadata.
	UpdateThread(ctx context.Context, req UpdateThreadRequest) (*Thread, error)

	// LinkMission links a thread to a mission.
	LinkMission(ctx context.Context, threadID, missionID string) (*Thread, error)

	// SendMessage appends a human message and the Praefectus reply.
	SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error)

	// ConvertToDraft distills the thread into a mission draft.
	ConvertToDraft(ctx context.Context, req ConvertToDraftRequest) (*MissionDraft, error)

	// ApproveDraft creates the drafted mission and links it to the thread.
	ApproveDraft(ctx context.Context, req ApproveDraftRequest) (*ApproveDraftResponse, error)

	// DuplicateRun starts a new run of a mission in a new thread.
	DuplicateRun(ctx context.Context, req DuplicateRunRequest) (*DuplicateRunResponse, error)
}

// Thread represents a conversation at the port boundary.
type Thread struct {
	ThreadID     string `json:"thread_id"`
	Title        string `json:"title"`
	MissionID    string `json:"mission_id,omitempty"`
	Goal         string `json:"goal"`
	Stage        string `json:"stage"`
	Synopsis     string `json:"synopsis"`
	MessageCount int    `json:"message_count"`
	ThreadStatus string `json:"thread_status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// Message represents one chat message.
type Message struct {
	ID        string         `json:"id"`
	ThreadID  string         `json:"thread_id"`
	MissionID string         `json:"mission_id,omitempty"`
	Role      string         `json:"role"`
	Text      string         `json:"text"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"created_at"`
}

// ThreadView is a thread plus a window of its messages.
type ThreadView struct {
	Thread   *Thread    `json:"thread"`
	Messages []*Message `json:"messages"`
	HasMore  bool       `json:"has_more"`
}

// CreateThreadRequest contains parameters for creating a thread.
type CreateThreadRequest struct {
	Title     string `json:"title"`
	MissionID string `json:"mission_id"`
}

// GetThreadRequest selects a window of messages. Before is a message ID;
// only messages older than it are returned.
type GetThreadRequest struct {
	ThreadID string
	Limit    int
	Before   string
}

// UpdateThreadRequest contains the thread fields to patch.
type UpdateThreadRequest struct {
	ThreadID string  `json:"-"`
	Title    *string `json:"title"`
	Goal     *string `json:"goal"`
	Stage    *string `json:"stage"`
	Synopsis *string `json:"synopsis"`
}

// SendMessageRequest contains parameters for sending a chat message.
// An empty ThreadID targets the General thread.
type SendMessageRequest struct {
	ThreadID string `json:"thread_id"`
	Text     string `json:"text"`
}

// SendMessageResponse contains both sides of the exchange.
type SendMessageResponse struct {
	ThreadID   string   `json:"thread_id"`
	MissionID  string   `json:"mission_id,omitempty"`
	Human      *Message `json:"human"`
	Reply      *Message `json:"reply"`
	RunControl string   `json:"run_control,omitempty"`
}

// MissionDraft is a proposed mission.
type MissionDraft struct {
	Title     string `json:"title"`
	Objective string `json:"objective"`
	Posture   string `json:"posture"`
}

// ConvertToDraftRequest contains parameters for drafting a mission from a thread.
type ConvertToDraftRequest struct {
	ThreadID  string       `json:"thread_id"`
	Overrides MissionDraft `json:"overrides"`
}

// ApproveDraftRequest contains parameters for approving a mission draft.
type ApproveDraftRequest struct {
	ThreadID string       `json:"thread_id"`
	Draft    MissionDraft `json:"draft"`
	StartNow bool         `json:"start_now"`
}

// ApproveDraftResponse contains the mission created from a draft.
type ApproveDraftResponse struct {
	MissionID string   `json:"mission_id"`
	ThreadID  string   `json:"thread_id"`
	Mission   *Mission `json:"mission"`
}

// DuplicateRunRequest contains parameters for starting a new run.
type DuplicateRunRequest struct {
	MissionID      string `json:"mission_id"`
	SourceThreadID string `json:"source_thread_id"`
	StartNow       bool   `json:"start_now"`
}

// DuplicateRunResponse contains the new run's mission and thread.
type DuplicateRunResponse struct {
	MissionID string   `json:"mission_id"`
	ThreadID  string   `json:"thread_id"`
	Reply     *Message `json:"reply"`
}
