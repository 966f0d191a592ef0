package primary

import "context"

// EventService defines the primary port for the append-only event log.
type EventService interface {
	// ListEvents returns events matching filters, newest first.
	ListEvents(ctx context.Context, filters EventFilters) ([]*Event, error)

	// RecordEvent appends an externally reported event (e.g. a frontend error).
	RecordEvent(ctx context.Context, req RecordEventRequest) (*Event, error)

	// PruneEvents deletes events older than the given number of days.
	PruneEvents(ctx context.Context, olderThanDays int) (int, error)
}

// Event represents a log entry at the port boundary.
type Event struct {
	ID        string         `json:"id"`
	EventName string         `json:"event_name"`
	Source    string         `json:"source"`
	AgentName string         `json:"agent_name,omitempty"`
	MissionID string         `json:"mission_id,omitempty"`
	HotLeadID string         `json:"hotlead_id,omitempty"`
	ThreadID  string         `json:"thread_id,omitempty"`
	Payload   map[string]any `json:"payload"`
	Timestamp string         `json:"timestamp"`
}

// EventFilters contains filter options for querying events.
// Since and Until bound the timestamp inclusively.
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

// RecordEventRequest contains parameters for recording an external event.
type RecordEventRequest struct {
	EventName string         `json:"event_name"`
	Source    string         `json:"source"`
	AgentName string         `json:"agent_name"`
	MissionID string         `json:"mission_id"`
	HotLeadID string         `json:"hotlead_id"`
	ThreadID  string         `json:"thread_id"`
	Payload   map[string]any `json:"payload"`
}
