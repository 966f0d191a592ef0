package primary

import "context"

// AgentService defines the primary port for the agent registry.
// Every read evaluates lazy recovery and the Legatus posture rule.
type AgentService interface {
	// GetAgents returns the full roster, seeding missing agents and applying
	// any due recovery or posture change before returning.
	GetAgents(ctx context.Context) ([]*Agent, error)

	// GetAgent returns one agent after the same evaluation as GetAgents.
	GetAgent(ctx context.Context, name string) (*Agent, error)

	// TriggerError puts an agent into red with a scheduled retry.
	TriggerError(ctx context.Context, req TriggerErrorRequest) (*Agent, error)

	// AppendActivity appends an entry to an agent's activity stream.
	AppendActivity(ctx context.Context, req AppendActivityRequest) (*Agent, error)
}

// Agent represents an agent at the port boundary.
type Agent struct {
	ID             string          `json:"id"`
	AgentName      string          `json:"agent_name"`
	StatusLight    string          `json:"status_light"`
	ErrorState     *string         `json:"error_state"`
	NextRetryAt    *string         `json:"next_retry_at"`
	ActivityStream []ActivityEntry `json:"activity_stream"`
	UpdatedAt      string          `json:"updated_at"`
}

// ActivityEntry is one line of an agent's activity stream.
type ActivityEntry struct {
	Who       string `json:"who"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Channel   string `json:"channel,omitempty"`
}

// TriggerErrorRequest contains parameters for putting an agent into error.
type TriggerErrorRequest struct {
	AgentName    string  `json:"-"`
	ErrorCode    string  `json:"error_code"`
	RetryMinutes float64 `json:"retry_minutes"`
}

// AppendActivityRequest contains parameters for appending activity.
type AppendActivityRequest struct {
	AgentName string `json:"-"`
	Who       string `json:"who"`
	Content   string `json:"content"`
	Channel   string `json:"channel"`
}
