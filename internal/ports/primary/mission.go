// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import "context"

// MissionService defines the primary port for mission operations.
type MissionService interface {
	// CreateMission creates a new draft mission.
	CreateMission(ctx context.Context, req CreateMissionRequest) (*CreateMissionResponse, error)

	// GetMission retrieves a mission by ID, migrating legacy insights on read.
	GetMission(ctx context.Context, missionID string) (*Mission, error)

	// ListMissions lists missions with optional filters, most recently updated first.
	ListMissions(ctx context.Context, filters MissionFilters) ([]*Mission, error)

	// UpdateMission patches mission fields. State is changed only through SetState.
	UpdateMission(ctx context.Context, req UpdateMissionRequest) (*Mission, error)

	// SetState drives the mission lifecycle state machine.
	SetState(ctx context.Context, req SetStateRequest) (*Mission, error)

	// DuplicateMission creates a fresh draft copied from an existing mission.
	DuplicateMission(ctx context.Context, missionID string) (*CreateMissionResponse, error)
}

// CreateMissionRequest contains parameters for creating a mission.
type CreateMissionRequest struct {
	Title          string   `json:"title"`
	Objective      string   `json:"objective"`
	Posture        string   `json:"posture"`
	Insights       []string `json:"insights"`
	AgentsAssigned []string `json:"agents_assigned"`
}

// CreateMissionResponse contains the result of creating a mission.
type CreateMissionResponse struct {
	MissionID string   `json:"mission_id"`
	Mission   *Mission `json:"mission"`
}

// UpdateMissionRequest contains the fields to patch. Nil fields are left unchanged.
type UpdateMissionRequest struct {
	MissionID      string     `json:"-"`
	Title          *string    `json:"title"`
	Objective      *string    `json:"objective"`
	Posture        *string    `json:"posture"`
	Counters       *Counters  `json:"counters"`
	Insights       *[]string  `json:"insights"`
	InsightsRich   *[]Insight `json:"insights_rich"`
	AgentsAssigned *[]string  `json:"agents_assigned"`
}

// SetStateRequest contains parameters for a lifecycle transition.
type SetStateRequest struct {
	MissionID string `json:"-"`
	State     string `json:"state"`
}

// MissionFilters contains filter options for listing missions.
type MissionFilters struct {
	State string
	Limit int
}

// Counters are the running tallies of a mission.
type Counters struct {
	ForumsFound    int `json:"forums_found"`
	ProspectsAdded int `json:"prospects_added"`
	HotLeads       int `json:"hot_leads"`
}

// Insight is a timestamped note on a mission.
type Insight struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Mission represents a mission entity at the port boundary.
type Mission struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Objective           string    `json:"objective"`
	Posture             string    `json:"posture"`
	State               string    `json:"state"`
	PreviousActiveState *string   `json:"previous_active_state"`
	Counters            Counters  `json:"counters"`
	Insights            []string  `json:"insights"`
	InsightsRich        []Insight `json:"insights_rich"`
	AgentsAssigned      []string  `json:"agents_assigned"`
	CreatedAt           string    `json:"created_at"`
	UpdatedAt           string    `json:"updated_at"`
}
