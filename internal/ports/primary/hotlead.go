package primary

import "context"

// HotLeadService defines the primary port for hot leads.
type HotLeadService interface {
	CreateHotLead(ctx context.Context, req CreateHotLeadRequest) (*HotLead, error)
	GetHotLead(ctx context.Context, id string) (*HotLead, error)
	ListHotLeads(ctx context.Context, filters HotLeadFilters) ([]*HotLead, error)

	// UpdateScript replaces the draft outreach script.
	UpdateScript(ctx context.Context, req UpdateScriptRequest) (*HotLead, error)

	// SetStatus records a review decision. Approved leads count as active outreach.
	SetStatus(ctx context.Context, req SetHotLeadStatusRequest) (*HotLead, error)
}

// HotLead represents a hot lead at the port boundary.
type HotLead struct {
	ID          string `json:"id"`
	MissionID   string `json:"mission_id"`
	ForumID     string `json:"forum_id,omitempty"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	DraftScript string `json:"draft_script"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CreateHotLeadRequest contains parameters for creating a hot lead.
type CreateHotLeadRequest struct {
	MissionID   string `json:"mission_id"`
	ForumID     string `json:"forum_id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	DraftScript string `json:"draft_script"`
}

// HotLeadFilters contains filter options for listing hot leads.
type HotLeadFilters struct {
	MissionID string
	Status    string
}

// UpdateScriptRequest contains the new script.
type UpdateScriptRequest struct {
	HotLeadID   string `json:"-"`
	DraftScript string `json:"draft_script"`
}

// SetHotLeadStatusRequest contains a review decision.
type SetHotLeadStatusRequest struct {
	HotLeadID string `json:"-"`
	Status    string `json:"status"`
}
