package primary

import "context"

// FindingService defines the primary port for findings.
type FindingService interface {
	ListFindings(ctx context.Context, filters FindingFilters) ([]*Finding, error)
	GetFinding(ctx context.Context, id string) (*Finding, error)
	UpdateFinding(ctx context.Context, req UpdateFindingRequest) (*Finding, error)

	// SnapshotFindings records the recent turns of a mission-linked thread as a finding.
	SnapshotFindings(ctx context.Context, threadID string) (*Finding, error)

	// ExportFinding renders a finding as a downloadable file (md or csv).
	ExportFinding(ctx context.Context, id, format string) (*FindingExport, error)
}

// Finding represents a finding at the port boundary.
type Finding struct {
	ID           string         `json:"id"`
	MissionID    string         `json:"mission_id"`
	ThreadID     string         `json:"thread_id,omitempty"`
	Title        string         `json:"title"`
	BodyMarkdown string         `json:"body_markdown"`
	Highlights   []string       `json:"highlights"`
	Metrics      map[string]any `json:"metrics"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
}

// FindingFilters contains filter options for listing findings.
type FindingFilters struct {
	MissionID string
	Limit     int
}

// UpdateFindingRequest contains the finding fields to patch.
type UpdateFindingRequest struct {
	FindingID    string          `json:"-"`
	Title        *string         `json:"title"`
	BodyMarkdown *string         `json:"body_markdown"`
	Highlights   *[]string       `json:"highlights"`
	Metrics      *map[string]any `json:"metrics"`
}

// FindingExport is a rendered finding file.
type FindingExport struct {
	Filename    string
	ContentType string
	Content     []byte
}
