package primary

import "context"

// ForumService defines the primary port for tracked forums.
type ForumService interface {
	CreateForum(ctx context.Context, req CreateForumRequest) (*Forum, error)
	GetForum(ctx context.Context, id string) (*Forum, error)
	ListForums(ctx context.Context) ([]*Forum, error)
	UpdateForum(ctx context.Context, req UpdateForumRequest) (*Forum, error)

	// CheckLink probes the forum URL and records ok, not_found or blocked.
	CheckLink(ctx context.Context, id string) (*Forum, error)
}

// Forum represents a tracked forum at the port boundary.
type Forum struct {
	ID             string   `json:"id"`
	Platform       string   `json:"platform"`
	Name           string   `json:"name"`
	URL            string   `json:"url"`
	RuleProfile    string   `json:"rule_profile"`
	TopicTags      []string `json:"topic_tags"`
	SizeVelocity   string   `json:"size_velocity,omitempty"`
	RelevanceNotes string   `json:"relevance_notes,omitempty"`
	LastSeenAt     string   `json:"last_seen_at,omitempty"`
	LinkStatus     string   `json:"link_status,omitempty"`
	LastCheckedAt  string   `json:"last_checked_at,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// CreateForumRequest contains parameters for creating a forum.
type CreateForumRequest struct {
	Platform       string   `json:"platform"`
	Name           string   `json:"name"`
	URL            string   `json:"url"`
	RuleProfile    string   `json:"rule_profile"`
	TopicTags      []string `json:"topic_tags"`
	SizeVelocity   string   `json:"size_velocity"`
	RelevanceNotes string   `json:"relevance_notes"`
	LastSeenAt     string   `json:"last_seen_at"`
}

// UpdateForumRequest contains the forum fields to patch.
type UpdateForumRequest struct {
	ForumID        string    `json:"-"`
	Platform       *string   `json:"platform"`
	Name           *string   `json:"name"`
	URL            *string   `json:"url"`
	RuleProfile    *string   `json:"rule_profile"`
	TopicTags      *[]string `json:"topic_tags"`
	SizeVelocity   *string   `json:"size_velocity"`
	RelevanceNotes *string   `json:"relevance_notes"`
	LastSeenAt     *string   `json:"last_seen_at"`
}
