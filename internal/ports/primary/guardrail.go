package primary

import "context"

// GuardrailService defines the primary port for guardrails (outreach rules).
type GuardrailService interface {
	CreateGuardrail(ctx context.Context, req CreateGuardrailRequest) (*Guardrail, error)
	GetGuardrail(ctx context.Context, id string) (*Guardrail, error)
	ListGuardrails(ctx context.Context, filters GuardrailFilters) ([]*Guardrail, error)
	UpdateGuardrail(ctx context.Context, req UpdateGuardrailRequest) (*Guardrail, error)
}

// Guardrail represents a rule at the port boundary.
type Guardrail struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Scope     string         `json:"scope"`
	Value     map[string]any `json:"value"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// CreateGuardrailRequest contains parameters for creating a guardrail.
type CreateGuardrailRequest struct {
	Type  string         `json:"type"`
	Scope string         `json:"scope"`
	Value map[string]any `json:"value"`
}

// UpdateGuardrailRequest contains the guardrail fields to patch.
type UpdateGuardrailRequest struct {
	GuardrailID string         `json:"-"`
	Type        *string        `json:"type"`
	Scope       *string        `json:"scope"`
	Value       map[string]any `json:"value"`
}

// GuardrailFilters contains filter options for listing guardrails.
type GuardrailFilters struct {
	Type  string
	Scope string
}
