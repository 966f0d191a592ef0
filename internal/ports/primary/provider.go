package primary

import "context"

// ProviderService defines the primary port for LLM provider information.
type ProviderService interface {
	// ListModels lists the models the provider offers and the selected default.
	ListModels(ctx context.Context) (*ModelList, error)

	// Health reports whether the provider answers.
	Health(ctx context.Context) (*ProviderHealth, error)

	// DefaultModel returns the model Praefectus talks to.
	DefaultModel(ctx context.Context) (string, error)
}

// ModelList is the provider's model catalogue.
type ModelList struct {
	Models  []string `json:"models"`
	Default string   `json:"default"`
}

// ProviderHealth reports provider reachability.
type ProviderHealth struct {
	OK           bool   `json:"ok"`
	Provider     string `json:"provider"`
	DefaultModel string `json:"default_model,omitempty"`
	Detail       string `json:"detail,omitempty"`
}
