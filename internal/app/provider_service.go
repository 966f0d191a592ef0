package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/core/event"
	coreprovider "github.com/example/praetor/internal/core/provider"
	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/primary"
	"github.com/example/praetor/internal/ports/secondary"
)

// ModelCacheTTL is how long a fetched model list is reused.
const ModelCacheTTL = time.Hour

var errNoModels = errors.New("provider offers no models")

// ProviderServiceImpl implements the ProviderService interface.
type ProviderServiceImpl struct {
	llm        secondary.LLMClient
	events     secondary.EventWriter
	clock      clock.Clock
	configured string

	mu        sync.Mutex
	models    []string
	fetchedAt time.Time
	selected  string
}

// NewProviderService creates a new ProviderService. configured is the model
// from config; "auto" or empty selects one from the provider's list.
func NewProviderService(llm secondary.LLMClient, events secondary.EventWriter, clk clock.Clock, configured string) *ProviderServiceImpl {
	return &ProviderServiceImpl{
		llm:        llm,
		events:     events,
		clock:      clk,
		configured: configured,
	}
}

// ListModels lists the provider's models and the selected default.
func (s *ProviderServiceImpl) ListModels(ctx context.Context) (*primary.ModelList, error) {
	models, err := s.fetchModels(ctx)
	if err != nil {
		return nil, err
	}
	def, err := s.DefaultModel(ctx)
	if err != nil {
		return nil, err
	}
	return &primary.ModelList{Models: models, Default: def}, nil
}

// Health reports whether the provider answers a model listing.
// A failing provider is a result, not an error.
func (s *ProviderServiceImpl) Health(ctx context.Context) (*primary.ProviderHealth, error) {
	health := &primary.ProviderHealth{Provider: s.llm.Name()}
	def, err := s.DefaultModel(ctx)
	if err != nil {
		health.Detail = err.Error()
		return health, nil
	}
	health.OK = true
	health.DefaultModel = def
	return health, nil
}

// DefaultModel returns the configured model, or auto-selects one.
// A changed auto-selection is recorded as provider_selected_default.
func (s *ProviderServiceImpl) DefaultModel(ctx context.Context) (string, error) {
	if !coreprovider.IsAuto(s.configured) {
		return s.configured, nil
	}

	models, err := s.fetchModels(ctx)
	if err != nil {
		return "", err
	}
	chosen := coreprovider.SelectDefault(models)
	if chosen == "" {
		return "", errs.Upstream(s.llm.Name(), errNoModels)
	}

	s.mu.Lock()
	changed := chosen != s.selected
	s.selected = chosen
	s.mu.Unlock()

	if changed {
		appendEvent(ctx, s.events, &secondary.EventRecord{
			EventName: event.ProviderSelectedDefault,
			Payload:   map[string]any{"model": chosen, "provider": s.llm.Name(), "candidates": len(models)},
		})
	}
	return chosen, nil
}

// fetchModels returns the cached model list, refreshing it after ModelCacheTTL.
func (s *ProviderServiceImpl) fetchModels(ctx context.Context) ([]string, error) {
	now := s.clock.Now()

	s.mu.Lock()
	if s.models != nil && now.Sub(s.fetchedAt) < ModelCacheTTL {
		models := s.models
		s.mu.Unlock()
		return models, nil
	}
	s.mu.Unlock()

	// The provider call runs without the lock held.
	models, err := s.llm.ListModels(ctx)
	if err != nil {
		return nil, errs.Upstream(s.llm.Name(), err)
	}
	if models == nil {
		models = []string{}
	}

	s.mu.Lock()
	s.models = models
	s.fetchedAt = now
	s.mu.Unlock()
	return models, nil
}

// Ensure ProviderServiceImpl implements the interface
var _ primary.ProviderService = (*ProviderServiceImpl)(nil)
