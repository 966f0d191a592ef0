package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/core/event"
	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/primary"
	"github.com/example/praetor/internal/ports/secondary"
)

// DefaultGuardrailScope applies when a guardrail names no scope.
const DefaultGuardrailScope = "global"

// GuardrailServiceImpl implements the GuardrailService interface.
type GuardrailServiceImpl struct {
	guardrailRepo secondary.GuardrailRepository
	events        secondary.EventWriter
	clock         clock.Clock
}

// NewGuardrailService creates a new GuardrailService with injected dependencies.
func NewGuardrailService(guardrailRepo secondary.GuardrailRepository, events secondary.EventWriter, clk clock.Clock) *GuardrailServiceImpl {
	return &GuardrailServiceImpl{
		guardrailRepo: guardrailRepo,
		events:        events,
		clock:         clk,
	}
}

// CreateGuardrail creates a new guardrail.
func (s *GuardrailServiceImpl) CreateGuardrail(ctx context.Context, req primary.CreateGuardrailRequest) (*primary.Guardrail, error) {
	if strings.TrimSpace(req.Type) == "" {
		return nil, errs.Validation("type", "type is required")
	}
	scope := strings.TrimSpace(req.Scope)
	if scope == "" {
		scope = DefaultGuardrailScope
	}
	value := req.Value
	if value == nil {
		value = map[string]any{}
	}

	stamp := clock.Stamp(s.clock)
	record := &secondary.GuardrailRecord{
		ID:        uuid.NewString(),
		Type:      strings.TrimSpace(req.Type),
		Scope:     scope,
		Value:     value,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
	if err := s.guardrailRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create guardrail: %w", err)
	}

	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.GuardrailCreated,
		Payload:   map[string]any{"guardrail_id": record.ID, "type": record.Type, "scope": record.Scope},
	})
	return recordToGuardrail(record), nil
}

// GetGuardrail retrieves a guardrail by ID.
func (s *GuardrailServiceImpl) GetGuardrail(ctx context.Context, id string) (*primary.Guardrail, error) {
	record, err := s.guardrailRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToGuardrail(record), nil
}

// ListGuardrails lists guardrails with optional filters.
func (s *GuardrailServiceImpl) ListGuardrails(ctx context.Context, filters primary.GuardrailFilters) ([]*primary.Guardrail, error) {
	records, err := s.guardrailRepo.List(ctx, secondary.GuardrailFilters{Type: filters.Type, Scope: filters.Scope})
	if err != nil {
		return nil, fmt.Errorf("failed to list guardrails: %w", err)
	}
	out := make([]*primary.Guardrail, len(records))
	for i, r := range records {
		out[i] = recordToGuardrail(r)
	}
	return out, nil
}

// UpdateGuardrail patches a guardrail. A provided value replaces the stored one.
func (s *GuardrailServiceImpl) UpdateGuardrail(ctx context.Context, req primary.UpdateGuardrailRequest) (*primary.Guardrail, error) {
	if req.Type != nil && strings.TrimSpace(*req.Type) == "" {
		return nil, errs.Validation("type", "type cannot be empty")
	}

	record, err := s.guardrailRepo.GetByID(ctx, req.GuardrailID)
	if err != nil {
		return nil, err
	}
	if req.Type != nil {
		record.Type = strings.TrimSpace(*req.Type)
	}
	if req.Scope != nil {
		record.Scope = strings.TrimSpace(*req.Scope)
		if record.Scope == "" {
			record.Scope = DefaultGuardrailScope
		}
	}
	if req.Value != nil {
		record.Value = req.Value
	}
	record.UpdatedAt = clock.Stamp(s.clock)

	if err := s.guardrailRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update guardrail: %w", err)
	}

	appendEvent(ctx, s.events, &secondary.EventRecord{
		EventName: event.GuardrailUpdated,
		Payload:   map[string]any{"guardrail_id": record.ID, "type": record.Type, "scope": record.Scope},
	})
	return recordToGuardrail(record), nil
}

func recordToGuardrail(r *secondary.GuardrailRecord) *primary.Guardrail {
	value := r.Value
	if value == nil {
		value = map[string]any{}
	}
	return &primary.Guardrail{
		ID:        r.ID,
		Type:      r.Type,
		Scope:     r.Scope,
		Value:     value,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Ensure GuardrailServiceImpl implements the interface
var _ primary.GuardrailService = (*GuardrailServiceImpl)(nil)
