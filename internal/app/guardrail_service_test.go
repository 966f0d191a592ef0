package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/praetor/internal/core/event"
	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/primary"
)

func TestGuardrailService_CreateAndUpdate(t *testing.T) {
	repo := newMockGuardrailRepository()
	events := newMockEventWriter()
	service := NewGuardrailService(repo, events, newTestClock(t))
	ctx := context.Background()

	g, err := service.CreateGuardrail(ctx, primary.CreateGuardrailRequest{Type: "max_posts_per_day"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if g.Scope != DefaultGuardrailScope || g.Value == nil {
		t.Errorf("guardrail = %+v", g)
	}

	scope := "reddit"
	updated, err := service.UpdateGuardrail(ctx, primary.UpdateGuardrailRequest{
		GuardrailID: g.ID,
		Scope:       &scope,
		Value:       map[string]any{"limit": 3},
	})
	if err != nil {
		t.Fatalf("UpdateGuardrail() error = %v", err)
	}
	if updated.Scope != "reddit" || updated.Value["limit"] != 3 || updated.Type != "max_posts_per_day" {
		t.Errorf("updated = %+v", updated)
	}

	list, _ := service.ListGuardrails(ctx, primary.GuardrailFilters{Scope: "reddit"})
	if len(list) != 1 {
		t.Errorf("filtered list len = %d, want 1", len(list))
	}

	if events.count(event.GuardrailCreated) != 1 || events.count(event.GuardrailUpdated) != 1 {
		t.Errorf("events = %v", events.names())
	}
}

func TestGuardrailService_Rejects(t *testing.T) {
	service := NewGuardrailService(newMockGuardrailRepository(), newMockEventWriter(), newTestClock(t))
	ctx := context.Background()

	if _, err := service.CreateGuardrail(ctx, primary.CreateGuardrailRequest{Type: "  "}); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("empty type error = %v", err)
	}
	empty := ""
	if _, err := service.UpdateGuardrail(ctx, primary.UpdateGuardrailRequest{GuardrailID: "g-1", Type: &empty}); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("blank type update error = %v", err)
	}
	if _, err := service.GetGuardrail(ctx, "ghost"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("unknown guardrail error = %v", err)
	}
}
