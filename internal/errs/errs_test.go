package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "validation", err: Validation("title", "required"), want: ErrValidation},
		{name: "not found", err: NotFound("mission", "m-1"), want: ErrNotFound},
		{name: "transition", err: InvalidTransition("draft", "paused", ""), want: ErrInvalidTransition},
		{name: "agent", err: &InvalidAgentError{Name: "Centurion"}, want: ErrInvalidAgent},
		{name: "upstream", err: Upstream("llm", errors.New("timeout")), want: ErrUpstream},
		{name: "wrapped", err: fmt.Errorf("failed to get mission: %w", NotFound("mission", "m-2")), want: ErrNotFound},
		{name: "plain", err: errors.New("disk full"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidationError_OrNil(t *testing.T) {
	v := &ValidationError{}
	if v.OrNil() != nil {
		t.Error("empty ValidationError should be nil")
	}
	v.Add("title", "required").Add("objective", "required")
	err := v.OrNil()
	if err == nil {
		t.Fatal("expected error")
	}
	want := "validation error: objective: required; title: required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUpstreamError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Upstream("llm", cause)
	if !errors.Is(err, cause) {
		t.Error("expected Upstream to unwrap to its cause")
	}
	var target *UpstreamError
	if !errors.As(fmt.Errorf("send: %w", err), &target) || target.Service != "llm" {
		t.Errorf("errors.As failed, got %+v", target)
	}
}
