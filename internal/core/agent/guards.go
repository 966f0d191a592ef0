package agent

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
	Field   string // Offending input field, when the failure is about one
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// TriggerErrorContext provides the input for CanTriggerError.
type TriggerErrorContext struct {
	AgentName    string
	ErrorCode    string
	RetryMinutes float64
}

// CanTriggerError evaluates whether an error can be recorded for an agent.
// The agent name is checked separately with IsKnown.
func CanTriggerError(ctx TriggerErrorContext) GuardResult {
	if strings.TrimSpace(ctx.ErrorCode) == "" {
		return GuardResult{Allowed: false, Reason: "error_code is required", Field: "error_code"}
	}
	if ctx.RetryMinutes <= 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("retry_minutes must be positive (got %g)", ctx.RetryMinutes),
			Field:   "retry_minutes",
		}
	}
	return GuardResult{Allowed: true}
}

// CanAppendActivity evaluates whether an activity entry is well formed.
func CanAppendActivity(who, content string) GuardResult {
	if strings.TrimSpace(content) == "" {
		return GuardResult{Allowed: false, Reason: "content is required", Field: "content"}
	}
	if strings.TrimSpace(who) == "" {
		return GuardResult{Allowed: false, Reason: "who is required", Field: "who"}
	}
	return GuardResult{Allowed: true}
}
