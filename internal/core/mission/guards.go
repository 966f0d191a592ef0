package mission

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// TransitionContext provides the mission state a transition guard reads.
type TransitionContext struct {
	MissionID      string
	Current        State
	PreviousActive State
}

// CanTransition evaluates whether target is permitted from the current state.
func CanTransition(ctx TransitionContext, target Target) GuardResult {
	switch target {
	case TargetPaused:
		return CanPause(ctx)
	case TargetResume:
		return CanResume(ctx)
	case TargetAborted:
		return CanAbort(ctx)
	case TargetComplete:
		return CanComplete(ctx)
	case TargetScanning:
		return CanStart(ctx)
	case TargetEngaging:
		return CanEngage(ctx)
	}
	return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown target state %q", target)}
}

// CanPause evaluates whether a mission can be paused.
// Rule: only running missions (scanning or engaging) can be paused.
func CanPause(ctx TransitionContext) GuardResult {
	if !IsActive(ctx.Current) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only pause running missions (current state: %s)", ctx.Current),
		}
	}
	return GuardResult{Allowed: true}
}

// CanResume evaluates whether a mission can be resumed.
func CanResume(ctx TransitionContext) GuardResult {
	if ctx.Current != StatePaused {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only resume paused missions (current state: %s)", ctx.Current),
		}
	}
	return GuardResult{Allowed: true}
}

// CanAbort evaluates whether a mission can be aborted.
// Rule: any non-terminal mission can be aborted, drafts included.
func CanAbort(ctx TransitionContext) GuardResult {
	if IsTerminal(ctx.Current) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("mission %s is already %s", ctx.MissionID, ctx.Current),
		}
	}
	return GuardResult{Allowed: true}
}

// CanComplete evaluates whether a mission can be completed.
func CanComplete(ctx TransitionContext) GuardResult {
	if !IsActive(ctx.Current) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only complete running missions (current state: %s)", ctx.Current),
		}
	}
	return GuardResult{Allowed: true}
}

// CanStart evaluates whether a draft can begin scanning.
func CanStart(ctx TransitionContext) GuardResult {
	if ctx.Current != StateDraft {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only start draft missions (current state: %s)", ctx.Current),
		}
	}
	return GuardResult{Allowed: true}
}

// CanEngage evaluates whether a scanning mission can move to engaging.
func CanEngage(ctx TransitionContext) GuardResult {
	if ctx.Current != StateScanning {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only engage scanning missions (current state: %s)", ctx.Current),
		}
	}
	return GuardResult{Allowed: true}
}

// CreateContext holds the fields validated on mission creation.
type CreateContext struct {
	Title     string
	Objective string
	Posture   Posture
}

// ValidateCreate returns field problems for a new mission, or nil.
// An empty posture is accepted (DefaultPosture is applied).
func ValidateCreate(ctx CreateContext) map[string]string {
	problems := map[string]string{}
	if strings.TrimSpace(ctx.Title) == "" {
		problems["title"] = "title is required"
	}
	if strings.TrimSpace(ctx.Objective) == "" {
		problems["objective"] = "objective is required"
	}
	if ctx.Posture != "" && !IsValidPosture(ctx.Posture) {
		problems["posture"] = fmt.Sprintf("unknown posture %q", ctx.Posture)
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}
