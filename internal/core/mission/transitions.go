// Package mission contains the pure business logic for mission operations.
// This is part of the Functional Core - no I/O, only pure functions.
package mission

import "github.com/example/praetor/internal/core/event"

// State represents the lifecycle state of a mission.
type State string

const (
	StateDraft    State = "draft"
	StateScanning State = "scanning"
	StateEngaging State = "engaging"
	StatePaused   State = "paused"
	StateComplete State = "complete"
	StateAborted  State = "aborted"
)

// Posture governs what outreach a mission permits.
type Posture string

const (
	PostureHelpOnly              Posture = "help_only"
	PostureHelpPlusSoftMarketing Posture = "help_plus_soft_marketing"
	PostureResearchOnly          Posture = "research_only"
)

// DefaultPosture is applied when a mission is created without one.
const DefaultPosture = PostureResearchOnly

// IsValidPosture reports whether p is a known posture.
func IsValidPosture(p Posture) bool {
	switch p {
	case PostureHelpOnly, PostureHelpPlusSoftMarketing, PostureResearchOnly:
		return true
	}
	return false
}

// IsValidState reports whether s is a known state.
func IsValidState(s State) bool {
	switch s {
	case StateDraft, StateScanning, StateEngaging, StatePaused, StateComplete, StateAborted:
		return true
	}
	return false
}

// IsActive reports whether the mission is running (scanning or engaging).
func IsActive(s State) bool {
	return s == StateScanning || s == StateEngaging
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(s State) bool {
	return s == StateComplete || s == StateAborted
}

// HoldsPosture reports whether the mission's posture counts toward the
// Legatus posture rule: every state except draft and the terminal ones.
func HoldsPosture(s State) bool {
	return s != StateDraft && !IsTerminal(s)
}

// InitialState returns the state of a newly created mission.
func InitialState() State {
	return StateDraft
}

// Target is a requested state change.
type Target string

const (
	TargetPaused   Target = "paused"
	TargetResume   Target = "resume"
	TargetAborted  Target = "aborted"
	TargetComplete Target = "complete"
	TargetScanning Target = "scanning"
	TargetEngaging Target = "engaging"
)

// ParseTarget maps a requested state string (including aliases) to a Target.
func ParseTarget(s string) (Target, bool) {
	switch s {
	case "paused", "pause":
		return TargetPaused, true
	case "resume", "resumed":
		return TargetResume, true
	case "aborted", "abort":
		return TargetAborted, true
	case "complete", "completed":
		return TargetComplete, true
	case "scanning", "start":
		return TargetScanning, true
	case "engaging", "engage":
		return TargetEngaging, true
	}
	return "", false
}

// StateTransitionResult captures the new state and its side effects.
type StateTransitionResult struct {
	NewState            State
	PreviousActiveState State // empty clears the stored value
	EventName           string
}

// ApplyStateTransition computes the result of a transition already allowed
// by CanTransition.
func ApplyStateTransition(ctx TransitionContext, target Target) StateTransitionResult {
	switch target {
	case TargetPaused:
		return StateTransitionResult{NewState: StatePaused, PreviousActiveState: ctx.Current, EventName: event.MissionPaused}
	case TargetResume:
		restored := ctx.PreviousActive
		if !IsActive(restored) {
			restored = StateScanning
		}
		return StateTransitionResult{NewState: restored, EventName: event.MissionResumed}
	case TargetAborted:
		return StateTransitionResult{NewState: StateAborted, EventName: event.MissionAborted}
	case TargetComplete:
		return StateTransitionResult{NewState: StateComplete, EventName: event.MissionCompleted}
	case TargetScanning:
		return StateTransitionResult{NewState: StateScanning, EventName: event.MissionStarted}
	case TargetEngaging:
		return StateTransitionResult{NewState: StateEngaging, EventName: event.MissionEngaged}
	}
	return StateTransitionResult{NewState: ctx.Current}
}
