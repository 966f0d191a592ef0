package thread

import (
	"strings"

	"github.com/example/praetor/internal/core/mission"
)

// RunControl is an imperative phrase that drives the linked mission instead
// of being sent to the LLM.
type RunControl string

const (
	ControlNone   RunControl = ""
	ControlCreate RunControl = "create"
	ControlRun    RunControl = "run"
	ControlPause  RunControl = "pause"
	ControlStop   RunControl = "stop"
	ControlAbort  RunControl = "abort"
)

var controlPhrases = []struct {
	phrase  string
	control RunControl
}{
	{"approve and create mission now", ControlCreate},
	{"create & start mission now", ControlCreate},
	{"create and start mission now", ControlCreate},
	{"create mission now", ControlCreate},
	{"run mission now", ControlRun},
	{"pause mission", ControlPause},
	{"stop mission", ControlStop},
	{"abort mission", ControlAbort},
}

// ParseRunControl detects a run-control phrase in a human message.
// The whole message must be the phrase; surrounding punctuation is ignored.
func ParseRunControl(text string) RunControl {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.TrimRight(normalized, ".!")
	normalized = strings.Join(strings.Fields(normalized), " ")
	for _, p := range controlPhrases {
		if normalized == p.phrase {
			return p.control
		}
	}
	return ControlNone
}

// RunPlan is what a run control does to the linked mission.
type RunPlan int

const (
	// PlanCreate creates (and starts) a mission from the thread.
	PlanCreate RunPlan = iota
	// PlanTransition applies Target to the linked mission.
	PlanTransition
	// PlanDuplicate starts a fresh run copied from a terminal mission.
	PlanDuplicate
	// PlanNoop leaves the mission alone and reports its state.
	PlanNoop
)

// Decision pairs a plan with the mission target it applies.
type Decision struct {
	Plan   RunPlan
	Target mission.Target
}

// DecideRunControl chooses what a run control does given the linked
// mission's state (empty when the thread is unlinked).
func DecideRunControl(control RunControl, state mission.State) Decision {
	if state == "" {
		if control == ControlCreate || control == ControlRun {
			return Decision{Plan: PlanCreate}
		}
		return Decision{Plan: PlanNoop}
	}
	switch control {
	case ControlCreate, ControlRun:
		switch {
		case state == mission.StateDraft:
			return Decision{Plan: PlanTransition, Target: mission.TargetScanning}
		case state == mission.StatePaused:
			return Decision{Plan: PlanTransition, Target: mission.TargetResume}
		case mission.IsTerminal(state):
			return Decision{Plan: PlanDuplicate}
		}
		return Decision{Plan: PlanNoop}
	case ControlPause:
		return Decision{Plan: PlanTransition, Target: mission.TargetPaused}
	case ControlStop:
		return Decision{Plan: PlanTransition, Target: mission.TargetComplete}
	case ControlAbort:
		return Decision{Plan: PlanTransition, Target: mission.TargetAborted}
	}
	return Decision{Plan: PlanNoop}
}
