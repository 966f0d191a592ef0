package agent

import "time"

// State is the persisted status of one agent.
type State struct {
	Name        string
	Status      StatusLight
	ErrorState  string
	NextRetryAt time.Time // zero when no retry is scheduled
}

// HasPendingRetry reports whether an error with a scheduled retry is recorded.
func (s State) HasPendingRetry() bool {
	return s.ErrorState != "" && !s.NextRetryAt.IsZero()
}

// Action is what a read must do to bring an agent up to date.
type Action int

const (
	// ActionNone leaves the agent untouched.
	ActionNone Action = iota
	// ActionRecover clears error_state and next_retry_at and sets Status.
	ActionRecover
	// ActionRestatus changes only the status light (posture rule).
	ActionRestatus
)

// Evaluation is the outcome of Evaluate.
type Evaluation struct {
	Action Action
	Status StatusLight
}

// Evaluate decides how an agent read at now should update the agent.
// A red agent is only ever left by recovery; the posture rule never touches it.
func Evaluate(s State, now time.Time, in PostureInput) Evaluation {
	if s.Status == StatusRed {
		if s.HasPendingRetry() && !now.Before(s.NextRetryAt) {
			return Evaluation{Action: ActionRecover, Status: RecoveryStatus(s.Name, in)}
		}
		return Evaluation{Action: ActionNone, Status: s.Status}
	}
	if s.Name == Legatus {
		if desired := PostureStatus(in); desired != s.Status {
			return Evaluation{Action: ActionRestatus, Status: desired}
		}
	}
	return Evaluation{Action: ActionNone, Status: s.Status}
}

// ErrorTransition is the result of putting an agent into error.
type ErrorTransition struct {
	Status      StatusLight
	ErrorState  string
	NextRetryAt time.Time
}

// ApplyError computes the red state for errorCode with a retry after retryMinutes.
// Fractional minutes are honoured.
func ApplyError(errorCode string, retryMinutes float64, now time.Time) ErrorTransition {
	return ErrorTransition{
		Status:      StatusRed,
		ErrorState:  errorCode,
		NextRetryAt: now.Add(time.Duration(retryMinutes * float64(time.Minute))),
	}
}
