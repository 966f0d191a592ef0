// Package thread contains the pure business logic for mission control
// threads: status derivation, run-control phrases, draft extraction and the
// Praefectus conversation prompt.
package thread

import "github.com/example/praetor/internal/core/mission"

// Status is the display status of a thread, derived from its linked mission.
type Status string

const (
	StatusUnlinked  Status = "Unlinked"
	StatusDraft     Status = "Draft"
	StatusRunning   Status = "Running"
	StatusPaused    Status = "Paused"
	StatusCompleted Status = "Completed"
	StatusAborted   Status = "Aborted"
)

// GeneralTitle is the title of the fallback thread.
const GeneralTitle = "General"

// DefaultStage is the stage of a new thread.
const DefaultStage = "brainstorm"

// DeriveStatus maps a linked mission's state to a thread status.
// An empty state means the thread is not linked to a mission.
func DeriveStatus(state mission.State) Status {
	switch state {
	case mission.StateScanning, mission.StateEngaging:
		return StatusRunning
	case mission.StatePaused:
		return StatusPaused
	case mission.StateComplete:
		return StatusCompleted
	case mission.StateAborted:
		return StatusAborted
	case mission.StateDraft:
		return StatusDraft
	}
	return StatusUnlinked
}
