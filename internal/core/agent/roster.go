// Package agent contains the pure business logic for the agent registry:
// the fixed roster, status lights, error/retry bookkeeping and the Legatus
// posture rule. This is part of the Functional Core - no I/O, only pure functions.
package agent

// The fixed roster.
const (
	Praefectus = "Praefectus"
	Explorator = "Explorator"
	Legatus    = "Legatus"
)

// StatusLight represents an agent's health indicator.
type StatusLight string

const (
	StatusGreen  StatusLight = "green"
	StatusYellow StatusLight = "yellow"
	StatusRed    StatusLight = "red"
)

// Roster returns the agent names in display order.
func Roster() []string {
	return []string{Praefectus, Explorator, Legatus}
}

// IsKnown reports whether name belongs to the roster. Names are case-sensitive.
func IsKnown(name string) bool {
	switch name {
	case Praefectus, Explorator, Legatus:
		return true
	}
	return false
}

// DefaultStatus returns the status light an agent is seeded with.
func DefaultStatus(name string) StatusLight {
	if name == Legatus {
		return StatusYellow
	}
	return StatusGreen
}

// IsValidStatus reports whether s is one of the three lights.
func IsValidStatus(s StatusLight) bool {
	switch s {
	case StatusGreen, StatusYellow, StatusRed:
		return true
	}
	return false
}
