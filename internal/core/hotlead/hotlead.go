// Package hotlead contains the pure business logic for hot leads: prospects
// whose drafted outreach script awaits operator review.
package hotlead

import "fmt"

// Status is the review status of a hot lead.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPosted   Status = "posted"
)

// InitialStatus returns the status of a new hot lead.
func InitialStatus() Status {
	return StatusPending
}

// IsValidStatus reports whether s is a known status.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPosted:
		return true
	}
	return false
}

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

// CanSetStatus evaluates a review decision.
// Rule: pending leads are approved or rejected; only approved leads are posted.
func CanSetStatus(current, next Status) GuardResult {
	switch {
	case current == StatusPending && (next == StatusApproved || next == StatusRejected):
		return GuardResult{Allowed: true}
	case current == StatusApproved && (next == StatusPosted || next == StatusRejected):
		return GuardResult{Allowed: true}
	case current == StatusRejected && next == StatusPending:
		return GuardResult{Allowed: true}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("cannot move hot lead from %s to %s", current, next),
	}
}

// CanEditScript evaluates whether the draft script may still change.
func CanEditScript(current Status) GuardResult {
	if current == StatusPosted {
		return GuardResult{Allowed: false, Reason: "script of a posted hot lead cannot be edited"}
	}
	return GuardResult{Allowed: true}
}
