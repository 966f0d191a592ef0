// Package errs defines the error taxonomy shared by services and adapters.
// Each error type matches its Kind sentinel via errors.Is.
package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind sentinels.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidAgent      = errors.New("invalid agent")
	ErrUpstream          = errors.New("upstream failure")
)

// ValidationError reports malformed input, keyed by field.
type ValidationError struct {
	Fields map[string]string
}

// Validation builds a ValidationError for a single field.
func Validation(field, problem string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: problem}}
}

// Add records another field problem and returns the receiver.
func (e *ValidationError) Add(field, problem string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = problem
	return e
}

// OrNil returns nil when no field problems were recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

// NotFound builds a NotFoundError.
func NotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Entity, e.ID) }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidTransitionError reports a state change that is not permitted.
type InvalidTransitionError struct {
	Current   string
	Requested string
	Reason    string
}

// InvalidTransition builds an InvalidTransitionError.
func InvalidTransition(current, requested, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{Current: current, Requested: requested, Reason: reason}
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("cannot transition from %s to %s", e.Current, e.Requested)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// InvalidAgentError reports an agent name outside the fixed roster.
type InvalidAgentError struct {
	Name string
}

func (e *InvalidAgentError) Error() string { return fmt.Sprintf("unknown agent %q", e.Name) }

func (e *InvalidAgentError) Is(target error) bool { return target == ErrInvalidAgent }

// UpstreamError wraps a failure of an external collaborator (LLM, link probe).
type UpstreamError struct {
	Service string
	Err     error
}

// Upstream wraps err as an UpstreamError for service.
func Upstream(service string, err error) *UpstreamError {
	return &UpstreamError{Service: service, Err: err}
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err) }

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// KindOf returns the sentinel for err, or nil for errors outside the taxonomy.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrInvalidTransition, ErrInvalidAgent, ErrUpstream} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
