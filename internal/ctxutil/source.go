// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// SourceKey is the context key for the event source.
type SourceKey struct{}

// Well-known event sources.
const (
	SourceAPI       = "backend/api"
	SourceCLI       = "cli"
	SourceScenario  = "backend/scenario"
	SourceFrontend  = "frontend"
	SourceScheduler = "backend/scheduler"
)

// WithSource returns a context carrying the source that will be stamped on
// every event appended while handling the request.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey{}, source)
}

// SourceFromContext returns the event source from context, or empty string if not set.
func SourceFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(SourceKey{}).(string); ok {
		return v
	}
	return ""
}
