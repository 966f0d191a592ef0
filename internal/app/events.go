package app

import (
	"context"
	"log/slog"

	"github.com/example/praetor/internal/ports/secondary"
)

// appendEvent records an event after the primary write has committed.
// A failed append is logged rather than returned: the state change stands.
func appendEvent(ctx context.Context, w secondary.EventWriter, event *secondary.EventRecord) {
	if err := w.Append(ctx, event); err != nil {
		slog.Warn("failed to append event", "event", event.EventName, "error", err)
	}
}
