package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/praetor/internal/clock"
	"github.com/example/praetor/internal/ctxutil"
	"github.com/example/praetor/internal/ports/secondary"
)

// defaultSource is stamped on events appended without a source in context.
const defaultSource = "backend"

// LogWriterAdapter implements secondary.EventWriter using EventRepository.
// Appended events are handed to the publisher (if any) for live subscribers.
type LogWriterAdapter struct {
	eventRepo secondary.EventRepository
	clock     clock.Clock
	publisher secondary.EventPublisher
}

// NewLogWriterAdapter creates a new LogWriterAdapter. publisher may be nil.
func NewLogWriterAdapter(eventRepo secondary.EventRepository, clk clock.Clock, publisher secondary.EventPublisher) *LogWriterAdapter {
	return &LogWriterAdapter{
		eventRepo: eventRepo,
		clock:     clk,
		publisher: publisher,
	}
}

// Append records an event, filling id, source and timestamp when empty.
func (w *LogWriterAdapter) Append(ctx context.Context, event *secondary.EventRecord) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Source == "" {
		event.Source = ctxutil.SourceFromContext(ctx)
	}
	if event.Source == "" {
		event.Source = defaultSource
	}
	if event.Timestamp == "" {
		event.Timestamp = clock.Stamp(w.clock)
	}
	if event.Payload == nil {
		event.Payload = map[string]any{}
	}

	if err := w.eventRepo.Create(ctx, event); err != nil {
		return err
	}

	if w.publisher != nil {
		w.publisher.Publish(event)
	}
	return nil
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.EventWriter = (*LogWriterAdapter)(nil)
