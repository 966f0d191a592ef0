package secondary

import "context"

// EventWriter appends events to the log.
// Implementations stamp id and timestamp, and take the source from context
// when the event does not name one.
type EventWriter interface {
	// Append records an event. The record's ID, Source and Timestamp are
	// filled in when empty.
	Append(ctx context.Context, event *EventRecord) error
}

// EventPublisher fans appended events out to live subscribers.
type EventPublisher interface {
	Publish(event *EventRecord)
}
