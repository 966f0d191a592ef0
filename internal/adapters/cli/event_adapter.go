package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/praetor/internal/ports/primary"
)

// EventAdapter prints and maintains the event log.
type EventAdapter struct {
	service primary.EventService
	out     io.Writer
}

// NewEventAdapter creates a new EventAdapter with the given service.
func NewEventAdapter(service primary.EventService, out io.Writer) *EventAdapter {
	return &EventAdapter{
		service: service,
		out:     out,
	}
}

// List prints events, newest first.
func (a *EventAdapter) List(ctx context.Context, filters primary.EventFilters) error {
	events, err := a.service.ListEvents(ctx, filters)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(a.out, "No events found")
		return nil
	}

	for _, e := range events {
		subject := e.AgentName
		if subject == "" {
			subject = e.MissionID
		}
		fmt.Fprintf(a.out, "%s  %-28s %-18s %s\n", e.Timestamp, e.EventName, e.Source, subject)
	}
	return nil
}

// Prune deletes events older than days.
func (a *EventAdapter) Prune(ctx context.Context, days int) error {
	n, err := a.service.PruneEvents(ctx, days)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Pruned %d events older than %d days\n", n, days)
	return nil
}
