package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/praetor/internal/ports/secondary"
)

// EventRepository implements secondary.EventRepository with SQLite.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create appends an event.
func (r *EventRepository) Create(ctx context.Context, event *secondary.EventRecord) error {
	payload, err := encodeJSON(mapOrEmpty(event.Payload))
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO events (id, event_name, source, agent_name, mission_id, hotlead_id, thread_id, payload, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.EventName, event.Source,
		nullString(event.AgentName), nullString(event.MissionID), nullString(event.HotLeadID), nullString(event.ThreadID),
		payload, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// List retrieves events matching the given filters, newest first.
// Events sharing a timestamp are returned in reverse append order.
func (r *EventRepository) List(ctx context.Context, filters secondary.EventFilters) ([]*secondary.EventRecord, error) {
	query := `SELECT id, event_name, source, agent_name, mission_id, hotlead_id, thread_id, payload, timestamp
		FROM events WHERE 1=1`
	args := []any{}

	for _, f := range []struct {
		column string
		value  string
	}{
		{"event_name", filters.EventName},
		{"source", filters.Source},
		{"agent_name", filters.AgentName},
		{"mission_id", filters.MissionID},
		{"hotlead_id", filters.HotLeadID},
		{"thread_id", filters.ThreadID},
	} {
		if f.value != "" {
			query += " AND " + f.column + " = ?"
			args = append(args, f.value)
		}
	}
	if filters.Since != "" {
		query += " AND timestamp >= ?"
		args = append(args, filters.Since)
	}
	if filters.Until != "" {
		query += " AND timestamp <= ?"
		args = append(args, filters.Until)
	}

	query += " ORDER BY timestamp DESC, seq DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*secondary.EventRecord
	for rows.Next() {
		var (
			agentName, missionID, hotLeadID, threadID sql.NullString
			payload                                   string
		)
		record := &secondary.EventRecord{}
		if err := rows.Scan(&record.ID, &record.EventName, &record.Source,
			&agentName, &missionID, &hotLeadID, &threadID, &payload, &record.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		record.AgentName = agentName.String
		record.MissionID = missionID.String
		record.HotLeadID = hotLeadID.String
		record.ThreadID = threadID.String
		record.Payload = map[string]any{}
		if err := decodeJSON(payload, &record.Payload); err != nil {
			return nil, err
		}
		events = append(events, record)
	}
	return events, rows.Err()
}

// PruneOlderThan deletes events stamped before cutoff.
func (r *EventRepository) PruneOlderThan(ctx context.Context, cutoff string) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(n), nil
}

// Ensure EventRepository implements the interface
var _ secondary.EventRepository = (*EventRepository)(nil)
