package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/secondary"
)

// AgentRepository implements secondary.AgentRepository with SQLite.
type AgentRepository struct {
	db *sql.DB
}

// NewAgentRepository creates a new SQLite agent repository.
func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

const agentColumns = "agent_name, status_light, error_state, next_retry_at, activity_stream, created_at, updated_at"

func scanAgent(row rowScanner) (*secondary.AgentRecord, error) {
	var (
		errorState  sql.NullString
		nextRetryAt sql.NullString
		stream      string
	)
	record := &secondary.AgentRecord{}
	if err := row.Scan(&record.AgentName, &record.StatusLight, &errorState, &nextRetryAt, &stream, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}
	record.ErrorState = errorState.String
	record.NextRetryAt = nextRetryAt.String
	record.ActivityStream = []secondary.ActivityRecord{}
	if err := decodeJSON(stream, &record.ActivityStream); err != nil {
		return nil, err
	}
	return record, nil
}

// List retrieves all stored agents.
func (r *AgentRepository) List(ctx context.Context) ([]*secondary.AgentRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+agentColumns+" FROM agents ORDER BY agent_name")
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []*secondary.AgentRecord
	for rows.Next() {
		record, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, record)
	}
	return agents, rows.Err()
}

// GetByName retrieves an agent by name.
func (r *AgentRepository) GetByName(ctx context.Context, name string) (*secondary.AgentRecord, error) {
	record, err := scanAgent(r.db.QueryRowContext(ctx, "SELECT "+agentColumns+" FROM agents WHERE agent_name = ?", name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("agent", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	return record, nil
}

// Seed inserts the agent unless it already exists.
func (r *AgentRepository) Seed(ctx context.Context, agent *secondary.AgentRecord) (bool, error) {
	stream, err := encodeJSON(agent.ActivityStream)
	if err != nil {
		return false, err
	}
	if agent.ActivityStream == nil {
		stream = "[]"
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO agents (agent_name, status_light, error_state, next_retry_at, activity_stream, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		agent.AgentName, agent.StatusLight, nullString(agent.ErrorState), nullString(agent.NextRetryAt), stream, agent.CreatedAt, agent.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to seed agent: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to seed agent: %w", err)
	}
	return n == 1, nil
}

// SetError puts the agent into red with both error fields set.
func (r *AgentRepository) SetError(ctx context.Context, name, errorState, nextRetryAt, updatedAt string) error {
	if errorState == "" || nextRetryAt == "" {
		return fmt.Errorf("error_state and next_retry_at must both be set")
	}
	result, err := r.db.ExecContext(ctx,
		"UPDATE agents SET status_light = 'red', error_state = ?, next_retry_at = ?, updated_at = ? WHERE agent_name = ?",
		errorState, nextRetryAt, updatedAt, name,
	)
	if err != nil {
		return fmt.Errorf("failed to set agent error: %w", err)
	}
	return requireOneRow(result, "agent", name)
}

// ClearError clears both error fields in one statement, guarded on the
// stored retry so only one concurrent reader wins.
func (r *AgentRepository) ClearError(ctx context.Context, name, expectedRetryAt, status, updatedAt string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE agents SET status_light = ?, error_state = NULL, next_retry_at = NULL, updated_at = ?
		 WHERE agent_name = ? AND status_light = 'red' AND next_retry_at = ?`,
		status, updatedAt, name, expectedRetryAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to clear agent error: %w", err)
	}
	return changedOne(result)
}

// SetStatus changes a non-red agent's status from one value to another.
func (r *AgentRepository) SetStatus(ctx context.Context, name, from, to, updatedAt string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE agents SET status_light = ?, updated_at = ?
		 WHERE agent_name = ? AND status_light = ? AND status_light != 'red'`,
		to, updatedAt, name, from,
	)
	if err != nil {
		return false, fmt.Errorf("failed to set agent status: %w", err)
	}
	return changedOne(result)
}

// AppendActivity appends an entry to the activity stream in a single statement.
func (r *AgentRepository) AppendActivity(ctx context.Context, name string, entry secondary.ActivityRecord, updatedAt string) error {
	encoded, err := encodeJSON(entry)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx,
		"UPDATE agents SET activity_stream = json_insert(activity_stream, '$[#]', json(?)), updated_at = ? WHERE agent_name = ?",
		encoded, updatedAt, name,
	)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return requireOneRow(result, "agent", name)
}

func changedOne(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

func requireOneRow(result sql.Result, entity, id string) error {
	ok, err := changedOne(result)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NotFound(entity, id)
	}
	return nil
}

// Ensure AgentRepository implements the interface
var _ secondary.AgentRepository = (*AgentRepository)(nil)
