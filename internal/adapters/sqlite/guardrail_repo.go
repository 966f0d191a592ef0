package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/secondary"
)

// GuardrailRepository implements secondary.GuardrailRepository with SQLite.
type GuardrailRepository struct {
	db *sql.DB
}

// NewGuardrailRepository creates a new SQLite guardrail repository.
func NewGuardrailRepository(db *sql.DB) *GuardrailRepository {
	return &GuardrailRepository{db: db}
}

const guardrailColumns = "id, type, scope, value, created_at, updated_at"

func scanGuardrail(row rowScanner) (*secondary.GuardrailRecord, error) {
	var value string
	record := &secondary.GuardrailRecord{}
	if err := row.Scan(&record.ID, &record.Type, &record.Scope, &value, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}
	record.Value = map[string]any{}
	if err := decodeJSON(value, &record.Value); err != nil {
		return nil, err
	}
	return record, nil
}

// Create persists a new guardrail.
func (r *GuardrailRepository) Create(ctx context.Context, guardrail *secondary.GuardrailRecord) error {
	value, err := encodeJSON(mapOrEmpty(guardrail.Value))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO guardrails ("+guardrailColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		guardrail.ID, guardrail.Type, guardrail.Scope, value, guardrail.CreatedAt, guardrail.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create guardrail: %w", err)
	}
	return nil
}

// GetByID retrieves a guardrail by its ID.
func (r *GuardrailRepository) GetByID(ctx context.Context, id string) (*secondary.GuardrailRecord, error) {
	record, err := scanGuardrail(r.db.QueryRowContext(ctx, "SELECT "+guardrailColumns+" FROM guardrails WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("guardrail", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guardrail: %w", err)
	}
	return record, nil
}

// List retrieves guardrails matching the given filters.
func (r *GuardrailRepository) List(ctx context.Context, filters secondary.GuardrailFilters) ([]*secondary.GuardrailRecord, error) {
	query := "SELECT " + guardrailColumns + " FROM guardrails WHERE 1=1"
	args := []any{}
	if filters.Type != "" {
		query += " AND type = ?"
		args = append(args, filters.Type)
	}
	if filters.Scope != "" {
		query += " AND scope = ?"
		args = append(args, filters.Scope)
	}
	query += " ORDER BY updated_at DESC, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list guardrails: %w", err)
	}
	defer rows.Close()

	var guardrails []*secondary.GuardrailRecord
	for rows.Next() {
		record, err := scanGuardrail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guardrail: %w", err)
		}
		guardrails = append(guardrails, record)
	}
	return guardrails, rows.Err()
}

// Update writes type, scope and value.
func (r *GuardrailRepository) Update(ctx context.Context, guardrail *secondary.GuardrailRecord) error {
	value, err := encodeJSON(mapOrEmpty(guardrail.Value))
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx,
		"UPDATE guardrails SET type = ?, scope = ?, value = ?, updated_at = ? WHERE id = ?",
		guardrail.Type, guardrail.Scope, value, guardrail.UpdatedAt, guardrail.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update guardrail: %w", err)
	}
	return requireOneRow(result, "guardrail", guardrail.ID)
}

// Ensure GuardrailRepository implements the interface
var _ secondary.GuardrailRepository = (*GuardrailRepository)(nil)
