package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/secondary"
)

// FindingRepository implements secondary.FindingRepository with SQLite.
type FindingRepository struct {
	db *sql.DB
}

// NewFindingRepository creates a new SQLite finding repository.
func NewFindingRepository(db *sql.DB) *FindingRepository {
	return &FindingRepository{db: db}
}

const findingColumns = "id, mission_id, thread_id, title, body_markdown, highlights, metrics, created_at, updated_at"

func scanFinding(row rowScanner) (*secondary.FindingRecord, error) {
	var (
		threadID            sql.NullString
		highlights, metrics string
	)
	record := &secondary.FindingRecord{}
	if err := row.Scan(&record.ID, &record.MissionID, &threadID, &record.Title, &record.BodyMarkdown,
		&highlights, &metrics, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}
	record.ThreadID = threadID.String
	record.Highlights = []string{}
	if err := decodeJSON(highlights, &record.Highlights); err != nil {
		return nil, err
	}
	record.Metrics = map[string]any{}
	if err := decodeJSON(metrics, &record.Metrics); err != nil {
		return nil, err
	}
	return record, nil
}

func encodeFindingColumns(f *secondary.FindingRecord) (highlights, metrics string, err error) {
	if highlights, err = encodeJSON(stringsOrEmpty(f.Highlights)); err != nil {
		return
	}
	metrics, err = encodeJSON(mapOrEmpty(f.Metrics))
	return
}

// Create persists a new finding.
func (r *FindingRepository) Create(ctx context.Context, finding *secondary.FindingRecord) error {
	highlights, metrics, err := encodeFindingColumns(finding)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO findings ("+findingColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		finding.ID, finding.MissionID, nullString(finding.ThreadID), finding.Title, finding.BodyMarkdown,
		highlights, metrics, finding.CreatedAt, finding.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create finding: %w", err)
	}
	return nil
}

// GetByID retrieves a finding by its ID.
func (r *FindingRepository) GetByID(ctx context.Context, id string) (*secondary.FindingRecord, error) {
	record, err := scanFinding(r.db.QueryRowContext(ctx, "SELECT "+findingColumns+" FROM findings WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("finding", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get finding: %w", err)
	}
	return record, nil
}

// List retrieves findings matching the given filters, most recently updated first.
func (r *FindingRepository) List(ctx context.Context, filters secondary.FindingFilters) ([]*secondary.FindingRecord, error) {
	query := "SELECT " + findingColumns + " FROM findings"
	args := []any{}
	if filters.MissionID != "" {
		query += " WHERE mission_id = ?"
		args = append(args, filters.MissionID)
	}
	query += " ORDER BY updated_at DESC, id"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list findings: %w", err)
	}
	defer rows.Close()

	var findings []*secondary.FindingRecord
	for rows.Next() {
		record, err := scanFinding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		findings = append(findings, record)
	}
	return findings, rows.Err()
}

// Update writes the editable finding fields.
func (r *FindingRepository) Update(ctx context.Context, finding *secondary.FindingRecord) error {
	highlights, metrics, err := encodeFindingColumns(finding)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx,
		"UPDATE findings SET title = ?, body_markdown = ?, highlights = ?, metrics = ?, updated_at = ? WHERE id = ?",
		finding.Title, finding.BodyMarkdown, highlights, metrics, finding.UpdatedAt, finding.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update finding: %w", err)
	}
	return requireOneRow(result, "finding", finding.ID)
}

// Ensure FindingRepository implements the interface
var _ secondary.FindingRepository = (*FindingRepository)(nil)
