package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/secondary"
)

// HotLeadRepository implements secondary.HotLeadRepository and
// secondary.OutreachSignal with SQLite.
type HotLeadRepository struct {
	db *sql.DB
}

// NewHotLeadRepository creates a new SQLite hot lead repository.
func NewHotLeadRepository(db *sql.DB) *HotLeadRepository {
	return &HotLeadRepository{db: db}
}

const hotLeadColumns = "id, mission_id, forum_id, title, url, draft_script, status, created_at, updated_at"

func scanHotLead(row rowScanner) (*secondary.HotLeadRecord, error) {
	var forumID, url sql.NullString
	record := &secondary.HotLeadRecord{}
	if err := row.Scan(&record.ID, &record.MissionID, &forumID, &record.Title, &url, &record.DraftScript,
		&record.Status, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}
	record.ForumID = forumID.String
	record.URL = url.String
	return record, nil
}

// Create persists a new hot lead.
func (r *HotLeadRepository) Create(ctx context.Context, lead *secondary.HotLeadRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO hot_leads ("+hotLeadColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		lead.ID, lead.MissionID, nullString(lead.ForumID), lead.Title, nullString(lead.URL), lead.DraftScript,
		lead.Status, lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create hot lead: %w", err)
	}
	return nil
}

// GetByID retrieves a hot lead by its ID.
func (r *HotLeadRepository) GetByID(ctx context.Context, id string) (*secondary.HotLeadRecord, error) {
	record, err := scanHotLead(r.db.QueryRowContext(ctx, "SELECT "+hotLeadColumns+" FROM hot_leads WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("hot lead", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hot lead: %w", err)
	}
	return record, nil
}

// List retrieves hot leads matching the given filters, newest first.
func (r *HotLeadRepository) List(ctx context.Context, filters secondary.HotLeadFilters) ([]*secondary.HotLeadRecord, error) {
	query := "SELECT " + hotLeadColumns + " FROM hot_leads WHERE 1=1"
	args := []any{}
	if filters.MissionID != "" {
		query += " AND mission_id = ?"
		args = append(args, filters.MissionID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	query += " ORDER BY updated_at DESC, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list hot leads: %w", err)
	}
	defer rows.Close()

	var leads []*secondary.HotLeadRecord
	for rows.Next() {
		record, err := scanHotLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hot lead: %w", err)
		}
		leads = append(leads, record)
	}
	return leads, rows.Err()
}

// UpdateScript replaces the draft script.
func (r *HotLeadRepository) UpdateScript(ctx context.Context, id, script, updatedAt string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE hot_leads SET draft_script = ?, updated_at = ? WHERE id = ?",
		script, updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update hot lead script: %w", err)
	}
	return requireOneRow(result, "hot lead", id)
}

// UpdateStatus changes status only if it is still fromStatus.
func (r *HotLeadRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus, updatedAt string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE hot_leads SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		toStatus, updatedAt, id, fromStatus,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update hot lead status: %w", err)
	}
	return changedOne(result)
}

// HasActiveOutreach reports whether any hot lead is approved for outreach.
func (r *HotLeadRepository) HasActiveOutreach(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM hot_leads WHERE status = 'approved')").Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query outreach: %w", err)
	}
	return exists, nil
}

// Ensure HotLeadRepository implements the interfaces
var (
	_ secondary.HotLeadRepository = (*HotLeadRepository)(nil)
	_ secondary.OutreachSignal    = (*HotLeadRepository)(nil)
)
