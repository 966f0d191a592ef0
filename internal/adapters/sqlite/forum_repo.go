package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/secondary"
)

// ForumRepository implements secondary.ForumRepository with SQLite.
type ForumRepository struct {
	db *sql.DB
}

// NewForumRepository creates a new SQLite forum repository.
func NewForumRepository(db *sql.DB) *ForumRepository {
	return &ForumRepository{db: db}
}

const forumColumns = `id, platform, name, url, rule_profile, topic_tags, size_velocity, relevance_notes,
	last_seen_at, link_status, last_checked_at, created_at, updated_at`

func scanForum(row rowScanner) (*secondary.ForumRecord, error) {
	var tags string
	var sizeVelocity, notes, lastSeen, status, checked sql.NullString
	record := &secondary.ForumRecord{}
	if err := row.Scan(&record.ID, &record.Platform, &record.Name, &record.URL, &record.RuleProfile, &tags,
		&sizeVelocity, &notes, &lastSeen, &status, &checked, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}
	record.TopicTags = []string{}
	if err := decodeJSON(tags, &record.TopicTags); err != nil {
		return nil, err
	}
	record.SizeVelocity = sizeVelocity.String
	record.RelevanceNotes = notes.String
	record.LastSeenAt = lastSeen.String
	record.LinkStatus = status.String
	record.LastCheckedAt = checked.String
	return record, nil
}

// Create persists a new forum.
func (r *ForumRepository) Create(ctx context.Context, forum *secondary.ForumRecord) error {
	tags, err := encodeJSON(stringsOrEmpty(forum.TopicTags))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO forums ("+forumColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		forum.ID, forum.Platform, forum.Name, forum.URL, forum.RuleProfile, tags,
		nullString(forum.SizeVelocity), nullString(forum.RelevanceNotes), nullString(forum.LastSeenAt),
		nullString(forum.LinkStatus), nullString(forum.LastCheckedAt), forum.CreatedAt, forum.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create forum: %w", err)
	}
	return nil
}

// GetByID retrieves a forum by its ID.
func (r *ForumRepository) GetByID(ctx context.Context, id string) (*secondary.ForumRecord, error) {
	record, err := scanForum(r.db.QueryRowContext(ctx, "SELECT "+forumColumns+" FROM forums WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("forum", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get forum: %w", err)
	}
	return record, nil
}

// List retrieves all forums, most recently updated first.
func (r *ForumRepository) List(ctx context.Context) ([]*secondary.ForumRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+forumColumns+" FROM forums ORDER BY updated_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list forums: %w", err)
	}
	defer rows.Close()

	var forums []*secondary.ForumRecord
	for rows.Next() {
		record, err := scanForum(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forum: %w", err)
		}
		forums = append(forums, record)
	}
	return forums, rows.Err()
}

// Update writes every mutable forum field.
func (r *ForumRepository) Update(ctx context.Context, forum *secondary.ForumRecord) error {
	tags, err := encodeJSON(stringsOrEmpty(forum.TopicTags))
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE forums SET platform = ?, name = ?, url = ?, rule_profile = ?, topic_tags = ?,
			size_velocity = ?, relevance_notes = ?, last_seen_at = ?, link_status = ?, last_checked_at = ?, updated_at = ?
		 WHERE id = ?`,
		forum.Platform, forum.Name, forum.URL, forum.RuleProfile, tags,
		nullString(forum.SizeVelocity), nullString(forum.RelevanceNotes), nullString(forum.LastSeenAt),
		nullString(forum.LinkStatus), nullString(forum.LastCheckedAt), forum.UpdatedAt, forum.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update forum: %w", err)
	}
	return requireOneRow(result, "forum", forum.ID)
}

// Ensure ForumRepository implements the interface
var _ secondary.ForumRepository = (*ForumRepository)(nil)
