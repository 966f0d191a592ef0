package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/secondary"
)

// ThreadRepository implements secondary.ThreadRepository with SQLite.
type ThreadRepository struct {
	db *sql.DB
}

// NewThreadRepository creates a new SQLite thread repository.
func NewThreadRepository(db *sql.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

const threadSelect = `SELECT t.thread_id, t.title, t.mission_id, t.goal, t.stage, t.synopsis,
	(SELECT COUNT(*) FROM messages m WHERE m.thread_id = t.thread_id), t.created_at, t.updated_at
	FROM threads t`

func scanThread(row rowScanner) (*secondary.ThreadRecord, error) {
	var missionID, goal, synopsis sql.NullString
	record := &secondary.ThreadRecord{}
	if err := row.Scan(&record.ThreadID, &record.Title, &missionID, &goal, &record.Stage, &synopsis,
		&record.MessageCount, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, err
	}
	record.MissionID = missionID.String
	record.Goal = goal.String
	record.Synopsis = synopsis.String
	return record, nil
}

// Create persists a new thread.
func (r *ThreadRepository) Create(ctx context.Context, thread *secondary.ThreadRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO threads (thread_id, title, mission_id, goal, stage, synopsis, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		thread.ThreadID, thread.Title, nullString(thread.MissionID), nullString(thread.Goal),
		thread.Stage, nullString(thread.Synopsis), thread.CreatedAt, thread.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}
	return nil
}

// GetByID retrieves a thread by its ID.
func (r *ThreadRepository) GetByID(ctx context.Context, id string) (*secondary.ThreadRecord, error) {
	record, err := scanThread(r.db.QueryRowContext(ctx, threadSelect+" WHERE t.thread_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("thread", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	return record, nil
}

// FindByTitle returns the oldest thread with the title, or nil when none exists.
func (r *ThreadRepository) FindByTitle(ctx context.Context, title string) (*secondary.ThreadRecord, error) {
	record, err := scanThread(r.db.QueryRowContext(ctx,
		threadSelect+" WHERE t.title = ? ORDER BY t.created_at, t.thread_id LIMIT 1", title))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find thread: %w", err)
	}
	return record, nil
}

// List retrieves threads, optionally for one mission, most recently updated first.
func (r *ThreadRepository) List(ctx context.Context, missionID string) ([]*secondary.ThreadRecord, error) {
	query := threadSelect
	args := []any{}
	if missionID != "" {
		query += " WHERE t.mission_id = ?"
		args = append(args, missionID)
	}
	query += " ORDER BY t.updated_at DESC, t.thread_id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	var threads []*secondary.ThreadRecord
	for rows.Next() {
		record, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, record)
	}
	return threads, rows.Err()
}

// Update writes the mutable thread fields.
func (r *ThreadRepository) Update(ctx context.Context, thread *secondary.ThreadRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE threads SET title = ?, mission_id = ?, goal = ?, stage = ?, synopsis = ?, updated_at = ?
		 WHERE thread_id = ?`,
		thread.Title, nullString(thread.MissionID), nullString(thread.Goal), thread.Stage,
		nullString(thread.Synopsis), thread.UpdatedAt, thread.ThreadID,
	)
	if err != nil {
		return fmt.Errorf("failed to update thread: %w", err)
	}
	return requireOneRow(result, "thread", thread.ThreadID)
}

// Ensure ThreadRepository implements the interface
var _ secondary.ThreadRepository = (*ThreadRepository)(nil)
