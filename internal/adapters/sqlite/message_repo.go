package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/secondary"
)

// MessageRepository implements secondary.MessageRepository with SQLite.
// Messages are ordered by insertion (seq), which is their creation order.
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new SQLite message repository.
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = "id, thread_id, mission_id, role, text, metadata, created_at"

func scanMessage(row rowScanner) (*secondary.MessageRecord, error) {
	var (
		missionID sql.NullString
		metadata  string
	)
	record := &secondary.MessageRecord{}
	if err := row.Scan(&record.ID, &record.ThreadID, &missionID, &record.Role, &record.Text, &metadata, &record.CreatedAt); err != nil {
		return nil, err
	}
	record.MissionID = missionID.String
	if err := decodeJSON(metadata, &record.Metadata); err != nil {
		return nil, err
	}
	return record, nil
}

// Create appends a message and bumps its thread's updated_at in one transaction.
func (r *MessageRepository) Create(ctx context.Context, message *secondary.MessageRecord) error {
	metadata, err := encodeJSON(mapOrEmpty(message.Metadata))
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE threads SET updated_at = ? WHERE thread_id = ?",
		message.CreatedAt, message.ThreadID,
	)
	if err != nil {
		return fmt.Errorf("failed to touch thread: %w", err)
	}
	if err := requireOneRow(result, "thread", message.ThreadID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO messages ("+messageColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		message.ID, message.ThreadID, nullString(message.MissionID), message.Role, message.Text, metadata, message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return tx.Commit()
}

// GetByID retrieves a message by its ID.
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*secondary.MessageRecord, error) {
	record, err := scanMessage(r.db.QueryRowContext(ctx, "SELECT "+messageColumns+" FROM messages WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("message", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return record, nil
}

// ListByThread returns every message of the thread in ascending order.
func (r *MessageRepository) ListByThread(ctx context.Context, threadID string) ([]*secondary.MessageRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE thread_id = ? ORDER BY seq ASC", threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

// ListWindow returns up to limit messages older than beforeID (or the newest
// when beforeID is empty) in ascending order, and whether older ones remain.
func (r *MessageRepository) ListWindow(ctx context.Context, threadID string, limit int, beforeID string) ([]*secondary.MessageRecord, bool, error) {
	query := "SELECT " + messageColumns + " FROM messages WHERE thread_id = ?"
	args := []any{threadID}

	if beforeID != "" {
		var seq int64
		err := r.db.QueryRowContext(ctx, "SELECT seq FROM messages WHERE id = ? AND thread_id = ?", beforeID, threadID).Scan(&seq)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, errs.NotFound("message", beforeID)
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to resolve cursor: %w", err)
		}
		query += " AND seq < ?"
		args = append(args, seq)
	}

	// Fetch one extra row to learn whether older messages remain.
	query += " ORDER BY seq DESC LIMIT ?"
	args = append(args, limit+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages, err := collectMessages(rows)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, hasMore, nil
}

func collectMessages(rows *sql.Rows) ([]*secondary.MessageRecord, error) {
	var messages []*secondary.MessageRecord
	for rows.Next() {
		record, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, record)
	}
	return messages, rows.Err()
}

// Ensure MessageRepository implements the interface
var _ secondary.MessageRepository = (*MessageRepository)(nil)
