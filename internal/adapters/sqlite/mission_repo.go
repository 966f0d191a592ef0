package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/praetor/internal/errs"
	"github.com/example/praetor/internal/ports/secondary"
)

// MissionRepository implements secondary.MissionRepository with SQLite.
type MissionRepository struct {
	db *sql.DB
}

// NewMissionRepository creates a new SQLite mission repository.
func NewMissionRepository(db *sql.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

const missionColumns = `id, title, objective, posture, state, previous_active_state,
	forums_found, prospects_added, hot_leads, insights, insights_rich, agents_assigned, created_at, updated_at`

func scanMission(row rowScanner) (*secondary.MissionRecord, error) {
	var (
		previous                       sql.NullString
		insights, rich, agentsAssigned string
	)
	record := &secondary.MissionRecord{}
	err := row.Scan(&record.ID, &record.Title, &record.Objective, &record.Posture, &record.State, &previous,
		&record.ForumsFound, &record.ProspectsAdded, &record.HotLeads, &insights, &rich, &agentsAssigned,
		&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.PreviousActiveState = previous.String
	if err := decodeJSON(insights, &record.Insights); err != nil {
		return nil, err
	}
	if err := decodeJSON(rich, &record.InsightsRich); err != nil {
		return nil, err
	}
	if err := decodeJSON(agentsAssigned, &record.AgentsAssigned); err != nil {
		return nil, err
	}
	return record, nil
}

// Create persists a new mission.
// The mission record must have ID and State pre-populated by the service layer.
func (r *MissionRepository) Create(ctx context.Context, mission *secondary.MissionRecord) error {
	if mission.ID == "" {
		return fmt.Errorf("mission ID must be pre-populated by service layer")
	}
	if mission.State == "" {
		return fmt.Errorf("mission State must be pre-populated by service layer")
	}

	insights, rich, agentsAssigned, err := encodeMissionLists(mission)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO missions (id, title, objective, posture, state, previous_active_state,
			forums_found, prospects_added, hot_leads, insights, insights_rich, agents_assigned, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mission.ID, mission.Title, mission.Objective, mission.Posture, mission.State, nullString(mission.PreviousActiveState),
		mission.ForumsFound, mission.ProspectsAdded, mission.HotLeads, insights, rich, agentsAssigned,
		mission.CreatedAt, mission.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create mission: %w", err)
	}
	return nil
}

// GetByID retrieves a mission by its ID.
func (r *MissionRepository) GetByID(ctx context.Context, id string) (*secondary.MissionRecord, error) {
	record, err := scanMission(r.db.QueryRowContext(ctx, "SELECT "+missionColumns+" FROM missions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("mission", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mission: %w", err)
	}
	return record, nil
}

// List retrieves missions matching the given filters.
func (r *MissionRepository) List(ctx context.Context, filters secondary.MissionFilters) ([]*secondary.MissionRecord, error) {
	query := "SELECT " + missionColumns + " FROM missions"
	args := []any{}

	if filters.State != "" {
		query += " WHERE state = ?"
		args = append(args, filters.State)
	}

	query += " ORDER BY updated_at DESC, id"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	defer rows.Close()

	var missions []*secondary.MissionRecord
	for rows.Next() {
		record, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, record)
	}
	return missions, rows.Err()
}

// Update writes every mutable field except state and previous_active_state.
func (r *MissionRepository) Update(ctx context.Context, mission *secondary.MissionRecord) error {
	insights, rich, agentsAssigned, err := encodeMissionLists(mission)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE missions SET title = ?, objective = ?, posture = ?,
			forums_found = ?, prospects_added = ?, hot_leads = ?,
			insights = ?, insights_rich = ?, agents_assigned = ?, updated_at = ?
		 WHERE id = ?`,
		mission.Title, mission.Objective, mission.Posture,
		mission.ForumsFound, mission.ProspectsAdded, mission.HotLeads,
		insights, rich, agentsAssigned, mission.UpdatedAt, mission.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update mission: %w", err)
	}
	return requireOneRow(result, "mission", mission.ID)
}

// UpdateState moves the mission between states, only if it is still in fromState.
func (r *MissionRepository) UpdateState(ctx context.Context, id, fromState, toState, previousActiveState, updatedAt string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE missions SET state = ?, previous_active_state = ?, updated_at = ? WHERE id = ? AND state = ?",
		toState, nullString(previousActiveState), updatedAt, id, fromState,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update mission state: %w", err)
	}
	return changedOne(result)
}

// SaveInsightsRich stores migrated insights once; a concurrent migration
// that already wrote them is left alone.
func (r *MissionRepository) SaveInsightsRich(ctx context.Context, id string, insights []secondary.InsightRecord) error {
	encoded, err := encodeJSON(insights)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE missions SET insights_rich = ? WHERE id = ? AND insights_rich = '[]'",
		encoded, id,
	)
	if err != nil {
		return fmt.Errorf("failed to save insights: %w", err)
	}
	return nil
}

// IncrementCounter adds delta to one of the mission counters.
func (r *MissionRepository) IncrementCounter(ctx context.Context, id, counter string, delta int, updatedAt string) error {
	switch counter {
	case secondary.CounterForumsFound, secondary.CounterProspectsAdded, secondary.CounterHotLeads:
	default:
		return fmt.Errorf("unknown mission counter %q", counter)
	}
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE missions SET %[1]s = %[1]s + ?, updated_at = ? WHERE id = ?", counter),
		delta, updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", counter, err)
	}
	return requireOneRow(result, "mission", id)
}

// HasPostureInStates reports whether any mission in one of states has posture.
func (r *MissionRepository) HasPostureInStates(ctx context.Context, posture string, states []string) (bool, error) {
	if len(states) == 0 {
		return false, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(states)), ", ")
	args := []any{posture}
	for _, s := range states {
		args = append(args, s)
	}

	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM missions WHERE posture = ? AND state IN ("+placeholders+"))",
		args...,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query mission postures: %w", err)
	}
	return exists, nil
}

func encodeMissionLists(m *secondary.MissionRecord) (insights, rich, agentsAssigned string, err error) {
	if insights, err = encodeJSON(stringsOrEmpty(m.Insights)); err != nil {
		return
	}
	richRecords := m.InsightsRich
	if richRecords == nil {
		richRecords = []secondary.InsightRecord{}
	}
	if rich, err = encodeJSON(richRecords); err != nil {
		return
	}
	agentsAssigned, err = encodeJSON(stringsOrEmpty(m.AgentsAssigned))
	return
}

// Ensure MissionRepository implements the interface
var _ secondary.MissionRepository = (*MissionRepository)(nil)
