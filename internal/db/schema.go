package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests use it
// via GetSchemaSQL() rather than declaring their own tables, so a repository
// referencing a missing column fails immediately with "no such column".
//
// Timestamps are TEXT in clock.Layout; within one zone they sort lexically.
// JSON columns hold arrays or objects encoded by the repositories.
const SchemaSQL = `
-- Agents (fixed roster, seeded on read)
CREATE TABLE IF NOT EXISTS agents (
	agent_name TEXT PRIMARY KEY CHECK(agent_name IN ('Praefectus', 'Explorator', 'Legatus')),
	status_light TEXT NOT NULL CHECK(status_light IN ('green', 'yellow', 'red')),
	error_state TEXT,
	next_retry_at TEXT,
	activity_stream TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	CHECK ((error_state IS NULL) = (next_retry_at IS NULL))
);

-- Missions
CREATE TABLE IF NOT EXISTS missions (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	objective TEXT NOT NULL,
	posture TEXT NOT NULL CHECK(posture IN ('help_only', 'help_plus_soft_marketing', 'research_only')),
	state TEXT NOT NULL CHECK(state IN ('draft', 'scanning', 'engaging', 'paused', 'complete', 'aborted')) DEFAULT 'draft',
	previous_active_state TEXT CHECK(previous_active_state IN ('scanning', 'engaging')),
	forums_found INTEGER NOT NULL DEFAULT 0,
	prospects_added INTEGER NOT NULL DEFAULT 0,
	hot_leads INTEGER NOT NULL DEFAULT 0,
	insights TEXT NOT NULL DEFAULT '[]',
	insights_rich TEXT NOT NULL DEFAULT '[]',
	agents_assigned TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	CHECK (state = 'paused' OR previous_active_state IS NULL)
);

CREATE INDEX IF NOT EXISTS idx_missions_state ON missions(state);
CREATE INDEX IF NOT EXISTS idx_missions_updated ON missions(updated_at);

-- Events (append-only)
CREATE TABLE IF NOT EXISTS events (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	event_name TEXT NOT NULL,
	source TEXT NOT NULL,
	agent_name TEXT,
	mission_id TEXT,
	hotlead_id TEXT,
	thread_id TEXT,
	payload TEXT NOT NULL DEFAULT '{}',
	timestamp TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
CREATE INDEX IF NOT EXISTS idx_events_agent ON events(agent_name);
CREATE INDEX IF NOT EXISTS idx_events_mission ON events(mission_id);
CREATE INDEX IF NOT EXISTS idx_events_thread ON events(thread_id);
CREATE INDEX IF NOT EXISTS idx_events_hotlead ON events(hotlead_id);

-- Mission control threads (mission link is weak: no foreign key)
CREATE TABLE IF NOT EXISTS threads (
	thread_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	mission_id TEXT,
	goal TEXT,
	stage TEXT NOT NULL DEFAULT 'brainstorm',
	synopsis TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_threads_mission ON threads(mission_id);
CREATE INDEX IF NOT EXISTS idx_threads_title ON threads(title);

-- Mission control messages
CREATE TABLE IF NOT EXISTS messages (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	thread_id TEXT NOT NULL,
	mission_id TEXT,
	role TEXT NOT NULL CHECK(role IN ('human', 'praefectus')),
	text TEXT NOT NULL,
	metadata TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL,
	FOREIGN KEY (thread_id) REFERENCES threads(thread_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(thread_id, created_at);

-- Hot leads
CREATE TABLE IF NOT EXISTS hot_leads (
	id TEXT PRIMARY KEY,
	mission_id TEXT NOT NULL,
	forum_id TEXT,
	title TEXT NOT NULL,
	url TEXT,
	draft_script TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL CHECK(status IN ('pending', 'approved', 'rejected', 'posted')) DEFAULT 'pending',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (mission_id) REFERENCES missions(id)
);

CREATE INDEX IF NOT EXISTS idx_hot_leads_status ON hot_leads(status);
CREATE INDEX IF NOT EXISTS idx_hot_leads_mission ON hot_leads(mission_id);

-- Guardrails
CREATE TABLE IF NOT EXISTS guardrails (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	scope TEXT NOT NULL DEFAULT 'global',
	value TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

-- Findings
CREATE TABLE IF NOT EXISTS findings (
	id TEXT PRIMARY KEY,
	mission_id TEXT NOT NULL,
	thread_id TEXT,
	title TEXT NOT NULL DEFAULT '',
	body_markdown TEXT NOT NULL DEFAULT '',
	highlights TEXT NOT NULL DEFAULT '[]',
	metrics TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_findings_mission ON findings(mission_id);

-- Forums
CREATE TABLE IF NOT EXISTS forums (
	id TEXT PRIMARY KEY,
	platform TEXT NOT NULL,
	name TEXT NOT NULL,
	url TEXT NOT NULL,
	rule_profile TEXT NOT NULL,
	topic_tags TEXT NOT NULL DEFAULT '[]',
	size_velocity TEXT,
	relevance_notes TEXT,
	last_seen_at TEXT,
	link_status TEXT CHECK(link_status IN ('ok', 'not_found', 'blocked')),
	last_checked_at TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// InitSchema creates the schema on a fresh database and runs pending
// migrations on an existing one.
func InitSchema(database *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(database)
	}

	// Fresh install - create the schema directly and mark every migration applied
	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := createVersionTable(database); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
