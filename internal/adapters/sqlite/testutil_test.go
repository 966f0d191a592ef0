// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/praetor/internal/db"
)

const testNow = "2026-04-01T09:00:00.000000-07:00"

// setupTestDB creates an in-memory database with the authoritative schema.
// A single connection keeps every query on the same in-memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	// Use the authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedMission inserts a test mission and returns its ID.
func seedMission(t *testing.T, db *sql.DB, id, state, posture string) string {
	t.Helper()
	if state == "" {
		state = "draft"
	}
	if posture == "" {
		posture = "research_only"
	}
	_, err := db.Exec(
		"INSERT INTO missions (id, title, objective, posture, state, created_at, updated_at) VALUES (?, 'Test Mission', 'Test objective', ?, ?, ?, ?)",
		id, posture, state, testNow, testNow,
	)
	if err != nil {
		t.Fatalf("failed to seed mission: %v", err)
	}
	return id
}

// seedThread inserts a test thread and returns its ID.
func seedThread(t *testing.T, db *sql.DB, id, title string) string {
	t.Helper()
	if title == "" {
		title = "Test Thread"
	}
	_, err := db.Exec(
		"INSERT INTO threads (thread_id, title, stage, created_at, updated_at) VALUES (?, ?, 'brainstorm', ?, ?)",
		id, title, testNow, testNow,
	)
	if err != nil {
		t.Fatalf("failed to seed thread: %v", err)
	}
	return id
}
