package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestOpen_FreshInstallMarksMigrationsApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "praetor.db")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer database.Close()

	var version int
	if err := database.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		t.Fatalf("failed to read schema_version: %v", err)
	}
	if want := migrations[len(migrations)-1].Version; version != want {
		t.Errorf("schema version = %d, want %d", version, want)
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "praetor.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer second.Close()
}

func TestRunMigrations_FromEmptyDatabase(t *testing.T) {
	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	database.SetMaxOpenConns(1)
	defer database.Close()

	if err := RunMigrations(database); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='missions'").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Error("expected missions table after migrations")
	}

	// Idempotent
	if err := RunMigrations(database); err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}
}

func TestSeedFixtures(t *testing.T) {
	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	database.SetMaxOpenConns(1)
	defer database.Close()

	if _, err := database.Exec(GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	now := "2026-01-01T00:00:00.000000-07:00"
	if err := SeedFixtures(database, now); err != nil {
		t.Fatalf("SeedFixtures() error = %v", err)
	}
	// Seeding twice is harmless
	if err := SeedFixtures(database, now); err != nil {
		t.Fatalf("second SeedFixtures() error = %v", err)
	}

	var agents int
	database.QueryRow("SELECT COUNT(*) FROM agents").Scan(&agents)
	if agents != 3 {
		t.Errorf("agents = %d, want 3", agents)
	}
}

func TestSchema_ErrorPairConstraint(t *testing.T) {
	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	database.SetMaxOpenConns(1)
	defer database.Close()
	if _, err := database.Exec(GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	_, err = database.Exec(`INSERT INTO agents (agent_name, status_light, error_state, created_at, updated_at)
		VALUES ('Explorator', 'red', 'crawl_timeout', 'x', 'x')`)
	if err == nil {
		t.Error("expected CHECK failure for error_state without next_retry_at")
	}
}
