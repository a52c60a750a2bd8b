package db

import (
	"os"
	"testing"

	"github.com/VoxDroid/cqe/internal/config"
)

func TestInitDBCreatesFileAndSchema(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(config.EnvCQEHome, tmp)
	t.Setenv(config.EnvCQEDB, "")

	dbPath, err := config.DBPath()
	if err != nil {
		t.Fatalf("DBPath(): %v", err)
	}

	db, err := InitDB()
	if err != nil {
		t.Fatalf("InitDB() error: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("db file not created: %v", err)
	}

	var count int
	r := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name='session_state'")
	if err := r.Scan(&count); err != nil {
		t.Fatalf("query schema: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected table 'session_state' to exist")
	}

	// Basic smoke test: ensure we can insert a row
	if _, err := db.Exec("INSERT INTO session_state (key, value, updated_at) VALUES (?, ?, datetime('now'))", "token", "abc"); err != nil {
		t.Fatalf("insert session row failed: %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := t.TempDir() + "/again.db"
	first, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	_ = first.Close()
	second, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	_ = second.Close()
}
