package db

import (
	"database/sql"
	_ "embed"
	"fmt"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ApplyMigrations applies the embedded schema SQL to the database and
// performs lightweight post-creation migrations (adding new columns when needed).
func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	// Ensure new columns exist on upgrades
	if err := ensureSessionColumns(db); err != nil {
		return err
	}
	return nil
}

// ensureSessionColumns checks for optional columns and adds them when missing.
func ensureSessionColumns(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(session_state)")
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dflt interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_ = rows.Close()
	// updated_at arrived after the first release; SQLite refuses
	// non-constant defaults in ALTER TABLE so backfill separately.
	if !cols["updated_at"] {
		if _, err := db.Exec("ALTER TABLE session_state ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''"); err != nil {
			return err
		}
		if _, err := db.Exec("UPDATE session_state SET updated_at = datetime('now') WHERE updated_at = ''"); err != nil {
			return err
		}
	}
	return nil
}
