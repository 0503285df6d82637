package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		title            TEXT NOT NULL,
		category         TEXT NOT NULL
		                 CHECK(category IN ('shopping','reply','work','personal','other')),
		deadline         TEXT,
		scheduled_at     TEXT,
		duration_minutes INTEGER CHECK(duration_minutes IS NULL OR duration_minutes > 0),
		raw_input        TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'inbox'
		                 CHECK(status IN ('inbox','scheduled','completed','archived')),
		calendar_link    TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON tasks(user_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_created ON tasks(user_id, created_at)`,
}

// OpenDB opens the SQLite database at path and applies migrations.
func OpenDB(path string) (*sql.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

// Migrate runs all schema migrations. Statements are idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
