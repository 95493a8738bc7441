// Package data persists the question catalogue in SQLite.
package data

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yola1107/kratos/v2/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS questions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	author      TEXT NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL,
	language    TEXT NOT NULL,
	difficulty  TEXT NOT NULL,
	category    TEXT NOT NULL,
	question    TEXT NOT NULL,
	answer      REAL NOT NULL,
	answer_unit TEXT NOT NULL DEFAULT '',
	hints       TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_questions_filter
	ON questions (language, difficulty, category);
`

// Data wraps the SQLite handle.
type Data struct {
	db *sql.DB
}

// NewData opens the database at path and ensures the schema exists. The
// returned cleanup closes the handle.
func NewData(path string) (*Data, func(), error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil, fmt.Errorf("database path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("apply schema: %w", err)
	}

	cleanup := func() {
		log.Info("closing the data resources")
		_ = db.Close()
	}
	return &Data{db: db}, cleanup, nil
}
