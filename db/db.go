package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS patterns (
	position INTEGER PRIMARY KEY,
	id TEXT NOT NULL DEFAULT '',
	question_pattern TEXT NOT NULL,
	intent TEXT NOT NULL,
	canonical_key TEXT NOT NULL DEFAULT '',
	field_type TEXT NOT NULL DEFAULT '',
	confidence REAL NOT NULL DEFAULT 0,
	source TEXT NOT NULL DEFAULT 'AI',
	answer_mappings TEXT NOT NULL DEFAULT '[]',
	usage_count INTEGER NOT NULL DEFAULT 1,
	created_at TEXT,
	last_used TEXT
);

CREATE TABLE IF NOT EXISTS user_profiles (
	email TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	date_modified DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_patterns_intent ON patterns(intent);
CREATE INDEX IF NOT EXISTS idx_patterns_id ON patterns(id);
`

// Open 打开 SQLite 数据库并建表
func Open(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}

	// pragmas go in the DSN so every pooled connection gets them
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	if dbPath == ":memory:" {
		// each connection would otherwise see its own empty database
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(8)
		conn.SetMaxIdleConns(2)
	}
	conn.SetConnMaxLifetime(time.Hour)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return conn, nil
}
