package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store persists the corpus and taxonomy in SQLite. It implements the
// engine's corpus and taxonomy provider contracts.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// builder returns an SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS lessons (
		id       TEXT PRIMARY KEY,
		title    TEXT NOT NULL DEFAULT '',
		ord      INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sentences (
		lesson_id   TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		sentence_id INTEGER,
		phrases     TEXT,
		PRIMARY KEY (lesson_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS taxonomy_groups (
		position INTEGER PRIMARY KEY,
		family   TEXT NOT NULL,
		kind     TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS taxonomy_words (
		group_position INTEGER NOT NULL REFERENCES taxonomy_groups(position) ON DELETE CASCADE,
		position       INTEGER NOT NULL,
		word_id        TEXT NOT NULL,
		pos            TEXT NOT NULL DEFAULT '',
		alternates     TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (group_position, position)
	)`,
}

func migrate(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LINGOQUIZ_DB environment variable
// 2. $XDG_DATA_HOME/lingoquiz/lingoquiz.db
// 3. ~/.local/share/lingoquiz/lingoquiz.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LINGOQUIZ_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "lingoquiz", "lingoquiz.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
