// Package history records deletion outcomes in a SQLite database so
// forced deletions leave an audit trail.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB manages the SQLite database for deletion history.
type DB struct {
	db *sql.DB
}

// Record is a single recorded deletion outcome.
type Record struct {
	ID           int64
	Timestamp    time.Time
	Action       string // "delete" or "list"
	Path         string
	ObjectType   string // "file", "directory", or "missing"
	MaxRetries   uint
	Forced       bool
	Elevated     bool
	ErrorMessage string
}

// Open creates the database connection and initializes the schema,
// creating the parent directory if needed.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// file: prefix with _loc=auto enables automatic DATETIME parsing
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	// Exercise the connection so the file is created and permission
	// problems surface here rather than at first insert.
	if _, err = db.Exec("SELECT 1"); err != nil {
		return nil, fmt.Errorf("failed to initialize database (check permissions on %s): %w", dbPath, err)
	}
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err = db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	h := &DB{db: db}
	if err = h.initSchema(); err != nil {
		return nil, err
	}

	err = nil
	return h, nil
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS deletions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		action TEXT NOT NULL,
		path TEXT NOT NULL,
		object_type TEXT NOT NULL,
		max_retries INTEGER NOT NULL,
		forced INTEGER NOT NULL,
		elevated INTEGER NOT NULL,
		error_message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_timestamp ON deletions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_path ON deletions(path);

	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`
	_, err := d.db.Exec(schema)
	return err
}

// RecordOutcome inserts one deletion outcome. errorMessage is empty on
// success.
func (d *DB) RecordOutcome(r Record) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	_, err := d.db.Exec(`
	INSERT INTO deletions (
		timestamp, action, path, object_type, max_retries, forced, elevated, error_message
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Timestamp, r.Action, r.Path, r.ObjectType, r.MaxRetries, r.Forced, r.Elevated, r.ErrorMessage,
	)
	return err
}

// Recent returns the newest records, most recent first.
func (d *DB) Recent(limit int) ([]Record, error) {
	rows, err := d.db.Query(`
	SELECT id, timestamp, action, path, object_type, max_retries, forced, elevated, error_message
	FROM deletions ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var errMsg sql.NullString
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Action, &r.Path, &r.ObjectType,
			&r.MaxRetries, &r.Forced, &r.Elevated, &errMsg); err != nil {
			return nil, err
		}
		r.ErrorMessage = errMsg.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
