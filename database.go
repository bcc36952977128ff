package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// OperatorRow represents an operator account
type OperatorRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS operators (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS protected_names (
		name TEXT PRIMARY KEY,
		operator_id INTEGER REFERENCES operators(id),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS journal_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		arena_id TEXT NOT NULL,
		seeker_id TEXT NOT NULL DEFAULT '',
		old_target INTEGER NOT NULL DEFAULT -1,
		new_target INTEGER NOT NULL DEFAULT -1,
		target_name TEXT NOT NULL DEFAULT '',
		tick INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_journal_arena ON journal_events(arena_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_journal_type ON journal_events(event_type);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		log.Error("db migration failed", "err", err)
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// CreateOperator creates an operator account (returns operator ID)
func (db *DB) CreateOperator(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO operators (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetOperatorByUsername returns an operator by username, or nil if none
func (db *DB) GetOperatorByUsername(username string) (*OperatorRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM operators WHERE username = ?",
		username,
	)
	o := &OperatorRow{}
	err := row.Scan(&o.ID, &o.Username, &o.PassHash, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return o, err
}

// UsernameExists checks if an operator username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM operators WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// GetSetting returns a stored setting, or "" if unset
func (db *DB) GetSetting(key string) string {
	var v string
	if err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v); err != nil {
		return ""
	}
	return v
}

// SetSetting stores a setting, replacing any previous value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// AddProtectedName marks a name as protected from targeting
func (db *DB) AddProtectedName(name string, operatorID int64) error {
	op := sql.NullInt64{Int64: operatorID, Valid: operatorID > 0}
	_, err := db.conn.Exec(
		"INSERT OR IGNORE INTO protected_names (name, operator_id) VALUES (?, ?)",
		name, op,
	)
	return err
}

// RemoveProtectedName lifts protection from a name
func (db *DB) RemoveProtectedName(name string) error {
	_, err := db.conn.Exec("DELETE FROM protected_names WHERE name = ?", name)
	return err
}

// ProtectedNames returns every protected name, sorted
func (db *DB) ProtectedNames() ([]string, error) {
	rows, err := db.conn.Query("SELECT name FROM protected_names ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
