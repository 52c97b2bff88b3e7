// Package sqlite provides SQLite-based persistent storage for devxp.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/whoamaiii/devxp/internal/domain"
)

// DBFileName is the database file created under the data directory.
const DBFileName = "devxp.db"

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db   *sql.DB
	path string
}

// Open creates or opens the SQLite database at dir/devxp.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, DBFileName)
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db, path: dbPath}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// Path returns the database file location.
func (d *DB) Path() string {
	return d.path
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Per-user progression record
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id        TEXT PRIMARY KEY,
			total_xp       INTEGER NOT NULL DEFAULT 0,
			level          INTEGER NOT NULL DEFAULT 1,
			streak_days    INTEGER NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0,
			last_active    INTEGER,
			freeze_week    TEXT NOT NULL DEFAULT '',
			premium        BOOLEAN DEFAULT 0,
			created_at     INTEGER NOT NULL,
			updated_at     INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_xp ON profiles(total_xp)`,

		// Append-only audit trail of awarded activities
		`CREATE TABLE IF NOT EXISTS activities (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     TEXT NOT NULL,
			type        TEXT NOT NULL,
			xp          INTEGER NOT NULL,
			multiplier  REAL NOT NULL DEFAULT 1.0,
			difficulty  TEXT,
			recorded_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_user ON activities(user_id, recorded_at)`,

		// Named per-user counters feeding achievement snapshots
		`CREATE TABLE IF NOT EXISTS counters (
			user_id TEXT NOT NULL,
			name    TEXT NOT NULL,
			value   INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, name)
		)`,

		// Achievement unlock/progress rows
		`CREATE TABLE IF NOT EXISTS achievements (
			user_id     TEXT NOT NULL,
			id          TEXT NOT NULL,
			unlocked    BOOLEAN DEFAULT 0,
			unlocked_at INTEGER,
			progress    INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, id)
		)`,

		// Challenges with progress tracking
		`CREATE TABLE IF NOT EXISTS challenges (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL,
			kind         TEXT NOT NULL,
			name         TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			activity     TEXT NOT NULL DEFAULT '',
			goal         INTEGER NOT NULL,
			progress     INTEGER NOT NULL DEFAULT 0,
			reward_xp    INTEGER NOT NULL,
			created_at   INTEGER NOT NULL,
			expires_at   INTEGER NOT NULL,
			completed    BOOLEAN DEFAULT 0,
			completed_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_challenges_user ON challenges(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_challenges_expires ON challenges(expires_at)`,

		// Engagement event audit (level-ups, unlocks, milestones)
		`CREATE TABLE IF NOT EXISTS events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL DEFAULT '',
			ref_id     TEXT NOT NULL DEFAULT '',
			xp         INTEGER NOT NULL DEFAULT 0,
			level      INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_user ON events(user_id, created_at)`,

		// Key-value store for engine snapshots and schema meta
		`CREATE TABLE IF NOT EXISTS state (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Key-Value State ────────────────────────────────────────────────────────

// SetState stores a key-value pair in the state table.
func (d *DB) SetState(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// GetState retrieves a value from the state table, empty when missing.
func (d *DB) GetState(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// engineSnapshotKey is where the serialized engine state lives.
const engineSnapshotKey = "engine_snapshot"

// SaveEngineSnapshot persists the serialized engine state.
func (d *DB) SaveEngineSnapshot(raw string) error {
	return d.SetState(engineSnapshotKey, raw)
}

// LoadEngineSnapshot returns the serialized engine state, empty when none
// was ever saved.
func (d *DB) LoadEngineSnapshot() (string, error) {
	return d.GetState(engineSnapshotKey)
}

// ─── Backup & Restore ───────────────────────────────────────────────────────

// Backup writes a consistent copy of the live database to path using
// VACUUM INTO. Refuses to overwrite an existing file.
func (d *DB) Backup(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrBackupExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if _, err := d.db.Exec(`VACUUM INTO ?`, path); err != nil {
		return fmt.Errorf("vacuum into: %w", err)
	}
	return nil
}

// Restore copies a backup file over the database in dir. It must run while
// no DB handle is open; callers stop the daemon first.
func Restore(dir, backupPath string) error {
	src, err := os.Open(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", domain.ErrBackupMissing, backupPath)
		}
		return fmt.Errorf("open backup: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	dbPath := filepath.Join(dir, DBFileName)

	// Stale WAL sidecars would shadow the restored file.
	os.Remove(dbPath + "-wal")
	os.Remove(dbPath + "-shm")

	dst, err := os.OpenFile(dbPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open database file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy backup: %w", err)
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func unixOrZero(n sql.NullInt64) time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return time.Unix(n.Int64, 0)
}
