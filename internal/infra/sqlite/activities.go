package sqlite

import (
	"database/sql"
	"time"

	"github.com/whoamaiii/devxp/internal/domain"
)

// ─── Activity Log ───────────────────────────────────────────────────────────

// InsertActivity appends one awarded activity to the log.
func (d *DB) InsertActivity(rec *domain.ActivityRecord) error {
	res, err := d.db.Exec(
		`INSERT INTO activities (user_id, type, xp, multiplier, difficulty, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.UserID, string(rec.Type), rec.XP, rec.Multiplier, string(rec.Difficulty), rec.RecordedAt.Unix(),
	)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// RecentActivities returns a user's latest awards, newest first.
func (d *DB) RecentActivities(userID string, limit int) ([]domain.ActivityRecord, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, type, xp, multiplier, difficulty, recorded_at
		 FROM activities WHERE user_id = ?
		 ORDER BY recorded_at DESC, id DESC LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ActivityRecord
	for rows.Next() {
		var rec domain.ActivityRecord
		var typ, diff string
		var recordedAt int64
		if err := rows.Scan(&rec.ID, &rec.UserID, &typ, &rec.XP, &rec.Multiplier, &diff, &recordedAt); err != nil {
			return nil, err
		}
		rec.Type = domain.ActivityType(typ)
		rec.Difficulty = domain.Difficulty(diff)
		rec.RecordedAt = time.Unix(recordedAt, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ActivityTotals returns per-type XP sums for a user since the given time.
// A zero since covers the whole log.
func (d *DB) ActivityTotals(userID string, since time.Time) (map[domain.ActivityType]int64, error) {
	rows, err := d.db.Query(
		`SELECT type, SUM(xp) FROM activities
		 WHERE user_id = ? AND recorded_at >= ?
		 GROUP BY type`, userID, since.Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[domain.ActivityType]int64)
	for rows.Next() {
		var typ string
		var sum int64
		if err := rows.Scan(&typ, &sum); err != nil {
			return nil, err
		}
		totals[domain.ActivityType(typ)] = sum
	}
	return totals, rows.Err()
}

// ─── Counters ───────────────────────────────────────────────────────────────

// BumpCounter adds delta to a named per-user counter, creating it at delta.
func (d *DB) BumpCounter(userID, name string, delta int64) error {
	_, err := d.db.Exec(
		`INSERT INTO counters (user_id, name, value) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, name) DO UPDATE SET value = value + excluded.value`,
		userID, name, delta,
	)
	return err
}

// Counter reads one counter; missing counters read as zero.
func (d *DB) Counter(userID, name string) (int64, error) {
	var v int64
	err := d.db.QueryRow(
		`SELECT value FROM counters WHERE user_id = ? AND name = ?`, userID, name,
	).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Counters returns all of a user's counters.
func (d *DB) Counters(userID string) (map[string]int64, error) {
	rows, err := d.db.Query(`SELECT name, value FROM counters WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var name string
		var v int64
		if err := rows.Scan(&name, &v); err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, rows.Err()
}
