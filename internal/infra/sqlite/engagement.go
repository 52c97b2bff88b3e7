package sqlite

import (
	"database/sql"
	"time"

	"github.com/whoamaiii/devxp/internal/domain"
)

// ─── Achievements ───────────────────────────────────────────────────────────

// SaveAchievementStates upserts a user's per-achievement progress rows.
func (d *DB) SaveAchievementStates(userID string, states []domain.AchievementState) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, st := range states {
		_, err := tx.Exec(
			`INSERT INTO achievements (user_id, id, unlocked, unlocked_at, progress)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(user_id, id) DO UPDATE SET
				unlocked=excluded.unlocked,
				unlocked_at=excluded.unlocked_at,
				progress=excluded.progress`,
			userID, st.ID, st.Unlocked, nullableUnix(st.UnlockedAt), st.Progress,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AchievementStates loads a user's stored achievement progress.
func (d *DB) AchievementStates(userID string) ([]domain.AchievementState, error) {
	rows, err := d.db.Query(
		`SELECT id, unlocked, unlocked_at, progress
		 FROM achievements WHERE user_id = ?`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AchievementState
	for rows.Next() {
		var st domain.AchievementState
		var unlockedAt sql.NullInt64
		if err := rows.Scan(&st.ID, &st.Unlocked, &unlockedAt, &st.Progress); err != nil {
			return nil, err
		}
		st.UnlockedAt = unixOrZero(unlockedAt)
		out = append(out, st)
	}
	return out, rows.Err()
}

// ─── Challenges ─────────────────────────────────────────────────────────────

// SaveChallenge upserts one challenge row.
func (d *DB) SaveChallenge(c *domain.Challenge) error {
	_, err := d.db.Exec(
		`INSERT INTO challenges (id, user_id, kind, name, description, activity, goal, progress, reward_xp, created_at, expires_at, completed, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			progress=excluded.progress,
			completed=excluded.completed,
			completed_at=excluded.completed_at`,
		c.ID, c.UserID, string(c.Kind), c.Name, c.Description, string(c.Activity),
		c.Goal, c.Progress, c.RewardXP,
		c.CreatedAt.Unix(), c.ExpiresAt.Unix(), c.Completed, nullableUnix(c.CompletedAt),
	)
	return err
}

// Challenges loads every stored challenge for a user, newest first.
func (d *DB) Challenges(userID string) ([]domain.Challenge, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, kind, name, description, activity, goal, progress, reward_xp, created_at, expires_at, completed, completed_at
		 FROM challenges WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// DeleteExpiredChallenges removes a user's expired incomplete challenges and
// reports how many went.
func (d *DB) DeleteExpiredChallenges(userID string, now time.Time) (int64, error) {
	res, err := d.db.Exec(
		`DELETE FROM challenges
		 WHERE user_id = ? AND completed = 0 AND expires_at < ?`,
		userID, now.Unix(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanChallenge(s scanner) (*domain.Challenge, error) {
	var c domain.Challenge
	var kind, activity string
	var createdAt, expiresAt int64
	var completedAt sql.NullInt64

	err := s.Scan(&c.ID, &c.UserID, &kind, &c.Name, &c.Description, &activity,
		&c.Goal, &c.Progress, &c.RewardXP, &createdAt, &expiresAt, &c.Completed, &completedAt)
	if err != nil {
		return nil, err
	}

	c.Kind = domain.ChallengeKind(kind)
	c.Activity = domain.ActivityType(activity)
	c.CreatedAt = time.Unix(createdAt, 0)
	c.ExpiresAt = time.Unix(expiresAt, 0)
	c.CompletedAt = unixOrZero(completedAt)
	return &c, nil
}

// ─── Events ─────────────────────────────────────────────────────────────────

// AppendEvent stores one engagement notification in the audit trail.
func (d *DB) AppendEvent(ev *domain.Event) error {
	_, err := d.db.Exec(
		`INSERT INTO events (user_id, type, title, body, ref_id, xp, level, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.UserID, string(ev.Type), ev.Title, ev.Body, ev.RefID, ev.XP, ev.Level, ev.At.Unix(),
	)
	return err
}

// RecentEvents returns a user's latest notifications, newest first.
func (d *DB) RecentEvents(userID string, limit int) ([]domain.Event, error) {
	rows, err := d.db.Query(
		`SELECT user_id, type, title, body, ref_id, xp, level, created_at
		 FROM events WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var ev domain.Event
		var typ string
		var createdAt int64
		if err := rows.Scan(&ev.UserID, &typ, &ev.Title, &ev.Body, &ev.RefID, &ev.XP, &ev.Level, &createdAt); err != nil {
			return nil, err
		}
		ev.Type = domain.EventType(typ)
		ev.At = time.Unix(createdAt, 0)
		out = append(out, ev)
	}
	return out, rows.Err()
}
