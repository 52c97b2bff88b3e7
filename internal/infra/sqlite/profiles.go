package sqlite

import (
	"database/sql"
	"time"

	"github.com/whoamaiii/devxp/internal/domain"
)

// ─── Profiles ───────────────────────────────────────────────────────────────

// GetProfile retrieves a user's progression record.
func (d *DB) GetProfile(userID string) (*domain.UserProfile, error) {
	row := d.db.QueryRow(
		`SELECT user_id, total_xp, level, streak_days, longest_streak, last_active, freeze_week, premium, created_at, updated_at
		 FROM profiles WHERE user_id = ?`, userID,
	)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrProfileNotFound
	}
	return p, err
}

// EnsureProfile returns the user's profile, creating a fresh level-1 record
// on first sight.
func (d *DB) EnsureProfile(userID string, now time.Time) (*domain.UserProfile, error) {
	p, err := d.GetProfile(userID)
	if err == nil {
		return p, nil
	}
	if err != domain.ErrProfileNotFound {
		return nil, err
	}

	p = &domain.UserProfile{
		UserID:    userID,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.SaveProfile(p); err != nil {
		return nil, err
	}
	return p, nil
}

// SaveProfile inserts or updates a full profile row.
func (d *DB) SaveProfile(p *domain.UserProfile) error {
	_, err := d.db.Exec(
		`INSERT INTO profiles (user_id, total_xp, level, streak_days, longest_streak, last_active, freeze_week, premium, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			total_xp=excluded.total_xp,
			level=excluded.level,
			streak_days=excluded.streak_days,
			longest_streak=excluded.longest_streak,
			last_active=excluded.last_active,
			freeze_week=excluded.freeze_week,
			premium=excluded.premium,
			updated_at=excluded.updated_at`,
		p.UserID, p.TotalXP, p.Level, p.StreakDays, p.LongestStreak,
		nullableUnix(p.LastActive), p.FreezeWeekISO, p.Premium,
		p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	return err
}

// Leaderboard returns the top users by total XP, ranked from 1.
func (d *DB) Leaderboard(limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := d.db.Query(
		`SELECT user_id, total_xp, level, streak_days
		 FROM profiles ORDER BY total_xp DESC, user_id ASC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.TotalXP, &e.Level, &e.StreakDays); err != nil {
			return nil, err
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanProfile(s scanner) (*domain.UserProfile, error) {
	var p domain.UserProfile
	var lastActive sql.NullInt64
	var createdAt, updatedAt int64

	err := s.Scan(&p.UserID, &p.TotalXP, &p.Level, &p.StreakDays, &p.LongestStreak,
		&lastActive, &p.FreezeWeekISO, &p.Premium, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	p.LastActive = unixOrZero(lastActive)
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}
