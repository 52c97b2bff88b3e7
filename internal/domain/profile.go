package domain

import "time"

// ─── Profile Types ──────────────────────────────────────────────────────────

// UserProfile is the durable per-user progression record. The store owns it;
// occurrence snapshots are cut from it.
type UserProfile struct {
	UserID        string    `json:"user_id"`
	TotalXP       int64     `json:"total_xp"`
	Level         int       `json:"level"`
	StreakDays    int       `json:"streak_days"`
	LongestStreak int       `json:"longest_streak"`
	LastActive    time.Time `json:"last_active"`               // last counted activity
	FreezeWeekISO string    `json:"freeze_week_iso,omitempty"` // "2026-W34" when a freeze was spent
	Premium       bool      `json:"premium"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LeaderboardEntry is one ranked row of the local leaderboard.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"user_id"`
	TotalXP    int64  `json:"total_xp"`
	Level      int    `json:"level"`
	StreakDays int    `json:"streak_days"`
}

// LevelStatus is the progression view hosts serve for one user.
type LevelStatus struct {
	UserID   string  `json:"user_id"`
	Level    int     `json:"level"`
	TotalXP  int64   `json:"total_xp"`
	XPToNext int64   `json:"xp_to_next"` // zero at the level cap
	Percent  float64 `json:"percent"`    // progress through the current level
	MaxLevel int     `json:"max_level"`
}

// StreakStatus is the streak view hosts serve for one user.
type StreakStatus struct {
	UserID          string    `json:"user_id"`
	Days            int       `json:"days"`
	Longest         int       `json:"longest"`
	LastActive      time.Time `json:"last_active,omitempty"`
	FreezeAvailable bool      `json:"freeze_available"` // weekly gap-bridge unspent
	PendingBonus    int64     `json:"pending_bonus,omitempty"`
	NextMilestone   int       `json:"next_milestone,omitempty"`
	MilestoneBonus  int64     `json:"milestone_bonus,omitempty"`
}
