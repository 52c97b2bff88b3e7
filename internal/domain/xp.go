package domain

import (
	"math"
	"time"
)

// ─── Progression Types ──────────────────────────────────────────────────────

// FormulaKind selects how much XP each level requires.
type FormulaKind string

const (
	FormulaLinear      FormulaKind = "linear"
	FormulaExponential FormulaKind = "exponential"
	FormulaFibonacci   FormulaKind = "fibonacci"
	FormulaCustom      FormulaKind = "custom"
)

// UnreachableXP is the requirement reported for levels past the cap.
const UnreachableXP int64 = math.MaxInt64

// ProgressionConfig parameterizes the level curve.
type ProgressionConfig struct {
	Formula         FormulaKind `json:"formula"`
	BaseRequirement int64       `json:"base_requirement"` // XP to complete level 1
	LevelMultiplier float64     `json:"level_multiplier"` // exponential growth factor
	MaxLevel        int         `json:"max_level"`

	// Custom maps a level to its XP requirement when Formula is
	// FormulaCustom. A panicking function is recovered and surfaced as a
	// configuration error, never propagated.
	Custom func(level int) int64 `json:"-"`
}

// ─── Multiplier Types ───────────────────────────────────────────────────────

// MultiplierKind identifies one bonus-factor source.
type MultiplierKind string

const (
	MultDifficulty MultiplierKind = "difficulty"
	MultStreak     MultiplierKind = "streak"
	MultFirstTime  MultiplierKind = "first_time"
	MultWeekend    MultiplierKind = "weekend"
	MultHappyHour  MultiplierKind = "happy_hour"
	MultPremium    MultiplierKind = "premium"
	MultQuality    MultiplierKind = "quality"
	MultCustom     MultiplierKind = "custom"
)

// Multiplier is one applied bonus factor in an XP computation.
type Multiplier struct {
	Kind        MultiplierKind `json:"kind"`
	Factor      float64        `json:"factor"`
	Description string         `json:"description"`
}

// CustomMultiplier is a host-registered per-user bonus with an optional
// expiry. Inactive or expired entries are pruned, never applied.
type CustomMultiplier struct {
	ID          string    `json:"id"`
	Factor      float64   `json:"factor"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"` // zero = never expires
}

// Expired reports whether the multiplier's expiry has passed.
func (m CustomMultiplier) Expired(now time.Time) bool {
	return !m.ExpiresAt.IsZero() && now.After(m.ExpiresAt)
}

// ─── XP Computation Result ──────────────────────────────────────────────────

// XPResult is the outcome of one XP computation. The engine never persists
// it; callers apply FinalXP to durable state and forward it onward.
type XPResult struct {
	UserID          string       `json:"user_id"`
	Activity        ActivityType `json:"activity"`
	BaseXP          int64        `json:"base_xp"`
	MilestoneBonus  int64        `json:"milestone_bonus,omitempty"` // flat, added to base
	Multipliers     []Multiplier `json:"multipliers"`
	TotalMultiplier float64      `json:"total_multiplier"`
	FinalXP         int64        `json:"final_xp"`
	Breakdown       []string     `json:"breakdown"`
	Warnings        []string     `json:"warnings,omitempty"`
	WouldLevelUp    bool         `json:"would_level_up"`
	NewLevel        int          `json:"new_level"`
	ComputedAt      time.Time    `json:"computed_at"`
}
