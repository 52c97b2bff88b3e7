package engagement

import (
	"fmt"

	"github.com/whoamaiii/devxp/internal/domain"
)

// ─── Engine Settings ─────────────────────────────────────────────────────────

// Settings tunes every knob of the engine. Hosts start from DefaultSettings
// and override; NewEngine validates the result once at construction.
type Settings struct {
	// BaseXP maps activity types to their base award. Types missing from
	// the table fall back to DefaultBaseXP; unknown activities are valid.
	BaseXP        map[domain.ActivityType]int64
	DefaultBaseXP int64

	// Progression parameterizes the level curve.
	Progression domain.ProgressionConfig

	// Multiplier product bounds. The resolved total always lands inside
	// [Floor, Ceiling]; breaches clamp with a warning, never an error.
	MultiplierFloor   float64
	MultiplierCeiling float64

	// Streak bonus: 1 + days*StreakDailyRate, capped at StreakCap.
	// StreakMilestones pays a one-time flat XP bonus the day a streak
	// hits exactly that length.
	StreakDailyRate  float64
	StreakCap        float64
	StreakMilestones map[int]int64

	// Challenge generation and rewards.
	DailyChallengeXP      int64
	DailyGoalMin          int
	DailyGoalMax          int
	DailyCompletionBonus  int64
	WeeklyCompletionBonus int64
	WeeklyMenu            []domain.ChallengeTemplate

	// Catalog overrides the built-in achievement definitions when set.
	Catalog []domain.AchievementDef

	// RecentUnlocks caps the per-user ring of remembered unlock events.
	RecentUnlocks int

	// Seed fixes challenge randomness; 0 seeds from the clock.
	Seed int64
}

// DefaultSettings returns the tuning the CLI ships with.
func DefaultSettings() Settings {
	return Settings{
		BaseXP: map[domain.ActivityType]int64{
			domain.ActGitCommit:   50,
			domain.ActGitPush:     40,
			domain.ActGitBranch:   30,
			domain.ActGitMerge:    60,
			domain.ActTestRun:     30,
			domain.ActTestPass:    40,
			domain.ActDeploy:      100,
			domain.ActCommandRun:  10,
			domain.ActFileCreated: 15,
			domain.ActCodeReview:  45,
		},
		DefaultBaseXP: 25,
		Progression: domain.ProgressionConfig{
			Formula:         domain.FormulaExponential,
			BaseRequirement: 100,
			LevelMultiplier: 1.5,
			MaxLevel:        100,
		},
		MultiplierFloor:   0.1,
		MultiplierCeiling: 5.0,
		StreakDailyRate:   0.05,
		StreakCap:         2.0,
		StreakMilestones: map[int]int64{
			7:   50,
			30:  250,
			100: 1000,
			365: 5000,
		},
		DailyChallengeXP:      100,
		DailyGoalMin:          3,
		DailyGoalMax:          7,
		DailyCompletionBonus:  50,
		WeeklyCompletionBonus: 200,
		WeeklyMenu:            DefaultWeeklyMenu(),
		RecentUnlocks:         50,
	}
}

// baseFor resolves the base XP for an activity type.
func (s *Settings) baseFor(t domain.ActivityType) int64 {
	if xp, ok := s.BaseXP[t]; ok {
		return xp
	}
	return s.DefaultBaseXP
}

func (s *Settings) validate() error {
	if s.MultiplierFloor <= 0 {
		return fmt.Errorf("%w: multiplier floor must be positive, got %g", domain.ErrInvalidSettings, s.MultiplierFloor)
	}
	if s.MultiplierCeiling < s.MultiplierFloor {
		return fmt.Errorf("%w: multiplier ceiling %g below floor %g", domain.ErrInvalidSettings, s.MultiplierCeiling, s.MultiplierFloor)
	}
	if s.StreakDailyRate < 0 {
		return fmt.Errorf("%w: streak daily rate must not be negative", domain.ErrInvalidSettings)
	}
	if s.StreakCap < 1 {
		return fmt.Errorf("%w: streak cap must be at least 1, got %g", domain.ErrInvalidSettings, s.StreakCap)
	}
	if s.DailyGoalMin < 1 || s.DailyGoalMax < s.DailyGoalMin {
		return fmt.Errorf("%w: daily goal range [%d,%d] invalid", domain.ErrInvalidSettings, s.DailyGoalMin, s.DailyGoalMax)
	}
	if len(s.WeeklyMenu) == 0 {
		return fmt.Errorf("%w: weekly challenge menu is empty", domain.ErrInvalidSettings)
	}
	if s.RecentUnlocks < 1 {
		return fmt.Errorf("%w: recent unlock capacity must be at least 1", domain.ErrInvalidSettings)
	}
	return nil
}
