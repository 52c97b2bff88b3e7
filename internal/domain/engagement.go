// Engagement types: achievements, challenges, streaks, and the events the
// engine emits when they fire. Rewards track work the developer actually
// did, never synthetic engagement.
package domain

import "time"

// ─── Achievement Types ──────────────────────────────────────────────────────

// AchievementCategory groups achievements by theme.
type AchievementCategory string

const (
	CatCommits  AchievementCategory = "commits"
	CatShipping AchievementCategory = "shipping"
	CatTesting  AchievementCategory = "testing"
	CatTerminal AchievementCategory = "terminal"
	CatCode     AchievementCategory = "code"
	CatStreaks  AchievementCategory = "streaks"
	CatMastery  AchievementCategory = "mastery"
)

// AchievementDef defines a single achievement. Definitions are immutable
// after engine construction; per-user unlock state lives separately.
// The id prefix (up to the trailing number) names the counter that feeds
// progress display; the predicate alone decides unlocking.
type AchievementDef struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Category    AchievementCategory        `json:"category"`
	Icon        string                     `json:"icon"`
	Goal        int64                      `json:"goal"`
	RewardXP    int64                      `json:"reward_xp"`
	Hidden      bool                       `json:"hidden,omitempty"`
	Predicate   func(ContextSnapshot) bool `json:"-"` // not serialized
}

// AchievementState is one user's progress against one definition.
// Unlocked is terminal except via an explicit full reset.
type AchievementState struct {
	ID         string    `json:"id"`
	Unlocked   bool      `json:"unlocked"`
	UnlockedAt time.Time `json:"unlocked_at,omitempty"`
	Progress   int64     `json:"progress"`
}

// ContextSnapshot is the host-assembled view of a user's lifetime counters
// fed to achievement predicates and progress sources.
type ContextSnapshot struct {
	UserID        string    `json:"user_id"`
	Now           time.Time `json:"now"` // evaluation instant, drives time-gated unlocks
	Commits       int64     `json:"commits"`
	Pushes        int64     `json:"pushes"`
	Branches      int64     `json:"branches"`
	Merges        int64     `json:"merges"`
	TestsRun      int64     `json:"tests_run"`
	TestsPassed   int64     `json:"tests_passed"`
	Deploys       int64     `json:"deploys"`
	Commands      int64     `json:"commands"`
	FilesCreated  int64     `json:"files_created"`
	Lines         int64     `json:"lines"`
	Reviews       int64     `json:"reviews"`
	StreakDays    int       `json:"streak_days"`
	LongestStreak int       `json:"longest_streak"`
	Level         int       `json:"level"`
	TotalXP       int64     `json:"total_xp"`
	Challenges    int64     `json:"challenges"` // lifetime completed challenges

	// Custom carries host-defined metrics for bespoke predicates.
	Custom map[string]int64 `json:"custom,omitempty"`
}

// CategoryProgress counts unlocks inside one category.
type CategoryProgress struct {
	Unlocked int `json:"unlocked"`
	Total    int `json:"total"`
}

// NearUnlock is a locked, visible achievement close to completion.
type NearUnlock struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Progress int64   `json:"progress"`
	Goal     int64   `json:"goal"`
	Ratio    float64 `json:"ratio"` // progress/goal in [0,1)
}

// AchievementStats summarizes a user's standing across the catalog.
type AchievementStats struct {
	Unlocked   int                                      `json:"unlocked"`
	Total      int                                      `json:"total"`
	Percent    float64                                  `json:"percent"`
	ByCategory map[AchievementCategory]CategoryProgress `json:"by_category"`
	Nearest    []NearUnlock                             `json:"nearest"`
	Recent     []Event                                  `json:"recent"` // newest first
}

// ─── Challenge Types ────────────────────────────────────────────────────────

// ChallengeKind distinguishes the challenge cadences.
type ChallengeKind string

const (
	ChallengeDaily   ChallengeKind = "daily"
	ChallengeWeekly  ChallengeKind = "weekly"
	ChallengeSpecial ChallengeKind = "special"
)

// Challenge is one time-boxed goal. Activity empty means any activity
// counts. Completed challenges keep counting toward completion bonuses even
// past expiry; expired incomplete ones merely drop out of active listings.
type Challenge struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Kind        ChallengeKind `json:"kind"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Activity    ActivityType  `json:"activity,omitempty"`
	Goal        int           `json:"goal"`
	Progress    int           `json:"progress"`
	RewardXP    int64         `json:"reward_xp"`
	CreatedAt   time.Time     `json:"created_at"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Completed   bool          `json:"completed"`
	CompletedAt time.Time     `json:"completed_at,omitempty"`
}

// IsExpired reports whether the deadline has passed at the given instant.
func (c Challenge) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// IsActive reports whether the challenge still accepts progress.
func (c Challenge) IsActive(now time.Time) bool {
	return !c.Completed && !c.IsExpired(now)
}

// ProgressPct returns completion percentage (0–100).
func (c Challenge) ProgressPct() float64 {
	if c.Goal <= 0 {
		return 100.0
	}
	pct := float64(c.Progress) / float64(c.Goal) * 100.0
	if pct > 100.0 {
		pct = 100.0
	}
	return pct
}

// ChallengeTemplate is one entry of the weekly challenge menu.
type ChallengeTemplate struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Activity    ActivityType `json:"activity"`
	Goal        int          `json:"goal"`
	RewardXP    int64        `json:"reward_xp"`
}

// ChallengeBoard is the host-served view of a user's challenges. The bonus
// fields report the all-or-nothing set bonus per kind: zero while any
// tracked challenge of that kind is open, the flat amount once all are done.
type ChallengeBoard struct {
	Active      []Challenge `json:"active"`
	DailyBonus  int64       `json:"daily_bonus"`
	WeeklyBonus int64       `json:"weekly_bonus"`
}

// ─── Streak Types ───────────────────────────────────────────────────────────

// StreakState is the engine's cached view of one user's consecutive-day
// streak. Day accounting lives with the host; the engine records milestone
// awards so each exact-day milestone pays out once.
type StreakState struct {
	Days         int          `json:"days"`
	Awarded      map[int]bool `json:"awarded,omitempty"` // milestone days already paid
	PendingBonus int64        `json:"pending_bonus,omitempty"`
}

// StreakMilestone reports an exact-day milestone hit by a streak update.
type StreakMilestone struct {
	Day   int   `json:"day"`
	Bonus int64 `json:"bonus"`
}

// ─── Engagement Events ──────────────────────────────────────────────────────

// EventType categorizes engine notifications.
type EventType string

const (
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventLevelUp             EventType = "level_up"
	EventStreakMilestone     EventType = "streak_milestone"
	EventChallengeCompleted  EventType = "challenge_completed"
	EventCategoryCompleted   EventType = "category_completed"
)

// Event is one engagement notification, dispatched synchronously to
// listeners in registration order and persisted by hosts as an audit trail.
type Event struct {
	Type   EventType `json:"type"`
	UserID string    `json:"user_id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	RefID  string    `json:"ref_id,omitempty"` // achievement/challenge/category id
	XP     int64     `json:"xp,omitempty"`     // attached reward
	Level  int       `json:"level,omitempty"`  // for level_up
	At     time.Time `json:"at"`
}
