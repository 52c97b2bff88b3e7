// Package domain holds the engagement engine's pure types.
// Developer activity (commits, test runs, deploys, terminal commands)
// flows in as occurrences; XP, levels, achievements, and challenges flow out.
package domain

import "time"

// ─── Activity Types ─────────────────────────────────────────────────────────

// ActivityType identifies the kind of developer activity being rewarded.
// Unknown types are valid and fall back to the default base XP.
type ActivityType string

const (
	ActGitCommit   ActivityType = "git_commit"
	ActGitPush     ActivityType = "git_push"
	ActGitBranch   ActivityType = "git_branch"
	ActGitMerge    ActivityType = "git_merge"
	ActTestRun     ActivityType = "test_run"
	ActTestPass    ActivityType = "test_pass"
	ActDeploy      ActivityType = "deploy"
	ActCommandRun  ActivityType = "command_run"
	ActFileCreated ActivityType = "file_created"
	ActCodeReview  ActivityType = "code_review"
)

// Difficulty grades how demanding an activity was. Empty means ungraded.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// ActivityContext carries the optional attributes a host attaches to an
// occurrence. Quality is only meaningful when Scored is set; a zero-value
// context must not imply a quality score of zero.
type ActivityContext struct {
	Difficulty Difficulty `json:"difficulty,omitempty"`
	FirstTime  bool       `json:"first_time,omitempty"`
	Quality    int        `json:"quality,omitempty"` // 0–100
	Scored     bool       `json:"scored,omitempty"`
	Lines      int        `json:"lines,omitempty"` // lines touched, feeds counters
}

// UserSnapshot is the acting user's progression state at occurrence time.
// Hosts assemble it from durable storage; the engine treats it as truth.
type UserSnapshot struct {
	UserID     string `json:"user_id"`
	Level      int    `json:"level"`
	TotalXP    int64  `json:"total_xp"`
	StreakDays int    `json:"streak_days"`
	Premium    bool   `json:"premium"`
}

// ActivityOccurrence is one reported developer action.
type ActivityOccurrence struct {
	Type    ActivityType    `json:"type"`
	At      time.Time       `json:"at"`
	User    UserSnapshot    `json:"user"`
	Context ActivityContext `json:"context"`
}

// ActivityRecord is the persisted audit-trail row for an awarded occurrence.
type ActivityRecord struct {
	ID         int64        `json:"id"`
	UserID     string       `json:"user_id"`
	Type       ActivityType `json:"type"`
	XP         int64        `json:"xp"`
	Multiplier float64      `json:"multiplier"`
	Difficulty Difficulty   `json:"difficulty,omitempty"`
	RecordedAt time.Time    `json:"recorded_at"`
}

// RecordRequest is one ingestion call into the host pipeline. A zero At
// means now; an empty UserID means the configured default user.
type RecordRequest struct {
	UserID  string          `json:"user_id,omitempty"`
	Type    ActivityType    `json:"type"`
	Context ActivityContext `json:"context,omitempty"`
	At      time.Time       `json:"at,omitempty"`
}

// RecordOutcome bundles everything one recorded occurrence produced: the
// award, the events it triggered, and the profile after persistence.
type RecordOutcome struct {
	Result  *XPResult   `json:"result"`
	Events  []Event     `json:"events,omitempty"`
	Profile UserProfile `json:"profile"`
}
