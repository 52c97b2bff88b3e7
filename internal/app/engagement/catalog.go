package engagement

import (
	"strings"

	"github.com/whoamaiii/devxp/internal/domain"
)

// ─── Progress Sources ────────────────────────────────────────────────────────

// progressSources maps achievement id prefixes to the snapshot counter that
// feeds progress display. Order matters: the first matching prefix wins, so
// longer prefixes come before their shorter cousins. Achievements without a
// matching prefix (time-gated hidden ones) simply show no partial progress.
var progressSources = []struct {
	prefix  string
	counter func(domain.ContextSnapshot) int64
}{
	{"git_commit_", func(s domain.ContextSnapshot) int64 { return s.Commits }},
	{"git_push_", func(s domain.ContextSnapshot) int64 { return s.Pushes }},
	{"git_branch_", func(s domain.ContextSnapshot) int64 { return s.Branches }},
	{"git_merge_", func(s domain.ContextSnapshot) int64 { return s.Merges }},
	{"test_pass_", func(s domain.ContextSnapshot) int64 { return s.TestsPassed }},
	{"test_run_", func(s domain.ContextSnapshot) int64 { return s.TestsRun }},
	{"deploy_", func(s domain.ContextSnapshot) int64 { return s.Deploys }},
	{"command_", func(s domain.ContextSnapshot) int64 { return s.Commands }},
	{"file_", func(s domain.ContextSnapshot) int64 { return s.FilesCreated }},
	{"loc_", func(s domain.ContextSnapshot) int64 { return s.Lines }},
	{"review_", func(s domain.ContextSnapshot) int64 { return s.Reviews }},
	{"streak_longest_", func(s domain.ContextSnapshot) int64 { return int64(s.LongestStreak) }},
	{"streak_", func(s domain.ContextSnapshot) int64 { return int64(s.StreakDays) }},
	{"level_", func(s domain.ContextSnapshot) int64 { return int64(s.Level) }},
	{"challenge_", func(s domain.ContextSnapshot) int64 { return s.Challenges }},
}

// progressFor resolves the counter value backing an achievement id.
func progressFor(id string, snap domain.ContextSnapshot) (int64, bool) {
	for _, src := range progressSources {
		if strings.HasPrefix(id, src.prefix) {
			return src.counter(snap), true
		}
	}
	return 0, false
}

// ─── Achievement Catalog ─────────────────────────────────────────────────────
// 34 achievements across 7 categories, three of them hidden.
// Each has a counter-threshold predicate; the goal drives progress display.

// DefaultCatalog returns the built-in achievement definitions.
func DefaultCatalog() []domain.AchievementDef {
	return []domain.AchievementDef{
		// ── Commits (5) ────────────────────────────────────────────────
		{
			ID: "git_commit_1", Name: "First Blood", Category: domain.CatCommits,
			Icon: "🩸", Goal: 1, RewardXP: 50, Description: "Make your first commit",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Commits >= 1 },
		},
		{
			ID: "git_commit_10", Name: "Getting Committed", Category: domain.CatCommits,
			Icon: "📝", Goal: 10, RewardXP: 100, Description: "Make 10 commits",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Commits >= 10 },
		},
		{
			ID: "git_commit_100", Name: "Century of Commits", Category: domain.CatCommits,
			Icon: "💯", Goal: 100, RewardXP: 500, Description: "Make 100 commits",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Commits >= 100 },
		},
		{
			ID: "git_commit_500", Name: "Patch Barrage", Category: domain.CatCommits,
			Icon: "🧨", Goal: 500, RewardXP: 1200, Description: "Make 500 commits",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Commits >= 500 },
		},
		{
			ID: "git_commit_1000", Name: "Commit Machine", Category: domain.CatCommits,
			Icon: "🤖", Goal: 1000, RewardXP: 2500, Description: "Make 1000 commits",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Commits >= 1000 },
		},

		// ── Shipping (5) ───────────────────────────────────────────────
		{
			ID: "deploy_1", Name: "Ship It", Category: domain.CatShipping,
			Icon: "🚀", Goal: 1, RewardXP: 100, Description: "Run your first deploy",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Deploys >= 1 },
		},
		{
			ID: "deploy_10", Name: "Release Regular", Category: domain.CatShipping,
			Icon: "📦", Goal: 10, RewardXP: 400, Description: "Run 10 deploys",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Deploys >= 10 },
		},
		{
			ID: "deploy_50", Name: "Launch Commander", Category: domain.CatShipping,
			Icon: "🎖️", Goal: 50, RewardXP: 1500, Description: "Run 50 deploys",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Deploys >= 50 },
		},
		{
			ID: "git_merge_25", Name: "Merge Master", Category: domain.CatShipping,
			Icon: "🔀", Goal: 25, RewardXP: 300, Description: "Merge 25 branches",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Merges >= 25 },
		},
		{
			ID: "git_push_100", Name: "Prolific Pusher", Category: domain.CatShipping,
			Icon: "⬆️", Goal: 100, RewardXP: 400, Description: "Push 100 times",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Pushes >= 100 },
		},

		// ── Testing (4) ────────────────────────────────────────────────
		{
			ID: "test_run_1", Name: "Test Drive", Category: domain.CatTesting,
			Icon: "🧪", Goal: 1, RewardXP: 50, Description: "Run your first test suite",
			Predicate: func(s domain.ContextSnapshot) bool { return s.TestsRun >= 1 },
		},
		{
			ID: "test_run_100", Name: "Test Centurion", Category: domain.CatTesting,
			Icon: "✅", Goal: 100, RewardXP: 500, Description: "Run 100 test suites",
			Predicate: func(s domain.ContextSnapshot) bool { return s.TestsRun >= 100 },
		},
		{
			ID: "test_run_1000", Name: "Quality Obsessed", Category: domain.CatTesting,
			Icon: "🔬", Goal: 1000, RewardXP: 2500, Description: "Run 1000 test suites",
			Predicate: func(s domain.ContextSnapshot) bool { return s.TestsRun >= 1000 },
		},
		{
			ID: "test_pass_500", Name: "Green Wall", Category: domain.CatTesting,
			Icon: "🟢", Goal: 500, RewardXP: 1500, Description: "Pass 500 test runs",
			Predicate: func(s domain.ContextSnapshot) bool { return s.TestsPassed >= 500 },
		},

		// ── Terminal (3) ───────────────────────────────────────────────
		{
			ID: "command_100", Name: "Terminal Apprentice", Category: domain.CatTerminal,
			Icon: "⌨️", Goal: 100, RewardXP: 200, Description: "Run 100 commands",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Commands >= 100 },
		},
		{
			ID: "command_1000", Name: "Shell Veteran", Category: domain.CatTerminal,
			Icon: "🐚", Goal: 1000, RewardXP: 750, Description: "Run 1000 commands",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Commands >= 1000 },
		},
		{
			ID: "command_10000", Name: "Command Line Legend", Category: domain.CatTerminal,
			Icon: "🧙", Goal: 10000, RewardXP: 2500, Description: "Run 10000 commands",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Commands >= 10000 },
		},

		// ── Code (4) ───────────────────────────────────────────────────
		{
			ID: "file_50", Name: "File Factory", Category: domain.CatCode,
			Icon: "📁", Goal: 50, RewardXP: 200, Description: "Create 50 files",
			Predicate: func(s domain.ContextSnapshot) bool { return s.FilesCreated >= 50 },
		},
		{
			ID: "loc_1000", Name: "Kilocoder", Category: domain.CatCode,
			Icon: "✍️", Goal: 1000, RewardXP: 300, Description: "Touch 1000 lines of code",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Lines >= 1000 },
		},
		{
			ID: "loc_10000", Name: "Ten Thousand Lines", Category: domain.CatCode,
			Icon: "📜", Goal: 10000, RewardXP: 1000, Description: "Touch 10000 lines of code",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Lines >= 10000 },
		},
		{
			ID: "review_10", Name: "Second Pair of Eyes", Category: domain.CatCode,
			Icon: "👀", Goal: 10, RewardXP: 300, Description: "Review 10 changes",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Reviews >= 10 },
		},

		// ── Streaks (5) ────────────────────────────────────────────────
		{
			ID: "streak_7", Name: "Week Warrior", Category: domain.CatStreaks,
			Icon: "🔥", Goal: 7, RewardXP: 200, Description: "Code 7 days in a row",
			Predicate: func(s domain.ContextSnapshot) bool { return s.StreakDays >= 7 },
		},
		{
			ID: "streak_30", Name: "Monthly Machine", Category: domain.CatStreaks,
			Icon: "💪", Goal: 30, RewardXP: 1000, Description: "Code 30 days in a row",
			Predicate: func(s domain.ContextSnapshot) bool { return s.StreakDays >= 30 },
		},
		{
			ID: "streak_100", Name: "Centurion", Category: domain.CatStreaks,
			Icon: "🏛️", Goal: 100, RewardXP: 5000, Description: "Code 100 days in a row",
			Predicate: func(s domain.ContextSnapshot) bool { return s.StreakDays >= 100 },
		},
		{
			ID: "streak_365", Name: "Year of Power", Category: domain.CatStreaks,
			Icon: "⭐", Goal: 365, RewardXP: 25000, Description: "Code every day for a year",
			Predicate: func(s domain.ContextSnapshot) bool { return s.StreakDays >= 365 },
		},
		{
			ID: "streak_longest_14", Name: "Fortnight Force", Category: domain.CatStreaks,
			Icon: "📅", Goal: 14, RewardXP: 300, Description: "Reach a 14-day longest streak",
			Predicate: func(s domain.ContextSnapshot) bool { return s.LongestStreak >= 14 },
		},

		// ── Mastery (5) ────────────────────────────────────────────────
		{
			ID: "level_10", Name: "Rising Star", Category: domain.CatMastery,
			Icon: "🌅", Goal: 10, RewardXP: 200, Description: "Reach level 10",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Level >= 10 },
		},
		{
			ID: "level_25", Name: "Seasoned", Category: domain.CatMastery,
			Icon: "🎖️", Goal: 25, RewardXP: 800, Description: "Reach level 25",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Level >= 25 },
		},
		{
			ID: "level_50", Name: "Veteran", Category: domain.CatMastery,
			Icon: "🏔️", Goal: 50, RewardXP: 2000, Description: "Reach level 50",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Level >= 50 },
		},
		{
			ID: "level_100", Name: "Apex Developer", Category: domain.CatMastery,
			Icon: "👑", Goal: 100, RewardXP: 50000, Description: "Reach the level cap",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Level >= 100 },
		},
		{
			ID: "challenge_25", Name: "Challenge Connoisseur", Category: domain.CatMastery,
			Icon: "🎯", Goal: 25, RewardXP: 800, Description: "Complete 25 challenges",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Challenges >= 25 },
		},

		// ── Hidden (3): discovered, never listed ───────────────────────
		{
			ID: "night_owl", Name: "Night Owl", Category: domain.CatCommits,
			Icon: "🦉", Goal: 1, RewardXP: 150, Hidden: true,
			Description: "Commit in the dead of night",
			Predicate: func(s domain.ContextSnapshot) bool {
				h := s.Now.Hour()
				return s.Commits >= 1 && h >= 0 && h < 4
			},
		},
		{
			ID: "early_bird", Name: "Early Bird", Category: domain.CatCommits,
			Icon: "🐦", Goal: 1, RewardXP: 150, Hidden: true,
			Description: "Commit before the day starts",
			Predicate: func(s domain.ContextSnapshot) bool {
				h := s.Now.Hour()
				return s.Commits >= 1 && h >= 5 && h < 7
			},
		},
		{
			ID: "weekend_warrior", Name: "Weekend Warrior", Category: domain.CatCommits,
			Icon: "🛠️", Goal: 10, RewardXP: 400, Hidden: true,
			Description: "Commit 10 times on weekends",
			Predicate: func(s domain.ContextSnapshot) bool { return s.Custom["weekend_commits"] >= 10 },
		},
	}
}
