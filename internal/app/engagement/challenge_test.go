package engagement_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/whoamaiii/devxp/internal/app/engagement"
	"github.com/whoamaiii/devxp/internal/domain"
)

func seededManager(t *testing.T, seed int64) *engagement.ChallengeManager {
	t.Helper()
	s := engagement.DefaultSettings()
	s.Seed = seed
	return engagement.NewChallengeManager(&s)
}

// complete drives a challenge to its goal and returns the events emitted on
// the way. Completed challenges stop accepting progress, so overshooting a
// shared activity type is harmless.
func complete(m *engagement.ChallengeManager, ch domain.Challenge, now time.Time) []domain.Event {
	var events []domain.Event
	for i := 0; i < ch.Goal; i++ {
		events = append(events, m.RecordActivity(ch.UserID, ch.Activity, now)...)
	}
	return events
}

// ═══════════════════════════════════════════════════════════════════════════
// Challenge Lifecycle Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestChallenges_DailyRollsWithinRange(t *testing.T) {
	m := seededManager(t, 42)

	for i := 0; i < 20; i++ {
		ch := m.CreateDaily("ada", wednesdayAfternoon)
		if ch.Kind != domain.ChallengeDaily || ch.Name != "Daily Grind" {
			t.Fatalf("unexpected daily %+v", ch)
		}
		if ch.Goal < 3 || ch.Goal > 7 {
			t.Errorf("daily goal %d outside [3,7]", ch.Goal)
		}
		if ch.Activity == "" {
			t.Errorf("daily rolled no activity")
		}
		if ch.RewardXP != 100 {
			t.Errorf("daily reward %d, want 100", ch.RewardXP)
		}
		if !strings.Contains(ch.Description, strconv.Itoa(ch.Goal)) {
			t.Errorf("description %q should state the goal", ch.Description)
		}
	}
}

func TestChallenges_DailyExpiresAtEndOfDay(t *testing.T) {
	m := seededManager(t, 42)
	ch := m.CreateDaily("ada", wednesdayAfternoon)

	wantExpiry := time.Date(2026, time.March, 11, 23, 59, 59, 999_000_000, time.UTC)
	if !ch.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expiry %v, want %v", ch.ExpiresAt, wantExpiry)
	}
	if !ch.IsActive(wantExpiry) {
		t.Errorf("challenge should be active through the last millisecond")
	}
	midnight := time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)
	if ch.IsActive(midnight) {
		t.Errorf("challenge should be dead after midnight")
	}
}

func TestChallenges_WeeklyExpiresSundayNight(t *testing.T) {
	m := seededManager(t, 42)

	sunday := time.Date(2026, time.March, 15, 23, 59, 59, 999_000_000, time.UTC)

	// Created midweek, dies the coming Sunday night.
	ch := m.CreateWeekly("ada", wednesdayAfternoon)
	if !ch.ExpiresAt.Equal(sunday) {
		t.Errorf("midweek expiry %v, want %v", ch.ExpiresAt, sunday)
	}

	// Created on a Sunday, dies that same night.
	ch = m.CreateWeekly("ada", sundayNoon)
	if !ch.ExpiresAt.Equal(sunday) {
		t.Errorf("sunday expiry %v, want %v", ch.ExpiresAt, sunday)
	}

	// Weeklies come off the template menu.
	names := make(map[string]bool)
	for _, tmpl := range engagement.DefaultWeeklyMenu() {
		names[tmpl.Name] = true
	}
	if !names[ch.Name] {
		t.Errorf("weekly %q is not on the menu", ch.Name)
	}
}

func TestChallenges_WeeklySetPrefersDistinctActivities(t *testing.T) {
	m := seededManager(t, 42)

	set := m.GenerateWeeklySet("ada", wednesdayAfternoon, 3)
	if len(set) != 3 {
		t.Fatalf("expected 3 weeklies, got %d", len(set))
	}
	seen := make(map[domain.ActivityType]bool)
	for _, ch := range set {
		if seen[ch.Activity] {
			t.Errorf("duplicate activity %q in weekly set", ch.Activity)
		}
		seen[ch.Activity] = true
		if !ch.ExpiresAt.Equal(time.Date(2026, time.March, 15, 23, 59, 59, 999_000_000, time.UTC)) {
			t.Errorf("weekly set member expires %v", ch.ExpiresAt)
		}
	}
}

func TestChallenges_ProgressAndCompletion(t *testing.T) {
	m := seededManager(t, 42)

	ch := m.CreateSpecial("ada", domain.ChallengeTemplate{
		Name:        "sprint_finish",
		Description: "Close out the sprint",
		Activity:    domain.ActGitCommit,
		Goal:        3,
		RewardXP:    250,
	}, wednesdayAfternoon, wednesdayAfternoon.Add(24*time.Hour))

	// Two commits: progressing, not done.
	m.RecordActivity("ada", domain.ActGitCommit, wednesdayAfternoon)
	events := m.RecordActivity("ada", domain.ActGitCommit, wednesdayAfternoon)
	if len(events) != 0 {
		t.Fatalf("no completion expected yet, got %+v", events)
	}
	got, err := m.Get("ada", ch.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Progress != 2 || got.Completed {
		t.Errorf("after two commits: %+v", got)
	}

	// Third commit completes and emits exactly one event.
	events = m.RecordActivity("ada", domain.ActGitCommit, wednesdayAfternoon)
	if len(events) != 1 {
		t.Fatalf("expected one completion event, got %+v", events)
	}
	ev := events[0]
	if ev.Type != domain.EventChallengeCompleted || ev.XP != 250 || ev.RefID != ch.ID {
		t.Errorf("completion event %+v", ev)
	}
	if ev.Title != "Challenge complete: sprint_finish" {
		t.Errorf("completion title %q", ev.Title)
	}

	// Further commits neither re-complete nor overshoot.
	events = m.RecordActivity("ada", domain.ActGitCommit, wednesdayAfternoon)
	if len(events) != 0 {
		t.Errorf("completed challenge re-fired: %+v", events)
	}
	got, _ = m.Get("ada", ch.ID)
	if got.Progress != 3 {
		t.Errorf("progress overshot to %d", got.Progress)
	}
}

func TestChallenges_ActivityFilter(t *testing.T) {
	m := seededManager(t, 42)

	strict := m.CreateSpecial("ada", domain.ChallengeTemplate{
		Name: "commit_only", Activity: domain.ActGitCommit, Goal: 2, RewardXP: 50,
	}, wednesdayAfternoon, wednesdayAfternoon.Add(time.Hour))
	open := m.CreateSpecial("ada", domain.ChallengeTemplate{
		Name: "anything_goes", Goal: 2, RewardXP: 50,
	}, wednesdayAfternoon, wednesdayAfternoon.Add(time.Hour))

	m.RecordActivity("ada", domain.ActTestRun, wednesdayAfternoon)

	got, _ := m.Get("ada", strict.ID)
	if got.Progress != 0 {
		t.Errorf("test run advanced a commit challenge: %+v", got)
	}
	got, _ = m.Get("ada", open.ID)
	if got.Progress != 1 {
		t.Errorf("unset activity should match anything: %+v", got)
	}
}

func TestChallenges_CompletionBonusIsAllOrNothing(t *testing.T) {
	m := seededManager(t, 42)

	// No challenges, no bonus.
	if got := m.DailyCompletionBonus("ada"); got != 0 {
		t.Errorf("bonus with no dailies: got %d, want 0", got)
	}

	// One daily, completed: full bonus.
	d1 := m.CreateDaily("ada", wednesdayAfternoon)
	complete(m, d1, wednesdayAfternoon)
	if got := m.DailyCompletionBonus("ada"); got != 50 {
		t.Errorf("all dailies done: got %d, want 50", got)
	}

	// A second, untouched daily drops the bonus back to zero.
	d2 := m.CreateDaily("ada", wednesdayAfternoon)
	if got := m.DailyCompletionBonus("ada"); got != 0 {
		t.Errorf("open daily should zero the bonus, got %d", got)
	}
	complete(m, d2, wednesdayAfternoon)
	if got := m.DailyCompletionBonus("ada"); got != 50 {
		t.Errorf("both dailies done: got %d, want 50", got)
	}

	// Weeklies have their own pot and do not disturb the daily one.
	w := m.CreateWeekly("ada", wednesdayAfternoon)
	if got := m.DailyCompletionBonus("ada"); got != 50 {
		t.Errorf("weekly should not affect daily bonus, got %d", got)
	}
	if got := m.WeeklyCompletionBonus("ada"); got != 0 {
		t.Errorf("open weekly: got %d, want 0", got)
	}
	complete(m, w, wednesdayAfternoon)
	if got := m.WeeklyCompletionBonus("ada"); got != 200 {
		t.Errorf("weekly done: got %d, want 200", got)
	}
}

func TestChallenges_ExpiryAndPruning(t *testing.T) {
	m := seededManager(t, 42)
	nextDay := wednesdayAfternoon.Add(24 * time.Hour)

	done := m.CreateDaily("ada", wednesdayAfternoon)
	complete(m, done, wednesdayAfternoon)
	m.CreateDaily("ada", wednesdayAfternoon) // expires untouched

	// Past midnight the open daily leaves the active list but blocks the
	// completion bonus until pruned.
	if got := len(m.Active("ada", nextDay)); got != 0 {
		t.Errorf("active after expiry: got %d, want 0", got)
	}
	if got := len(m.All("ada")); got != 2 {
		t.Errorf("all: got %d, want 2", got)
	}
	if got := m.DailyCompletionBonus("ada"); got != 0 {
		t.Errorf("expired open daily should block the bonus, got %d", got)
	}

	// Recording against expired challenges is a no-op.
	if events := m.RecordActivity("ada", domain.ActGitCommit, nextDay); len(events) != 0 {
		t.Errorf("expired challenge moved: %+v", events)
	}

	// Pruning removes only the expired incomplete one.
	if got := m.PruneExpired("ada", nextDay); got != 1 {
		t.Errorf("pruned %d, want 1", got)
	}
	if got := len(m.All("ada")); got != 1 {
		t.Errorf("all after prune: got %d, want 1", got)
	}
	if got := m.DailyCompletionBonus("ada"); got != 50 {
		t.Errorf("bonus after prune: got %d, want 50", got)
	}
}

func TestChallenges_GetUnknownID(t *testing.T) {
	m := seededManager(t, 42)
	if _, err := m.Get("ada", "nope"); !errors.Is(err, domain.ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestChallenges_SeededRollsReproduce(t *testing.T) {
	a := seededManager(t, 7)
	b := seededManager(t, 7)

	for i := 0; i < 10; i++ {
		ca := a.CreateDaily("ada", wednesdayAfternoon)
		cb := b.CreateDaily("ada", wednesdayAfternoon)
		if ca.Activity != cb.Activity || ca.Goal != cb.Goal {
			t.Fatalf("roll %d diverged: %s/%d vs %s/%d", i, ca.Activity, ca.Goal, cb.Activity, cb.Goal)
		}
	}
}
