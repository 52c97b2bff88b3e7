package engagement_test

import (
	"testing"

	"github.com/whoamaiii/devxp/internal/app/engagement"
)

// ═══════════════════════════════════════════════════════════════════════════
// Streak Tracker Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestTracker_MilestoneFiresOnExactDayOnly(t *testing.T) {
	s := engagement.DefaultSettings()
	tracker := engagement.NewTracker(&s)

	if _, fired := tracker.Update("ada", 6); fired {
		t.Errorf("day 6 is not a milestone")
	}
	ms, fired := tracker.Update("ada", 7)
	if !fired {
		t.Fatalf("day 7 milestone should fire")
	}
	if ms.Day != 7 || ms.Bonus != 50 {
		t.Errorf("milestone %+v, want day 7 bonus 50", ms)
	}
	if _, fired := tracker.Update("ada", 8); fired {
		t.Errorf("day 8 is not a milestone")
	}

	// Sailing past a milestone without landing on it pays nothing.
	if _, fired := tracker.Update("bob", 29); fired {
		t.Errorf("day 29 is not a milestone")
	}
	if _, fired := tracker.Update("bob", 31); fired {
		t.Errorf("day 31 skipped the milestone and earns nothing")
	}
}

func TestTracker_MilestonePaysOncePerUser(t *testing.T) {
	s := engagement.DefaultSettings()
	tracker := engagement.NewTracker(&s)

	if _, fired := tracker.Update("ada", 7); !fired {
		t.Fatalf("first day 7 should fire")
	}
	if _, fired := tracker.Update("ada", 7); fired {
		t.Errorf("repeated day 7 report should not refire")
	}

	// A streak that breaks and rebuilds to the same milestone stays paid.
	tracker.Update("ada", 0)
	if _, fired := tracker.Update("ada", 7); fired {
		t.Errorf("rebuilt streak should not refire an awarded milestone")
	}

	// Other users have their own milestone history.
	if _, fired := tracker.Update("bob", 7); !fired {
		t.Errorf("bob's day 7 should fire independently")
	}
}

func TestTracker_PendingBonusAccumulatesAndClears(t *testing.T) {
	s := engagement.DefaultSettings()
	s.StreakMilestones = map[int]int64{3: 10, 5: 25}
	tracker := engagement.NewTracker(&s)

	tracker.Update("ada", 3)
	tracker.Update("ada", 5)

	if got := tracker.TakePending("ada"); got != 35 {
		t.Errorf("pending: got %d, want 35", got)
	}
	if got := tracker.TakePending("ada"); got != 0 {
		t.Errorf("drained pending: got %d, want 0", got)
	}
}

func TestTracker_DaysCachesLastReport(t *testing.T) {
	s := engagement.DefaultSettings()
	tracker := engagement.NewTracker(&s)

	if got := tracker.Days("ada"); got != 0 {
		t.Errorf("unknown user days: got %d, want 0", got)
	}
	tracker.Update("ada", 12)
	if got := tracker.Days("ada"); got != 12 {
		t.Errorf("days: got %d, want 12", got)
	}
	tracker.Update("ada", -4)
	if got := tracker.Days("ada"); got != 0 {
		t.Errorf("negative report should floor at 0, got %d", got)
	}
}
