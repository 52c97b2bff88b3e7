package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/whoamaiii/devxp/internal/domain"
)

func TestParseDifficulty(t *testing.T) {
	for _, s := range []string{"easy", "medium", "hard", "expert"} {
		d, err := parseDifficulty(s)
		if err != nil {
			t.Errorf("parseDifficulty(%q) error: %v", s, err)
		}
		if string(d) != s {
			t.Errorf("parseDifficulty(%q) = %q", s, d)
		}
	}
	if _, err := parseDifficulty("nightmare"); err == nil {
		t.Error("parseDifficulty(nightmare) expected error")
	}
}

func TestEventLabel(t *testing.T) {
	tests := []struct {
		typ  domain.EventType
		want string
	}{
		{domain.EventAchievementUnlocked, "unlock"},
		{domain.EventLevelUp, "level"},
		{domain.EventStreakMilestone, "streak"},
		{domain.EventChallengeCompleted, "challenge"},
		{domain.EventCategoryCompleted, "category"},
		{domain.EventType("mystery"), "mystery"},
	}
	for _, tt := range tests {
		if got := eventLabel(tt.typ); got != tt.want {
			t.Errorf("eventLabel(%s) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestComma(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{999, "999"},
		{1000, "1,000"},
		{1240, "1,240"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-950, "-950"},
		{-1240, "-1,240"},
	}
	for _, tt := range tests {
		if got := comma(tt.n); got != tt.want {
			t.Errorf("comma(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestSummarizeTotals(t *testing.T) {
	totals := map[domain.ActivityType]int64{
		domain.ActTestRun:   60,
		domain.ActGitCommit: 1250,
		domain.ActDeploy:    210,
	}
	want := "git_commit 1,250, deploy 210, test_run 60"
	if got := summarizeTotals(totals); got != want {
		t.Errorf("summarizeTotals() = %q, want %q", got, want)
	}

	// Equal sums fall back to name order so output stays stable.
	tied := map[domain.ActivityType]int64{
		domain.ActGitPush:   40,
		domain.ActGitCommit: 40,
	}
	if got := summarizeTotals(tied); got != "git_commit 40, git_push 40" {
		t.Errorf("summarizeTotals(tied) = %q", got)
	}

	if got := summarizeTotals(nil); got != "" {
		t.Errorf("summarizeTotals(nil) = %q, want empty", got)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, time.March, 11, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Time{}, "never"},
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-49 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		if got := timeAgo(tt.t, now); got != tt.want {
			t.Errorf("timeAgo(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestRenderBar(t *testing.T) {
	empty := renderBar(0)
	if !strings.Contains(empty, strings.Repeat(".", barWidth)) {
		t.Errorf("renderBar(0) not empty: %s", empty)
	}
	if !strings.Contains(empty, "0%") {
		t.Errorf("renderBar(0) missing percent: %s", empty)
	}

	full := renderBar(100)
	if !strings.Contains(full, strings.Repeat("=", barWidth)) {
		t.Errorf("renderBar(100) not full: %s", full)
	}

	half := renderBar(50)
	if !strings.Contains(half, ">") {
		t.Errorf("renderBar(50) missing head: %s", half)
	}
	if len(half) != len(full) || len(empty) != len(full) {
		t.Errorf("bar width varies: %d, %d, %d", len(empty), len(half), len(full))
	}

	// Out-of-range input clamps instead of panicking.
	if got := renderBar(250); !strings.Contains(got, "100%") {
		t.Errorf("renderBar(250) = %s, want clamp to 100%%", got)
	}
	if got := renderBar(-5); !strings.Contains(got, "0%") {
		t.Errorf("renderBar(-5) = %s, want clamp to 0%%", got)
	}
}

func TestExpiresIn(t *testing.T) {
	now := time.Date(2026, time.March, 11, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		deadline time.Time
		want     string
	}{
		{now.Add(-time.Minute), "expired"},
		{now.Add(45 * time.Minute), "45m"},
		{now.Add(10 * time.Hour), "10h"},
		{now.Add(72 * time.Hour), "3d"},
	}
	for _, tt := range tests {
		if got := expiresIn(tt.deadline, now); got != tt.want {
			t.Errorf("expiresIn(%v) = %q, want %q", tt.deadline, got, tt.want)
		}
	}
}
