package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func gatheredNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestActivityMetrics(t *testing.T) {
	ActivitiesRecorded.WithLabelValues("git_commit").Inc()
	XPAwarded.WithLabelValues("git_commit").Add(50)
	RecordLatency.Observe(0.004)

	names := gatheredNames(t)
	expected := []string{
		"devxp_activities_recorded_total",
		"devxp_xp_awarded_total",
		"devxp_record_latency_seconds",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestProgressionMetrics(t *testing.T) {
	LevelUps.Inc()
	UserLevel.WithLabelValues("alice").Set(5)
	UserTotalXP.WithLabelValues("alice").Set(1234)

	names := gatheredNames(t)
	expected := []string{
		"devxp_level_ups_total",
		"devxp_user_level",
		"devxp_user_total_xp",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestEngagementMetrics(t *testing.T) {
	AchievementsUnlocked.WithLabelValues("commits").Inc()
	ChallengesGenerated.WithLabelValues("daily").Inc()
	ChallengesCompleted.WithLabelValues("daily").Inc()
	EventsEmitted.WithLabelValues("level_up").Inc()

	names := gatheredNames(t)
	expected := []string{
		"devxp_achievements_unlocked_total",
		"devxp_challenges_generated_total",
		"devxp_challenges_completed_total",
		"devxp_events_emitted_total",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestStreakMetrics(t *testing.T) {
	StreakDays.WithLabelValues("alice").Set(7)
	StreakMilestones.Inc()
	StreakFreezes.Inc()

	names := gatheredNames(t)
	expected := []string{
		"devxp_streak_days",
		"devxp_streak_milestones_total",
		"devxp_streak_freezes_total",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestAPIMetrics(t *testing.T) {
	HTTPRequests.WithLabelValues("/api/v1/activity", "2xx").Inc()
	SSESubscribers.Set(2)

	names := gatheredNames(t)
	if !names["devxp_http_requests_total"] {
		t.Error("devxp_http_requests_total not found")
	}
	if !names["devxp_sse_subscribers"] {
		t.Error("devxp_sse_subscribers not found")
	}
}

func TestHealthMetrics(t *testing.T) {
	HealthCheckStatus.WithLabelValues("sqlite").Set(1)
	HealthCheckStatus.WithLabelValues("data_dir").Set(0)

	names := gatheredNames(t)
	if !names["devxp_health_check_status"] {
		t.Error("devxp_health_check_status not found")
	}
}

func TestAllMetricsGatherable(t *testing.T) {
	// Vector families only surface once a first child exists.
	ActivitiesRecorded.WithLabelValues("git_commit")
	XPAwarded.WithLabelValues("git_commit")
	UserLevel.WithLabelValues("alice")
	UserTotalXP.WithLabelValues("alice")
	AchievementsUnlocked.WithLabelValues("commits")
	ChallengesGenerated.WithLabelValues("daily")
	ChallengesCompleted.WithLabelValues("daily")
	EventsEmitted.WithLabelValues("level_up")
	StreakDays.WithLabelValues("alice")
	HTTPRequests.WithLabelValues("/api/status", "200")
	HealthCheckStatus.WithLabelValues("sqlite")

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	devxpMetrics := 0
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "devxp_") {
			devxpMetrics++
		}
	}
	if devxpMetrics != 16 {
		t.Errorf("expected 16 devxp_ metric families, got %d", devxpMetrics)
	}
}
