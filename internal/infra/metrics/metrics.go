// Package metrics provides Prometheus metrics for devxp: counters, gauges,
// and histograms covering activities, XP, achievements, challenges, streaks,
// and the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Activity ───────────────────────────────────────────────────────────────

// ActivitiesRecorded tracks awarded activities by type.
var ActivitiesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "devxp",
	Name:      "activities_recorded_total",
	Help:      "Total activities recorded.",
}, []string{"type"})

// XPAwarded tracks XP granted by activity type.
var XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "devxp",
	Name:      "xp_awarded_total",
	Help:      "Total XP awarded.",
}, []string{"type"})

// RecordLatency tracks the record pipeline duration in seconds.
var RecordLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "devxp",
	Name:      "record_latency_seconds",
	Help:      "Activity record pipeline duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
})

// ─── Progression ────────────────────────────────────────────────────────────

// LevelUps tracks level-up events.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "devxp",
	Name:      "level_ups_total",
	Help:      "Total level-up events.",
})

// UserLevel tracks each user's current level.
var UserLevel = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "devxp",
	Name:      "user_level",
	Help:      "Current level per user.",
}, []string{"user"})

// UserTotalXP tracks each user's lifetime XP.
var UserTotalXP = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "devxp",
	Name:      "user_total_xp",
	Help:      "Lifetime XP per user.",
}, []string{"user"})

// ─── Engagement ─────────────────────────────────────────────────────────────

// AchievementsUnlocked tracks unlocks by category.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "devxp",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
}, []string{"category"})

// ChallengesGenerated tracks rolled challenges by kind.
var ChallengesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "devxp",
	Name:      "challenges_generated_total",
	Help:      "Total challenges generated.",
}, []string{"kind"})

// ChallengesCompleted tracks completed challenges by kind.
var ChallengesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "devxp",
	Name:      "challenges_completed_total",
	Help:      "Total challenges completed.",
}, []string{"kind"})

// EventsEmitted tracks engagement events by type.
var EventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "devxp",
	Name:      "events_emitted_total",
	Help:      "Total engagement events emitted.",
}, []string{"type"})

// ─── Streaks ────────────────────────────────────────────────────────────────

// StreakDays tracks each user's current streak length.
var StreakDays = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "devxp",
	Name:      "streak_days",
	Help:      "Current streak length per user.",
}, []string{"user"})

// StreakMilestones tracks milestone payouts.
var StreakMilestones = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "devxp",
	Name:      "streak_milestones_total",
	Help:      "Total streak milestones paid.",
})

// StreakFreezes tracks weekly freezes consumed to bridge one-day gaps.
var StreakFreezes = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "devxp",
	Name:      "streak_freezes_total",
	Help:      "Total streak freezes consumed.",
})

// ─── API ────────────────────────────────────────────────────────────────────

// HTTPRequests tracks API requests by route and status class.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "devxp",
	Name:      "http_requests_total",
	Help:      "Total HTTP requests served.",
}, []string{"route", "status"})

// SSESubscribers tracks connected live event streams.
var SSESubscribers = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "devxp",
	Name:      "sse_subscribers",
	Help:      "Currently connected live event subscribers.",
})

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "devxp",
	Name:      "health_check_status",
	Help:      "Health check result per component (1=healthy, 0=unhealthy).",
}, []string{"check"})
