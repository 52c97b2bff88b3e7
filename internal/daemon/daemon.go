package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/whoamaiii/devxp/internal/api"
	"github.com/whoamaiii/devxp/internal/app/engagement"
	"github.com/whoamaiii/devxp/internal/domain"
	"github.com/whoamaiii/devxp/internal/health"
	"github.com/whoamaiii/devxp/internal/infra/metrics"
	"github.com/whoamaiii/devxp/internal/infra/sqlite"
)

// Version is stamped by the CLI entry point.
var Version = "dev"

// Daemon is the core devxp runtime. It owns the store, the engagement
// engine, and the HTTP server; RecordActivity is the single ingestion path
// shared by the CLI and the API.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Server *api.Server
	Health *health.Checker

	// The engine keeps no locks of its own; every engine touch goes
	// through mu.
	mu       sync.Mutex
	engine   *engagement.Engine
	pending  []domain.Event // events collected during the current engine call
	category map[string]domain.AchievementCategory

	started time.Time
	cancel  context.CancelFunc
}

// New creates a Daemon from the on-disk configuration.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	db, err := sqlite.Open(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	settings := settingsFromConfig(cfg)
	eng, err := engagement.NewEngine(settings)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}

	// Restore derived state from the last run.
	if raw, err := db.LoadEngineSnapshot(); err != nil {
		log.Printf("[daemon] load engine snapshot: %v (starting fresh)", err)
	} else if raw != "" {
		var snap engagement.StateSnapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			log.Printf("[daemon] corrupt engine snapshot: %v (starting fresh)", err)
		} else {
			eng.RestoreState(snap)
		}
	}

	d := &Daemon{
		Config:   cfg,
		DB:       db,
		engine:   eng,
		category: make(map[string]domain.AchievementCategory),
		started:  time.Now(),
	}

	catalog := settings.Catalog
	if catalog == nil {
		catalog = engagement.DefaultCatalog()
	}
	for _, def := range catalog {
		d.category[def.ID] = def.Category
	}

	eng.Subscribe(d.onEvent)

	d.Health = health.NewChecker(db, cfg.Data.Dir)
	d.Server = api.NewServer(d, api.Options{
		Version:     Version,
		DefaultUser: cfg.UserName(),
		CORSOrigins: cfg.API.CORSOrigins,
		Metrics:     cfg.Telemetry.Prometheus,
	})

	return d, nil
}

// onEvent persists, measures, and broadcasts each engine event. Listeners
// run synchronously inside engine calls, so this always executes under mu.
func (d *Daemon) onEvent(ev domain.Event) {
	d.pending = append(d.pending, ev)

	if err := d.DB.AppendEvent(&ev); err != nil {
		log.Printf("[daemon] persist event: %v", err)
	}

	metrics.EventsEmitted.WithLabelValues(string(ev.Type)).Inc()
	switch ev.Type {
	case domain.EventLevelUp:
		metrics.LevelUps.Inc()
	case domain.EventAchievementUnlocked:
		cat := d.category[ev.RefID]
		if cat == "" {
			cat = "custom"
		}
		metrics.AchievementsUnlocked.WithLabelValues(string(cat)).Inc()
	case domain.EventStreakMilestone:
		metrics.StreakMilestones.Inc()
	case domain.EventChallengeCompleted:
		kind := "special"
		if ch, err := d.engine.ChallengeByID(ev.UserID, ev.RefID); err == nil {
			kind = string(ch.Kind)
		}
		metrics.ChallengesCompleted.WithLabelValues(kind).Inc()
	}

	if d.Server != nil {
		d.Server.Broadcast(ev)
	}
}

// ─── Ingestion ──────────────────────────────────────────────────────────────

// RecordActivity runs the full pipeline for one occurrence: profile load,
// streak day accounting, counter bumps, engine processing, award
// application, and persistence. It returns everything the occurrence
// produced.
func (d *Daemon) RecordActivity(req domain.RecordRequest) (*domain.RecordOutcome, error) {
	start := time.Now()
	defer func() { metrics.RecordLatency.Observe(time.Since(start).Seconds()) }()

	now := req.At
	if now.IsZero() {
		now = time.Now()
	}
	user := req.UserID
	if user == "" {
		user = d.Config.UserName()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = nil

	profile, err := d.DB.EnsureProfile(user, now)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if user == d.Config.UserName() && d.Config.User.Premium {
		profile.Premium = true
	}

	if advanceStreak(profile, now) {
		metrics.StreakFreezes.Inc()
	}
	d.engine.UpdateStreak(user, profile.StreakDays)

	// Lifetime counters are bumped before the snapshot is cut so this
	// occurrence counts toward its own achievement progress.
	if err := d.DB.BumpCounter(user, counterName(req.Type), 1); err != nil {
		return nil, fmt.Errorf("bump counter: %w", err)
	}
	if req.Context.Lines > 0 {
		if err := d.DB.BumpCounter(user, "lines", int64(req.Context.Lines)); err != nil {
			return nil, fmt.Errorf("bump lines counter: %w", err)
		}
	}
	// Saturday and Sunday commits feed the hidden weekend tally.
	if req.Type == domain.ActGitCommit {
		if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
			if err := d.DB.BumpCounter(user, "weekend_commits", 1); err != nil {
				return nil, fmt.Errorf("bump weekend counter: %w", err)
			}
		}
	}
	counters, err := d.DB.Counters(user)
	if err != nil {
		return nil, fmt.Errorf("read counters: %w", err)
	}

	occ := domain.ActivityOccurrence{
		Type: req.Type,
		At:   now,
		User: domain.UserSnapshot{
			UserID:     user,
			Level:      profile.Level,
			TotalXP:    profile.TotalXP,
			StreakDays: profile.StreakDays,
			Premium:    profile.Premium,
		},
		Context: req.Context,
	}
	snap := contextSnapshot(profile, counters, now)

	dailyBefore := d.engine.DailyCompletionBonus(user)
	weeklyBefore := d.engine.WeeklyCompletionBonus(user)

	res, events, evalErr := d.engine.Process(occ, snap)
	if res == nil {
		return nil, evalErr
	}

	gained := res.FinalXP
	completed := 0
	for _, ev := range events {
		switch ev.Type {
		case domain.EventAchievementUnlocked, domain.EventCategoryCompleted:
			gained += ev.XP
		case domain.EventChallengeCompleted:
			gained += ev.XP
			completed++
		}
	}
	if completed > 0 {
		if err := d.DB.BumpCounter(user, "challenges", int64(completed)); err != nil {
			return nil, fmt.Errorf("bump challenge counter: %w", err)
		}
		snap.Challenges += int64(completed)
	}

	// Finishing the last open challenge of a kind earns the flat
	// all-or-nothing set bonus on top of the per-challenge rewards.
	if b := d.engine.DailyCompletionBonus(user); dailyBefore == 0 && b > 0 {
		gained += b
		d.onEvent(setBonusEvent(user, "Daily", b, now))
	}
	if b := d.engine.WeeklyCompletionBonus(user); weeklyBefore == 0 && b > 0 {
		gained += b
		d.onEvent(setBonusEvent(user, "Weekly", b, now))
	}

	profile.TotalXP += gained
	d.recomputeLevel(profile)

	// Second idempotent pass with the award applied, so XP and level gated
	// achievements unlock on the activity that earned them.
	snap.TotalXP = profile.TotalXP
	snap.Level = profile.Level
	extra, evalErr2 := d.engine.EvaluateAchievements(snap)
	for _, ev := range extra {
		if ev.Type == domain.EventAchievementUnlocked || ev.Type == domain.EventCategoryCompleted {
			profile.TotalXP += ev.XP
		}
	}
	if len(extra) > 0 {
		d.recomputeLevel(profile)
	}
	if evalErr = errors.Join(evalErr, evalErr2); evalErr != nil {
		log.Printf("[daemon] achievement evaluation: %v", evalErr)
	}

	// Achievement rewards can cross a level threshold the calculator never
	// saw. Emit the level-up here when the engine did not.
	if profile.Level > occ.User.Level && !hasLevelUp(d.pending) {
		d.onEvent(domain.Event{
			Type:   domain.EventLevelUp,
			UserID: user,
			Title:  "Level up",
			Body:   fmt.Sprintf("Reached level %d", profile.Level),
			Level:  profile.Level,
			At:     now,
		})
	}

	profile.UpdatedAt = now
	if err := d.DB.SaveProfile(profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	rec := &domain.ActivityRecord{
		UserID:     user,
		Type:       req.Type,
		XP:         res.FinalXP,
		Multiplier: res.TotalMultiplier,
		Difficulty: req.Context.Difficulty,
		RecordedAt: now,
	}
	if err := d.DB.InsertActivity(rec); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}
	if err := d.syncEngineState(user); err != nil {
		log.Printf("[daemon] sync engine state: %v", err)
	}

	metrics.ActivitiesRecorded.WithLabelValues(string(req.Type)).Inc()
	metrics.XPAwarded.WithLabelValues(string(req.Type)).Add(float64(res.FinalXP))
	metrics.UserLevel.WithLabelValues(user).Set(float64(profile.Level))
	metrics.UserTotalXP.WithLabelValues(user).Set(float64(profile.TotalXP))
	metrics.StreakDays.WithLabelValues(user).Set(float64(profile.StreakDays))

	return &domain.RecordOutcome{
		Result:  res,
		Events:  d.pending,
		Profile: *profile,
	}, nil
}

// PreviewActivity dry-runs the calculation for one occurrence without
// consuming bonuses, advancing streaks, or touching any state.
func (d *Daemon) PreviewActivity(req domain.RecordRequest) (*domain.XPResult, error) {
	now := req.At
	if now.IsZero() {
		now = time.Now()
	}
	user := req.UserID
	if user == "" {
		user = d.Config.UserName()
	}

	profile, err := d.profileOrFresh(user)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.Preview(domain.ActivityOccurrence{
		Type: req.Type,
		At:   now,
		User: domain.UserSnapshot{
			UserID:     user,
			Level:      profile.Level,
			TotalXP:    profile.TotalXP,
			StreakDays: profile.StreakDays,
			Premium:    profile.Premium,
		},
		Context: req.Context,
	})
}

// recomputeLevel derives the profile's level from its total XP.
func (d *Daemon) recomputeLevel(p *domain.UserProfile) {
	level, err := d.engine.Progression().LevelFromXP(p.TotalXP)
	if err != nil {
		log.Printf("[daemon] level recompute: %v", err)
		return
	}
	p.Level = level
}

// syncEngineState persists the engine's derived state: the full snapshot
// into the KV table plus the user's achievement and challenge rows.
func (d *Daemon) syncEngineState(user string) error {
	snap := d.engine.SnapshotState()
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal engine state: %w", err)
	}
	if err := d.DB.SaveEngineSnapshot(string(raw)); err != nil {
		return fmt.Errorf("save engine snapshot: %w", err)
	}

	if states := snap.Achievements[user]; len(states) > 0 {
		rows := make([]domain.AchievementState, 0, len(states))
		for _, st := range states {
			rows = append(rows, st)
		}
		if err := d.DB.SaveAchievementStates(user, rows); err != nil {
			return fmt.Errorf("save achievement rows: %w", err)
		}
	}
	for i := range snap.Challenges[user] {
		if err := d.DB.SaveChallenge(&snap.Challenges[user][i]); err != nil {
			return fmt.Errorf("save challenge row: %w", err)
		}
	}
	return nil
}

// ─── Queries ────────────────────────────────────────────────────────────────

// Profile returns the stored profile for a user.
func (d *Daemon) Profile(userID string) (*domain.UserProfile, error) {
	return d.DB.GetProfile(d.resolveUser(userID))
}

// LevelStatus reports a user's progression standing. Unknown users read as
// fresh level-1 profiles.
func (d *Daemon) LevelStatus(userID string) (*domain.LevelStatus, error) {
	p, err := d.profileOrFresh(d.resolveUser(userID))
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	prog := d.engine.Progression()
	toNext, err := prog.XPToNextLevel(p.Level, p.TotalXP)
	if err != nil {
		return nil, err
	}
	pct, err := prog.ProgressPercent(p.Level, p.TotalXP)
	if err != nil {
		return nil, err
	}
	return &domain.LevelStatus{
		UserID:   p.UserID,
		Level:    p.Level,
		TotalXP:  p.TotalXP,
		XPToNext: toNext,
		Percent:  pct,
		MaxLevel: prog.MaxLevel(),
	}, nil
}

// StreakStatus reports a user's streak standing.
func (d *Daemon) StreakStatus(userID string) (*domain.StreakStatus, error) {
	user := d.resolveUser(userID)
	p, err := d.profileOrFresh(user)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	st := &domain.StreakStatus{
		UserID:          user,
		Days:            p.StreakDays,
		Longest:         p.LongestStreak,
		LastActive:      p.LastActive,
		FreezeAvailable: p.FreezeWeekISO != isoWeek(time.Now()),
		PendingBonus:    d.engine.PendingMilestoneBonus(user),
	}
	st.NextMilestone, st.MilestoneBonus = nextMilestone(d.engine.Settings().StreakMilestones, p.StreakDays)
	return st, nil
}

// Achievements lists the catalog joined with a user's progress.
func (d *Daemon) Achievements(userID string, includeHidden bool) []engagement.AchievementView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.Achievements(d.resolveUser(userID), includeHidden)
}

// AchievementStats summarizes a user's standing across the catalog.
func (d *Daemon) AchievementStats(userID string) domain.AchievementStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.AchievementStats(d.resolveUser(userID), 3)
}

// ChallengeBoard lists a user's active challenges and owed bonuses.
func (d *Daemon) ChallengeBoard(userID string) domain.ChallengeBoard {
	user := d.resolveUser(userID)

	d.mu.Lock()
	defer d.mu.Unlock()
	return domain.ChallengeBoard{
		Active:      d.engine.ActiveChallenges(user, time.Now()),
		DailyBonus:  d.engine.DailyCompletionBonus(user),
		WeeklyBonus: d.engine.WeeklyCompletionBonus(user),
	}
}

// NewDailyChallenge prunes expired challenges and rolls a fresh daily one.
func (d *Daemon) NewDailyChallenge(userID string) (domain.Challenge, error) {
	return d.newChallenge(userID, func(user string, now time.Time) domain.Challenge {
		return d.engine.CreateDailyChallenge(user, now)
	})
}

// NewWeeklyChallenge prunes expired challenges and draws one weekly
// challenge from the menu.
func (d *Daemon) NewWeeklyChallenge(userID string) (domain.Challenge, error) {
	return d.newChallenge(userID, func(user string, now time.Time) domain.Challenge {
		return d.engine.CreateWeeklyChallenge(user, now)
	})
}

func (d *Daemon) newChallenge(userID string, create func(string, time.Time) domain.Challenge) (domain.Challenge, error) {
	user := d.resolveUser(userID)
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if n := d.engine.PruneExpiredChallenges(user, now); n > 0 {
		if _, err := d.DB.DeleteExpiredChallenges(user, now); err != nil {
			return domain.Challenge{}, fmt.Errorf("prune challenges: %w", err)
		}
	}

	ch := create(user, now)
	if err := d.DB.SaveChallenge(&ch); err != nil {
		return domain.Challenge{}, fmt.Errorf("save challenge: %w", err)
	}
	if err := d.syncEngineState(user); err != nil {
		log.Printf("[daemon] sync engine state: %v", err)
	}

	metrics.ChallengesGenerated.WithLabelValues(string(ch.Kind)).Inc()
	return ch, nil
}

// Leaderboard returns the top users by total XP.
func (d *Daemon) Leaderboard(limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return d.DB.Leaderboard(limit)
}

// RecentEvents returns a user's latest engagement events, newest first.
func (d *Daemon) RecentEvents(userID string, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	return d.DB.RecentEvents(d.resolveUser(userID), limit)
}

// RecentActivities returns a user's latest awards, newest first.
func (d *Daemon) RecentActivities(userID string, limit int) ([]domain.ActivityRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return d.DB.RecentActivities(d.resolveUser(userID), limit)
}

// HealthStatuses returns the latest health check results.
func (d *Daemon) HealthStatuses() []health.Status {
	return d.Health.Statuses()
}

// Healthy reports whether every health check passes.
func (d *Daemon) Healthy() bool {
	return d.Health.IsHealthy()
}

// Uptime reports how long this daemon has been running.
func (d *Daemon) Uptime() time.Duration {
	return time.Since(d.started)
}

func (d *Daemon) resolveUser(userID string) string {
	if userID == "" {
		return d.Config.UserName()
	}
	return userID
}

// profileOrFresh loads a profile, synthesizing a level-1 record for users
// the store has never seen.
func (d *Daemon) profileOrFresh(userID string) (*domain.UserProfile, error) {
	p, err := d.DB.GetProfile(userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return &domain.UserProfile{UserID: userID, Level: 1, Premium: d.Config.User.Premium && userID == d.Config.UserName()}, nil
	}
	return p, err
}

// ─── Lifecycle ──────────────────────────────────────────────────────────────

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // Long for event streaming
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		d.persistEngineState()
		_ = d.DB.Close()
	}()

	fmt.Printf("devxp serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources, persisting engine state first.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	d.persistEngineState()
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

func (d *Daemon) persistEngineState() {
	d.mu.Lock()
	defer d.mu.Unlock()

	raw, err := json.Marshal(d.engine.SnapshotState())
	if err != nil {
		log.Printf("[daemon] marshal engine state: %v", err)
		return
	}
	if err := d.DB.SaveEngineSnapshot(string(raw)); err != nil {
		log.Printf("[daemon] persist engine state: %v", err)
	}
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// settingsFromConfig maps the TOML tuning onto engine settings.
func settingsFromConfig(cfg Config) engagement.Settings {
	s := engagement.DefaultSettings()

	e := cfg.Engagement
	if e.Formula != "" {
		s.Progression.Formula = domain.FormulaKind(e.Formula)
	}
	if e.LevelBaseXP > 0 {
		s.Progression.BaseRequirement = e.LevelBaseXP
	}
	if e.LevelMultiplier > 0 {
		s.Progression.LevelMultiplier = e.LevelMultiplier
	}
	if e.MaxLevel > 0 {
		s.Progression.MaxLevel = e.MaxLevel
	}
	if e.DefaultBaseXP > 0 {
		s.DefaultBaseXP = e.DefaultBaseXP
	}
	s.Seed = e.Seed
	return s
}

// advanceStreak applies one activity day to the profile's streak fields:
// same day is a no-op, the next day extends, a gap of exactly one day
// consumes the weekly freeze when it is unspent, anything longer resets.
// Reports whether a freeze was consumed.
func advanceStreak(p *domain.UserProfile, now time.Time) bool {
	today := now.Truncate(24 * time.Hour)

	if !p.LastActive.IsZero() {
		last := p.LastActive.Truncate(24 * time.Hour)
		if today.Equal(last) {
			return false // already counted
		}
		if today.Before(last) {
			return false // out-of-order timestamps never rewind the accounting
		}
	}

	freezeUsed := false
	if p.LastActive.IsZero() {
		p.StreakDays = 1
	} else {
		gap := today.Sub(p.LastActive.Truncate(24 * time.Hour))
		switch {
		case gap <= 24*time.Hour:
			p.StreakDays++
		case gap <= 48*time.Hour:
			// Missed exactly one day; the weekly freeze bridges it once.
			week := isoWeek(today)
			if p.FreezeWeekISO != week {
				p.FreezeWeekISO = week
				p.StreakDays++
				freezeUsed = true
			} else {
				p.StreakDays = 1
			}
		default:
			p.StreakDays = 1
		}
	}

	p.LastActive = today
	if p.StreakDays > p.LongestStreak {
		p.LongestStreak = p.StreakDays
	}
	return freezeUsed
}

func hasLevelUp(events []domain.Event) bool {
	for _, ev := range events {
		if ev.Type == domain.EventLevelUp {
			return true
		}
	}
	return false
}

func setBonusEvent(user, kind string, bonus int64, at time.Time) domain.Event {
	return domain.Event{
		Type:   domain.EventChallengeCompleted,
		UserID: user,
		Title:  fmt.Sprintf("%s challenge set complete", kind),
		Body:   fmt.Sprintf("Every %s challenge finished, +%d bonus XP", strings.ToLower(kind), bonus),
		XP:     bonus,
		At:     at,
	}
}

// isoWeek returns "YYYY-Www" for the given time.
func isoWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// counterName maps an activity type to its lifetime counter.
func counterName(t domain.ActivityType) string {
	switch t {
	case domain.ActGitCommit:
		return "commits"
	case domain.ActGitPush:
		return "pushes"
	case domain.ActGitBranch:
		return "branches"
	case domain.ActGitMerge:
		return "merges"
	case domain.ActTestRun:
		return "tests_run"
	case domain.ActTestPass:
		return "tests_passed"
	case domain.ActDeploy:
		return "deploys"
	case domain.ActCommandRun:
		return "commands"
	case domain.ActFileCreated:
		return "files_created"
	case domain.ActCodeReview:
		return "reviews"
	default:
		return string(t)
	}
}

// contextSnapshot assembles the achievement evaluation view from the
// profile and its lifetime counters.
func contextSnapshot(p *domain.UserProfile, counters map[string]int64, now time.Time) domain.ContextSnapshot {
	snap := domain.ContextSnapshot{
		UserID:        p.UserID,
		Now:           now,
		StreakDays:    p.StreakDays,
		LongestStreak: p.LongestStreak,
		Level:         p.Level,
		TotalXP:       p.TotalXP,
	}
	for name, v := range counters {
		switch name {
		case "commits":
			snap.Commits = v
		case "pushes":
			snap.Pushes = v
		case "branches":
			snap.Branches = v
		case "merges":
			snap.Merges = v
		case "tests_run":
			snap.TestsRun = v
		case "tests_passed":
			snap.TestsPassed = v
		case "deploys":
			snap.Deploys = v
		case "commands":
			snap.Commands = v
		case "files_created":
			snap.FilesCreated = v
		case "lines":
			snap.Lines = v
		case "reviews":
			snap.Reviews = v
		case "challenges":
			snap.Challenges = v
		default:
			if snap.Custom == nil {
				snap.Custom = make(map[string]int64)
			}
			snap.Custom[name] = v
		}
	}
	return snap
}

// nextMilestone returns the first configured milestone past the current
// streak, zero when none remain.
func nextMilestone(milestones map[int]int64, days int) (int, int64) {
	keys := make([]int, 0, len(milestones))
	for day := range milestones {
		keys = append(keys, day)
	}
	sort.Ints(keys)
	for _, day := range keys {
		if day > days {
			return day, milestones[day]
		}
	}
	return 0, 0
}
