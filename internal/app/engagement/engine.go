// Package engagement implements the devxp progression core: XP calculation
// with stacked multipliers, a configurable level curve, an achievement rule
// engine, time-boxed challenges, and streak milestone bonuses.
//
// One Engine instance holds all per-user state in memory and performs no
// locking; hosts construct it once, serialize access to it, persist what
// they want durable, and subscribe listeners for the events it emits.
// XP always tracks work actually done, never synthetic engagement.
package engagement

import (
	"fmt"
	"time"

	"github.com/whoamaiii/devxp/internal/domain"
)

// Engine is the composition root of the progression core.
type Engine struct {
	settings     Settings
	progression  *Progression
	resolver     *Resolver
	streaks      *Tracker
	calculator   *Calculator
	achievements *Rules
	challenges   *ChallengeManager
	notifier     *Notifier
}

// NewEngine validates the settings and wires the components. The catalog
// defaults to DefaultCatalog when the settings carry none.
func NewEngine(s Settings) (*Engine, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	progression, err := NewProgression(s.Progression)
	if err != nil {
		return nil, err
	}
	catalog := s.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	e := &Engine{settings: s, progression: progression}
	e.resolver = NewResolver(&e.settings)
	e.streaks = NewTracker(&e.settings)
	e.calculator = NewCalculator(&e.settings, progression, e.resolver, e.streaks)
	e.achievements = NewRules(catalog, s.RecentUnlocks)
	e.challenges = NewChallengeManager(&e.settings)
	e.notifier = NewNotifier()
	return e, nil
}

// Settings returns the engine's tuning.
func (e *Engine) Settings() Settings { return e.settings }

// Progression exposes the level calculator for host-side level recomputes.
func (e *Engine) Progression() *Progression { return e.progression }

// Subscribe registers an event listener.
func (e *Engine) Subscribe(fn func(domain.Event)) { e.notifier.Subscribe(fn) }

// ─── XP ──────────────────────────────────────────────────────────────────────

// Calculate computes the XP award for one occurrence without touching
// achievement or challenge state.
func (e *Engine) Calculate(occ domain.ActivityOccurrence) (*domain.XPResult, error) {
	return e.calculator.Calculate(occ)
}

// Preview computes the same award as Calculate without consuming parked
// milestone bonuses.
func (e *Engine) Preview(occ domain.ActivityOccurrence) (*domain.XPResult, error) {
	return e.calculator.Preview(occ)
}

// Process runs the full flow for one occurrence: calculate the award,
// predict the level-up, evaluate achievements against the snapshot, advance
// challenges, then dispatch every resulting event. The snapshot must already
// include this occurrence's counter bumps. The returned error is a
// configuration error or nil; evaluation always completes.
func (e *Engine) Process(occ domain.ActivityOccurrence, snap domain.ContextSnapshot) (*domain.XPResult, []domain.Event, error) {
	res, err := e.calculator.Calculate(occ)
	if err != nil {
		return nil, nil, err
	}

	var events []domain.Event
	if res.WouldLevelUp {
		events = append(events, domain.Event{
			Type:   domain.EventLevelUp,
			UserID: occ.User.UserID,
			Title:  "Level up",
			Body:   levelUpBody(res.NewLevel),
			Level:  res.NewLevel,
			At:     res.ComputedAt,
		})
	}

	achEvents, evalErr := e.achievements.Evaluate(snap)
	events = append(events, achEvents...)
	events = append(events, e.challenges.RecordActivity(occ.User.UserID, occ.Type, res.ComputedAt)...)

	e.notifier.Emit(events...)
	return res, events, evalErr
}

// ─── Streaks ─────────────────────────────────────────────────────────────────

// UpdateStreak records a user's consecutive-day count and fires the streak
// milestone event when the count lands exactly on an unpaid milestone day.
func (e *Engine) UpdateStreak(userID string, days int) (domain.StreakMilestone, bool) {
	ms, hit := e.streaks.Update(userID, days)
	if hit {
		e.notifier.Emit(domain.Event{
			Type:   domain.EventStreakMilestone,
			UserID: userID,
			Title:  milestoneTitle(ms.Day),
			Body:   milestoneBody(ms),
			XP:     ms.Bonus,
			At:     time.Now(),
		})
	}
	return ms, hit
}

// StreakDays returns the cached streak length for a user.
func (e *Engine) StreakDays(userID string) int { return e.streaks.Days(userID) }

// PendingMilestoneBonus reports a user's parked milestone XP without
// consuming it.
func (e *Engine) PendingMilestoneBonus(userID string) int64 { return e.streaks.Pending(userID) }

// ─── Multipliers ─────────────────────────────────────────────────────────────

// RegisterMultiplier stores a custom multiplier for a user.
func (e *Engine) RegisterMultiplier(userID string, m domain.CustomMultiplier) domain.CustomMultiplier {
	return e.resolver.Register(userID, m)
}

// RemoveMultiplier drops a registered multiplier by id.
func (e *Engine) RemoveMultiplier(userID, id string) { e.resolver.Remove(userID, id) }

// CustomMultipliers returns a user's live custom multipliers, pruning dead
// ones along the way.
func (e *Engine) CustomMultipliers(userID string, now time.Time) []domain.CustomMultiplier {
	return e.resolver.CustomFor(userID, now)
}

// ─── Achievements ────────────────────────────────────────────────────────────

// EvaluateAchievements runs one catalog pass and dispatches any unlocks.
func (e *Engine) EvaluateAchievements(snap domain.ContextSnapshot) ([]domain.Event, error) {
	events, err := e.achievements.Evaluate(snap)
	e.notifier.Emit(events...)
	return events, err
}

// Achievements lists the catalog joined with a user's state.
func (e *Engine) Achievements(userID string, includeHidden bool) []AchievementView {
	return e.achievements.List(userID, includeHidden)
}

// AchievementStats summarizes a user's standing.
func (e *Engine) AchievementStats(userID string, nearest int) domain.AchievementStats {
	return e.achievements.Stats(userID, nearest)
}

// ─── Challenges ──────────────────────────────────────────────────────────────

// CreateDailyChallenge rolls a new daily challenge for a user.
func (e *Engine) CreateDailyChallenge(userID string, now time.Time) domain.Challenge {
	return e.challenges.CreateDaily(userID, now)
}

// CreateWeeklyChallenge draws one weekly challenge from the menu.
func (e *Engine) CreateWeeklyChallenge(userID string, now time.Time) domain.Challenge {
	return e.challenges.CreateWeekly(userID, now)
}

// GenerateWeeklyChallenges draws n distinct weekly challenges.
func (e *Engine) GenerateWeeklyChallenges(userID string, now time.Time, n int) []domain.Challenge {
	return e.challenges.GenerateWeeklySet(userID, now, n)
}

// CreateSpecialChallenge registers a host-defined challenge.
func (e *Engine) CreateSpecialChallenge(userID string, tmpl domain.ChallengeTemplate, now, expiresAt time.Time) domain.Challenge {
	return e.challenges.CreateSpecial(userID, tmpl, now, expiresAt)
}

// RecordChallengeActivity advances challenges outside a full Process pass
// and dispatches completion events.
func (e *Engine) RecordChallengeActivity(userID string, act domain.ActivityType, now time.Time) []domain.Event {
	events := e.challenges.RecordActivity(userID, act, now)
	e.notifier.Emit(events...)
	return events
}

// ActiveChallenges returns the user's incomplete, unexpired challenges.
func (e *Engine) ActiveChallenges(userID string, now time.Time) []domain.Challenge {
	return e.challenges.Active(userID, now)
}

// AllChallenges returns every tracked challenge for a user.
func (e *Engine) AllChallenges(userID string) []domain.Challenge {
	return e.challenges.All(userID)
}

// ChallengeByID looks a challenge up.
func (e *Engine) ChallengeByID(userID, id string) (domain.Challenge, error) {
	return e.challenges.Get(userID, id)
}

// DailyCompletionBonus returns the flat bonus owed once every tracked daily
// challenge is complete; zero otherwise.
func (e *Engine) DailyCompletionBonus(userID string) int64 {
	return e.challenges.DailyCompletionBonus(userID)
}

// WeeklyCompletionBonus is the weekly counterpart of DailyCompletionBonus.
func (e *Engine) WeeklyCompletionBonus(userID string) int64 {
	return e.challenges.WeeklyCompletionBonus(userID)
}

// PruneExpiredChallenges drops a user's expired incomplete challenges.
func (e *Engine) PruneExpiredChallenges(userID string, now time.Time) int {
	return e.challenges.PruneExpired(userID, now)
}

// ─── Lifecycle ───────────────────────────────────────────────────────────────

// ResetUser erases every trace of a user from the engine: achievement
// unlocks, challenges, streak history, custom multipliers.
func (e *Engine) ResetUser(userID string) {
	e.achievements.ResetUser(userID)
	e.challenges.reset(userID)
	e.streaks.reset(userID)
	e.resolver.reset(userID)
}

// StateSnapshot is a JSON-serializable deep copy of all per-user state, for
// hosts that persist derived state across restarts instead of replaying the
// activity history.
type StateSnapshot struct {
	Achievements map[string]map[string]domain.AchievementState `json:"achievements"`
	Recent       map[string][]domain.Event                     `json:"recent"`
	Challenges   map[string][]domain.Challenge                 `json:"challenges"`
	Streaks      map[string]domain.StreakState                 `json:"streaks"`
	Multipliers  map[string][]domain.CustomMultiplier          `json:"multipliers"`
}

// SnapshotState deep-copies the engine's mutable state.
func (e *Engine) SnapshotState() StateSnapshot {
	states, recent := e.achievements.snapshot()
	return StateSnapshot{
		Achievements: states,
		Recent:       recent,
		Challenges:   e.challenges.snapshot(),
		Streaks:      e.streaks.snapshot(),
		Multipliers:  e.resolver.snapshot(),
	}
}

// RestoreState replaces the engine's mutable state with a snapshot's.
func (e *Engine) RestoreState(snap StateSnapshot) {
	e.achievements.restore(snap.Achievements, snap.Recent)
	e.challenges.restore(snap.Challenges)
	e.streaks.restore(snap.Streaks)
	e.resolver.restore(snap.Multipliers)
}

// ─── Event Text ──────────────────────────────────────────────────────────────

func levelUpBody(level int) string {
	return fmt.Sprintf("Reached level %d", level)
}

func milestoneTitle(day int) string {
	return fmt.Sprintf("%d day streak milestone", day)
}

func milestoneBody(ms domain.StreakMilestone) string {
	return fmt.Sprintf("%d consecutive days of activity, +%d bonus XP on your next award", ms.Day, ms.Bonus)
}
