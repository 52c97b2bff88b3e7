package engagement

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/whoamaiii/devxp/internal/domain"
)

// ChallengeManager owns per-user time-boxed challenges. Dailies roll a
// random activity with a goal in the configured range and die at the end of
// the local day; weeklies come from a named template menu and die Sunday
// night. Expired incomplete challenges drop out of active listings but are
// kept until pruned; completed ones keep counting toward completion bonuses.
type ChallengeManager struct {
	settings *Settings
	rng      *rand.Rand
	users    map[string][]*domain.Challenge
}

// NewChallengeManager creates a manager. Settings.Seed fixes the random
// rolls; zero seeds from the clock.
func NewChallengeManager(s *Settings) *ChallengeManager {
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &ChallengeManager{
		settings: s,
		rng:      rand.New(rand.NewSource(seed)),
		users:    make(map[string][]*domain.Challenge),
	}
}

// dailyPool is the set of activities a daily challenge can demand.
var dailyPool = []domain.ActivityType{
	domain.ActGitCommit,
	domain.ActGitPush,
	domain.ActTestRun,
	domain.ActCommandRun,
	domain.ActFileCreated,
}

// DefaultWeeklyMenu returns the built-in weekly challenge templates.
func DefaultWeeklyMenu() []domain.ChallengeTemplate {
	return []domain.ChallengeTemplate{
		{Name: "commit_spree", Description: "Land 20 commits this week", Activity: domain.ActGitCommit, Goal: 20, RewardXP: 500},
		{Name: "green_week", Description: "Run 15 test suites this week", Activity: domain.ActTestRun, Goal: 15, RewardXP: 400},
		{Name: "ship_shape", Description: "Deploy 3 times this week", Activity: domain.ActDeploy, Goal: 3, RewardXP: 600},
		{Name: "file_forge", Description: "Create 25 files this week", Activity: domain.ActFileCreated, Goal: 25, RewardXP: 450},
		{Name: "terminal_velocity", Description: "Run 150 commands this week", Activity: domain.ActCommandRun, Goal: 150, RewardXP: 350},
		{Name: "branch_manager", Description: "Cut 8 branches this week", Activity: domain.ActGitBranch, Goal: 8, RewardXP: 300},
		{Name: "review_rally", Description: "Review 5 changes this week", Activity: domain.ActCodeReview, Goal: 5, RewardXP: 400},
	}
}

// CreateDaily rolls a daily challenge: a random activity from the pool with
// a goal uniform in the configured range, expiring at the end of the local
// day.
func (m *ChallengeManager) CreateDaily(userID string, now time.Time) domain.Challenge {
	act := dailyPool[m.rng.Intn(len(dailyPool))]
	span := m.settings.DailyGoalMax - m.settings.DailyGoalMin + 1
	goal := m.settings.DailyGoalMin + m.rng.Intn(span)

	ch := &domain.Challenge{
		ID:          uuid.NewString(),
		UserID:      userID,
		Kind:        domain.ChallengeDaily,
		Name:        "Daily Grind",
		Description: fmt.Sprintf("Record %d %s activities today", goal, humanize(act)),
		Activity:    act,
		Goal:        goal,
		RewardXP:    m.settings.DailyChallengeXP,
		CreatedAt:   now,
		ExpiresAt:   endOfDay(now),
	}
	m.users[userID] = append(m.users[userID], ch)
	return *ch
}

// CreateWeekly draws one template from the menu, expiring Sunday night.
func (m *ChallengeManager) CreateWeekly(userID string, now time.Time) domain.Challenge {
	tmpl := m.settings.WeeklyMenu[m.rng.Intn(len(m.settings.WeeklyMenu))]
	return m.fromTemplate(userID, domain.ChallengeWeekly, tmpl, now, endOfWeek(now))
}

// GenerateWeeklySet draws n distinct templates from the menu, preferring
// distinct activities, all expiring Sunday night.
func (m *ChallengeManager) GenerateWeeklySet(userID string, now time.Time, n int) []domain.Challenge {
	selected := pickUniqueTemplates(m.settings.WeeklyMenu, n, m.rng)
	expiry := endOfWeek(now)
	out := make([]domain.Challenge, 0, len(selected))
	for _, tmpl := range selected {
		out = append(out, m.fromTemplate(userID, domain.ChallengeWeekly, tmpl, now, expiry))
	}
	return out
}

// CreateSpecial registers a host-defined challenge with an explicit expiry.
func (m *ChallengeManager) CreateSpecial(userID string, tmpl domain.ChallengeTemplate, now, expiresAt time.Time) domain.Challenge {
	return m.fromTemplate(userID, domain.ChallengeSpecial, tmpl, now, expiresAt)
}

func (m *ChallengeManager) fromTemplate(userID string, kind domain.ChallengeKind, tmpl domain.ChallengeTemplate, now, expiresAt time.Time) domain.Challenge {
	ch := &domain.Challenge{
		ID:          uuid.NewString(),
		UserID:      userID,
		Kind:        kind,
		Name:        tmpl.Name,
		Description: tmpl.Description,
		Activity:    tmpl.Activity,
		Goal:        tmpl.Goal,
		RewardXP:    tmpl.RewardXP,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}
	m.users[userID] = append(m.users[userID], ch)
	return *ch
}

// RecordActivity advances every active incomplete challenge whose required
// activity matches (an unset requirement matches anything). Progress never
// exceeds the goal; completion stamps the time and yields an event. Unknown
// users and expired challenges are silent no-ops.
func (m *ChallengeManager) RecordActivity(userID string, act domain.ActivityType, now time.Time) []domain.Event {
	var events []domain.Event
	for _, ch := range m.users[userID] {
		if !ch.IsActive(now) {
			continue
		}
		if ch.Activity != "" && ch.Activity != act {
			continue
		}
		if ch.Progress < ch.Goal {
			ch.Progress++
		}
		if ch.Progress >= ch.Goal {
			ch.Completed = true
			ch.CompletedAt = now
			events = append(events, domain.Event{
				Type:   domain.EventChallengeCompleted,
				UserID: userID,
				Title:  fmt.Sprintf("Challenge complete: %s", ch.Name),
				Body:   ch.Description,
				RefID:  ch.ID,
				XP:     ch.RewardXP,
				At:     now,
			})
		}
	}
	return events
}

// Active returns copies of the user's incomplete, unexpired challenges.
func (m *ChallengeManager) Active(userID string, now time.Time) []domain.Challenge {
	var out []domain.Challenge
	for _, ch := range m.users[userID] {
		if ch.IsActive(now) {
			out = append(out, *ch)
		}
	}
	return out
}

// All returns copies of every tracked challenge for a user.
func (m *ChallengeManager) All(userID string) []domain.Challenge {
	entries := m.users[userID]
	out := make([]domain.Challenge, 0, len(entries))
	for _, ch := range entries {
		out = append(out, *ch)
	}
	return out
}

// Get looks a challenge up by id.
func (m *ChallengeManager) Get(userID, id string) (domain.Challenge, error) {
	for _, ch := range m.users[userID] {
		if ch.ID == id {
			return *ch, nil
		}
	}
	return domain.Challenge{}, domain.ErrChallengeNotFound
}

// DailyCompletionBonus returns the flat bonus owed when every tracked daily
// challenge is complete; zero when any is open or none exist.
func (m *ChallengeManager) DailyCompletionBonus(userID string) int64 {
	return m.bonusFor(userID, domain.ChallengeDaily, m.settings.DailyCompletionBonus)
}

// WeeklyCompletionBonus is DailyCompletionBonus for the weekly kind.
func (m *ChallengeManager) WeeklyCompletionBonus(userID string) int64 {
	return m.bonusFor(userID, domain.ChallengeWeekly, m.settings.WeeklyCompletionBonus)
}

func (m *ChallengeManager) bonusFor(userID string, kind domain.ChallengeKind, amount int64) int64 {
	var seen bool
	for _, ch := range m.users[userID] {
		if ch.Kind != kind {
			continue
		}
		seen = true
		if !ch.Completed {
			return 0
		}
	}
	if !seen {
		return 0
	}
	return amount
}

// PruneExpired drops expired incomplete challenges and reports how many.
// Completed ones stay for bonus accounting until the user is reset.
func (m *ChallengeManager) PruneExpired(userID string, now time.Time) int {
	entries := m.users[userID]
	kept := entries[:0]
	pruned := 0
	for _, ch := range entries {
		if !ch.Completed && ch.IsExpired(now) {
			pruned++
			continue
		}
		kept = append(kept, ch)
	}
	if len(kept) == 0 {
		delete(m.users, userID)
	} else {
		m.users[userID] = kept
	}
	return pruned
}

// snapshot deep-copies all per-user challenges.
func (m *ChallengeManager) snapshot() map[string][]domain.Challenge {
	out := make(map[string][]domain.Challenge, len(m.users))
	for userID, entries := range m.users {
		cp := make([]domain.Challenge, 0, len(entries))
		for _, ch := range entries {
			cp = append(cp, *ch)
		}
		out[userID] = cp
	}
	return out
}

// restore replaces all challenge state with the snapshot's contents.
func (m *ChallengeManager) restore(snap map[string][]domain.Challenge) {
	m.users = make(map[string][]*domain.Challenge, len(snap))
	for userID, entries := range snap {
		cps := make([]*domain.Challenge, 0, len(entries))
		for _, ch := range entries {
			cp := ch
			cps = append(cps, &cp)
		}
		m.users[userID] = cps
	}
}

// reset drops every challenge a user has.
func (m *ChallengeManager) reset(userID string) {
	delete(m.users, userID)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// endOfDay returns 23:59:59.999 of t's local day.
func endOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 23, 59, 59, 999_000_000, t.Location())
}

// endOfWeek returns 23:59:59.999 of the Sunday ending t's week. A Sunday t
// expires the same night.
func endOfWeek(t time.Time) time.Time {
	daysUntilSunday := (7 - int(t.Weekday())) % 7
	return endOfDay(t.AddDate(0, 0, daysUntilSunday))
}

// humanize turns an activity type into prose: "git_commit" reads "git commit".
func humanize(act domain.ActivityType) string {
	return strings.ReplaceAll(string(act), "_", " ")
}

// pickUniqueTemplates selects n random templates, preferring distinct
// activities, then filling with distinct names.
func pickUniqueTemplates(menu []domain.ChallengeTemplate, n int, rng *rand.Rand) []domain.ChallengeTemplate {
	shuffled := make([]domain.ChallengeTemplate, len(menu))
	copy(shuffled, menu)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	seen := make(map[domain.ActivityType]bool)
	var result []domain.ChallengeTemplate
	for _, tmpl := range shuffled {
		if len(result) >= n {
			break
		}
		if !seen[tmpl.Activity] {
			seen[tmpl.Activity] = true
			result = append(result, tmpl)
		}
	}

	for _, tmpl := range shuffled {
		if len(result) >= n {
			break
		}
		dup := false
		for _, r := range result {
			if r.Name == tmpl.Name {
				dup = true
				break
			}
		}
		if !dup {
			result = append(result, tmpl)
		}
	}
	return result
}
