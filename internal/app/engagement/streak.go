package engagement

import (
	"github.com/whoamaiii/devxp/internal/domain"
)

// Tracker caches per-user streak lengths and pays milestone bonuses.
// Day accounting belongs to the host; it reports the current consecutive-day
// count through Update. A milestone fires only when the count lands exactly
// on a configured day, and only once per user per milestone. The flat XP
// bonus parks here until the next calculation consumes it.
type Tracker struct {
	settings *Settings
	users    map[string]*domain.StreakState
}

// NewTracker creates a tracker over the given settings.
func NewTracker(s *Settings) *Tracker {
	return &Tracker{
		settings: s,
		users:    make(map[string]*domain.StreakState),
	}
}

func (t *Tracker) state(userID string) *domain.StreakState {
	st, ok := t.users[userID]
	if !ok {
		st = &domain.StreakState{Awarded: make(map[int]bool)}
		t.users[userID] = st
	}
	return st
}

// Update records a user's current streak length and performs exact-day
// milestone detection. The returned bool reports whether a milestone fired.
func (t *Tracker) Update(userID string, days int) (domain.StreakMilestone, bool) {
	if days < 0 {
		days = 0
	}
	st := t.state(userID)
	st.Days = days

	bonus, ok := t.settings.StreakMilestones[days]
	if !ok || st.Awarded[days] {
		return domain.StreakMilestone{}, false
	}
	st.Awarded[days] = true
	st.PendingBonus += bonus
	return domain.StreakMilestone{Day: days, Bonus: bonus}, true
}

// Days returns the cached streak length for a user, zero when unknown.
func (t *Tracker) Days(userID string) int {
	if st, ok := t.users[userID]; ok {
		return st.Days
	}
	return 0
}

// TakePending returns and clears the user's parked milestone bonus.
func (t *Tracker) TakePending(userID string) int64 {
	st, ok := t.users[userID]
	if !ok || st.PendingBonus == 0 {
		return 0
	}
	bonus := st.PendingBonus
	st.PendingBonus = 0
	return bonus
}

// Pending reports the parked milestone bonus without consuming it.
func (t *Tracker) Pending(userID string) int64 {
	if st, ok := t.users[userID]; ok {
		return st.PendingBonus
	}
	return 0
}

// snapshot deep-copies all per-user streak state.
func (t *Tracker) snapshot() map[string]domain.StreakState {
	out := make(map[string]domain.StreakState, len(t.users))
	for user, st := range t.users {
		cp := domain.StreakState{Days: st.Days, PendingBonus: st.PendingBonus}
		if len(st.Awarded) > 0 {
			cp.Awarded = make(map[int]bool, len(st.Awarded))
			for day, paid := range st.Awarded {
				cp.Awarded[day] = paid
			}
		}
		out[user] = cp
	}
	return out
}

// restore replaces all streak state with the snapshot's contents.
func (t *Tracker) restore(snap map[string]domain.StreakState) {
	t.users = make(map[string]*domain.StreakState, len(snap))
	for user, st := range snap {
		cp := domain.StreakState{Days: st.Days, PendingBonus: st.PendingBonus, Awarded: make(map[int]bool)}
		for day, paid := range st.Awarded {
			cp.Awarded[day] = paid
		}
		t.users[user] = &cp
	}
}

// reset drops a user's streak cache and milestone history.
func (t *Tracker) reset(userID string) {
	delete(t.users, userID)
}
