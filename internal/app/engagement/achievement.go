package engagement

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/whoamaiii/devxp/internal/domain"
)

// Rules evaluates the achievement catalog against per-user counter
// snapshots. Definitions are immutable after construction; unlock state is
// per user and terminal except via ResetUser. Re-evaluating an unchanged
// snapshot unlocks nothing and emits nothing.
type Rules struct {
	defs  []domain.AchievementDef
	users map[string]*userAchievements
	// recentCap bounds each user's remembered unlock events.
	recentCap int
}

type userAchievements struct {
	states map[string]*domain.AchievementState
	recent *eventRing
}

// NewRules creates a rule engine over a catalog.
func NewRules(defs []domain.AchievementDef, recentCap int) *Rules {
	return &Rules{
		defs:      defs,
		users:     make(map[string]*userAchievements),
		recentCap: recentCap,
	}
}

func (r *Rules) user(userID string) *userAchievements {
	u, ok := r.users[userID]
	if !ok {
		u = &userAchievements{
			states: make(map[string]*domain.AchievementState),
			recent: newEventRing(r.recentCap),
		}
		r.users[userID] = u
	}
	return u
}

func (r *Rules) stateFor(u *userAchievements, id string) *domain.AchievementState {
	st, ok := u.states[id]
	if !ok {
		st = &domain.AchievementState{ID: id}
		u.states[id] = st
	}
	return st
}

// Evaluate runs one full pass over the catalog. Progress is recomputed from
// the snapshot counter each definition's id prefix names, clamped to the
// goal; the predicate alone decides unlocking. A panicking predicate is
// recovered, reported as a configuration error, and never stops the pass.
// When a pass's unlocks finish off a whole category, a category-completed
// side notification follows the unlock events.
func (r *Rules) Evaluate(snap domain.ContextSnapshot) ([]domain.Event, error) {
	now := snap.Now
	if now.IsZero() {
		now = time.Now()
	}
	u := r.user(snap.UserID)

	var events []domain.Event
	var errs []error
	newCategories := make(map[domain.AchievementCategory]bool)

	for _, def := range r.defs {
		st := r.stateFor(u, def.ID)
		if st.Unlocked {
			continue
		}

		if cur, ok := progressFor(def.ID, snap); ok {
			p := cur
			if p > def.Goal {
				p = def.Goal
			}
			if p > st.Progress {
				st.Progress = p
			}
		}

		unlocked, err := safePredicate(def, snap)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !unlocked {
			continue
		}

		st.Unlocked = true
		st.UnlockedAt = now
		st.Progress = def.Goal
		ev := domain.Event{
			Type:   domain.EventAchievementUnlocked,
			UserID: snap.UserID,
			Title:  fmt.Sprintf("%s %s", def.Icon, def.Name),
			Body:   def.Description,
			RefID:  def.ID,
			XP:     def.RewardXP,
			At:     now,
		}
		events = append(events, ev)
		u.recent.push(ev)
		newCategories[def.Category] = true
	}

	for _, def := range r.defs {
		cat := def.Category
		if !newCategories[cat] {
			continue
		}
		newCategories[cat] = false
		if r.categoryComplete(u, cat) {
			events = append(events, domain.Event{
				Type:   domain.EventCategoryCompleted,
				UserID: snap.UserID,
				Title:  fmt.Sprintf("Category complete: %s", cat),
				Body:   fmt.Sprintf("Every %s achievement is unlocked", cat),
				RefID:  string(cat),
				At:     now,
			})
		}
	}

	return events, errors.Join(errs...)
}

// safePredicate runs one predicate, converting a panic into a configuration
// error. A nil predicate never unlocks.
func safePredicate(def domain.AchievementDef, snap domain.ContextSnapshot) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("%w: predicate for %q panicked: %v", domain.ErrConfiguration, def.ID, r)
		}
	}()
	if def.Predicate == nil {
		return false, nil
	}
	return def.Predicate(snap), nil
}

func (r *Rules) categoryComplete(u *userAchievements, cat domain.AchievementCategory) bool {
	for _, def := range r.defs {
		if def.Category != cat {
			continue
		}
		st, ok := u.states[def.ID]
		if !ok || !st.Unlocked {
			return false
		}
	}
	return true
}

// ─── Listings & Statistics ──────────────────────────────────────────────────

// AchievementView pairs a definition with one user's state.
type AchievementView struct {
	domain.AchievementDef
	State domain.AchievementState `json:"state"`
}

// List returns the catalog joined with a user's state, in catalog order.
// Hidden achievements are excluded unless requested.
func (r *Rules) List(userID string, includeHidden bool) []AchievementView {
	u := r.user(userID)
	out := make([]AchievementView, 0, len(r.defs))
	for _, def := range r.defs {
		if def.Hidden && !includeHidden {
			continue
		}
		view := AchievementView{AchievementDef: def}
		if st, ok := u.states[def.ID]; ok {
			view.State = *st
		} else {
			view.State = domain.AchievementState{ID: def.ID}
		}
		out = append(out, view)
	}
	return out
}

// Stats summarizes a user's standing: totals, per-category counts, the
// nearest locked visible achievements by progress ratio, and the most
// recent unlocks (newest first).
func (r *Rules) Stats(userID string, nearest int) domain.AchievementStats {
	u := r.user(userID)
	stats := domain.AchievementStats{
		Total:      len(r.defs),
		ByCategory: make(map[domain.AchievementCategory]domain.CategoryProgress),
	}

	var near []domain.NearUnlock
	for _, def := range r.defs {
		cp := stats.ByCategory[def.Category]
		cp.Total++
		st, tracked := u.states[def.ID]
		if tracked && st.Unlocked {
			cp.Unlocked++
			stats.Unlocked++
		} else if !def.Hidden && def.Goal > 0 {
			var progress int64
			if tracked {
				progress = st.Progress
			}
			near = append(near, domain.NearUnlock{
				ID:       def.ID,
				Name:     def.Name,
				Progress: progress,
				Goal:     def.Goal,
				Ratio:    float64(progress) / float64(def.Goal),
			})
		}
		stats.ByCategory[def.Category] = cp
	}

	if stats.Total > 0 {
		stats.Percent = float64(stats.Unlocked) / float64(stats.Total) * 100.0
	}

	sort.SliceStable(near, func(i, j int) bool { return near[i].Ratio > near[j].Ratio })
	if nearest > 0 && len(near) > nearest {
		near = near[:nearest]
	}
	stats.Nearest = near
	stats.Recent = u.recent.list()
	return stats
}

// ResetUser erases a user's unlock state, progress, and recent history.
// The only way back from a terminal unlock.
func (r *Rules) ResetUser(userID string) {
	delete(r.users, userID)
}

// snapshot deep-copies per-user achievement state and recent events.
func (r *Rules) snapshot() (map[string]map[string]domain.AchievementState, map[string][]domain.Event) {
	states := make(map[string]map[string]domain.AchievementState, len(r.users))
	recent := make(map[string][]domain.Event, len(r.users))
	for userID, u := range r.users {
		cp := make(map[string]domain.AchievementState, len(u.states))
		for id, st := range u.states {
			cp[id] = *st
		}
		states[userID] = cp
		recent[userID] = u.recent.list()
	}
	return states, recent
}

// restore replaces per-user achievement state from a snapshot. Recent events
// are replayed oldest-first so ring order survives the round trip.
func (r *Rules) restore(states map[string]map[string]domain.AchievementState, recent map[string][]domain.Event) {
	r.users = make(map[string]*userAchievements, len(states))
	for userID, sts := range states {
		u := r.user(userID)
		for id, st := range sts {
			cp := st
			u.states[id] = &cp
		}
		evs := recent[userID]
		for i := len(evs) - 1; i >= 0; i-- {
			u.recent.push(evs[i])
		}
	}
}

// ─── Event Ring ──────────────────────────────────────────────────────────────

// eventRing keeps the last N events, overwriting the oldest.
type eventRing struct {
	buf  []domain.Event
	next int
	full bool
}

func newEventRing(capacity int) *eventRing {
	if capacity < 1 {
		capacity = 1
	}
	return &eventRing{buf: make([]domain.Event, capacity)}
}

func (r *eventRing) push(ev domain.Event) {
	r.buf[r.next] = ev
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

// list returns the buffered events, newest first.
func (r *eventRing) list() []domain.Event {
	size := r.next
	if r.full {
		size = len(r.buf)
	}
	out := make([]domain.Event, 0, size)
	for i := 1; i <= size; i++ {
		idx := (r.next - i + len(r.buf)) % len(r.buf)
		out = append(out, r.buf[idx])
	}
	return out
}
