package engagement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/whoamaiii/devxp/internal/domain"
)

// ─── Bonus Factors ───────────────────────────────────────────────────────────

const (
	firstTimeFactor = 1.5
	weekendFactor   = 1.25
	morningFactor   = 1.3 // happy hour 05:00–09:00
	nightFactor     = 1.2 // happy hour 22:00–02:00
	premiumFactor   = 1.2
)

var difficultyFactor = map[domain.Difficulty]float64{
	domain.DifficultyEasy:   0.75,
	domain.DifficultyMedium: 1.0,
	domain.DifficultyHard:   1.5,
	domain.DifficultyExpert: 2.0,
}

// Resolver folds every applicable bonus factor into one capped product.
// It owns the per-user registry of host-defined custom multipliers.
type Resolver struct {
	settings *Settings
	custom   map[string][]domain.CustomMultiplier
}

// NewResolver creates a resolver over the given settings.
func NewResolver(s *Settings) *Resolver {
	return &Resolver{
		settings: s,
		custom:   make(map[string][]domain.CustomMultiplier),
	}
}

// Register stores a custom multiplier for a user, assigning an id when the
// host did not. The stored copy is returned.
func (r *Resolver) Register(userID string, m domain.CustomMultiplier) domain.CustomMultiplier {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	r.custom[userID] = append(r.custom[userID], m)
	return m
}

// Remove drops a registered multiplier by id. Missing ids are a no-op.
func (r *Resolver) Remove(userID, id string) {
	entries := r.custom[userID]
	for i, m := range entries {
		if m.ID == id {
			r.custom[userID] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// CustomFor prunes expired and inactive entries, then returns the survivors.
func (r *Resolver) CustomFor(userID string, now time.Time) []domain.CustomMultiplier {
	entries := r.custom[userID]
	kept := entries[:0]
	for _, m := range entries {
		if m.Active && !m.Expired(now) {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		delete(r.custom, userID)
		return nil
	}
	r.custom[userID] = kept
	out := make([]domain.CustomMultiplier, len(kept))
	copy(out, kept)
	return out
}

// Resolve computes the ordered multiplier list for an occurrence and the
// clamped total product. Breaching a bound records a warning; it is never
// an error.
func (r *Resolver) Resolve(occ domain.ActivityOccurrence) ([]domain.Multiplier, float64, []string) {
	var applied []domain.Multiplier
	add := func(kind domain.MultiplierKind, factor float64, desc string) {
		applied = append(applied, domain.Multiplier{Kind: kind, Factor: factor, Description: desc})
	}

	if d := occ.Context.Difficulty; d != "" {
		if f, ok := difficultyFactor[d]; ok {
			add(domain.MultDifficulty, f, fmt.Sprintf("%s difficulty", d))
		}
	}
	if days := occ.User.StreakDays; days > 0 {
		f := 1.0 + float64(days)*r.settings.StreakDailyRate
		if f > r.settings.StreakCap {
			f = r.settings.StreakCap
		}
		add(domain.MultStreak, f, fmt.Sprintf("%d day streak (+%.0f%%)", days, (f-1)*100))
	}
	if occ.Context.FirstTime {
		add(domain.MultFirstTime, firstTimeFactor, "first time doing this activity")
	}
	if wd := occ.At.Weekday(); wd == time.Saturday || wd == time.Sunday {
		add(domain.MultWeekend, weekendFactor, "weekend activity")
	}
	switch hour := occ.At.Hour(); {
	case hour >= 5 && hour < 9:
		add(domain.MultHappyHour, morningFactor, "early bird hours (05:00-09:00)")
	case hour >= 22 || hour < 2:
		add(domain.MultHappyHour, nightFactor, "night owl hours (22:00-02:00)")
	}
	if occ.User.Premium {
		add(domain.MultPremium, premiumFactor, "premium account")
	}
	if occ.Context.Scored {
		q := occ.Context.Quality
		if q < 0 {
			q = 0
		}
		if q > 100 {
			q = 100
		}
		add(domain.MultQuality, 0.5+float64(q)/100.0, fmt.Sprintf("quality score %d/100", q))
	}
	for _, m := range r.CustomFor(occ.User.UserID, occ.At) {
		desc := m.Description
		if desc == "" {
			desc = "custom bonus"
		}
		add(domain.MultCustom, m.Factor, desc)
	}

	total := 1.0
	for _, m := range applied {
		total *= m.Factor
	}

	var warnings []string
	if total > r.settings.MultiplierCeiling {
		warnings = append(warnings, fmt.Sprintf("total multiplier %.2f above ceiling %.2f, clamped", total, r.settings.MultiplierCeiling))
		total = r.settings.MultiplierCeiling
	} else if total < r.settings.MultiplierFloor {
		warnings = append(warnings, fmt.Sprintf("total multiplier %.2f below floor %.2f, raised", total, r.settings.MultiplierFloor))
		total = r.settings.MultiplierFloor
	}
	return applied, total, warnings
}

// snapshot deep-copies the custom multiplier registry.
func (r *Resolver) snapshot() map[string][]domain.CustomMultiplier {
	out := make(map[string][]domain.CustomMultiplier, len(r.custom))
	for user, entries := range r.custom {
		cp := make([]domain.CustomMultiplier, len(entries))
		copy(cp, entries)
		out[user] = cp
	}
	return out
}

// restore replaces the registry with the snapshot's contents.
func (r *Resolver) restore(snap map[string][]domain.CustomMultiplier) {
	r.custom = make(map[string][]domain.CustomMultiplier, len(snap))
	for user, entries := range snap {
		cp := make([]domain.CustomMultiplier, len(entries))
		copy(cp, entries)
		r.custom[user] = cp
	}
}

// reset drops a user's registered multipliers.
func (r *Resolver) reset(userID string) {
	delete(r.custom, userID)
}
