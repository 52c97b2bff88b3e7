package engagement

import (
	"fmt"
	"math"
	"time"

	"github.com/whoamaiii/devxp/internal/domain"
)

// Calculator turns one activity occurrence into an XP award: base XP by
// activity type, plus any parked streak-milestone bonus, times the resolved
// multiplier product. Pure computation; callers apply the XP to durable
// state and forward the result onward.
type Calculator struct {
	settings    *Settings
	progression *Progression
	resolver    *Resolver
	streaks     *Tracker
}

// NewCalculator wires a calculator over shared components.
func NewCalculator(s *Settings, p *Progression, r *Resolver, t *Tracker) *Calculator {
	return &Calculator{settings: s, progression: p, resolver: r, streaks: t}
}

// Calculate computes the award for one occurrence, consuming any parked
// milestone bonus. The only possible error is a configuration error from a
// panicking custom progression formula.
func (c *Calculator) Calculate(occ domain.ActivityOccurrence) (*domain.XPResult, error) {
	return c.calculate(occ, true)
}

// Preview computes the same award as Calculate but leaves parked milestone
// bonuses in place, for dry-run displays.
func (c *Calculator) Preview(occ domain.ActivityOccurrence) (*domain.XPResult, error) {
	return c.calculate(occ, false)
}

func (c *Calculator) calculate(occ domain.ActivityOccurrence, consumePending bool) (*domain.XPResult, error) {
	if occ.At.IsZero() {
		occ.At = time.Now()
	}

	base := c.settings.baseFor(occ.Type)
	breakdown := []string{fmt.Sprintf("base %d XP for %s", base, occ.Type)}

	var bonus int64
	if consumePending {
		bonus = c.streaks.TakePending(occ.User.UserID)
	} else {
		bonus = c.streaks.Pending(occ.User.UserID)
	}
	if bonus > 0 {
		base += bonus
		breakdown = append(breakdown, fmt.Sprintf("streak milestone bonus +%d XP", bonus))
	}

	multipliers, total, warnings := c.resolver.Resolve(occ)
	for _, m := range multipliers {
		breakdown = append(breakdown, fmt.Sprintf("x%.2f %s", m.Factor, m.Description))
	}

	final := int64(math.Round(float64(base) * total))
	if final < 0 {
		final = 0
	}
	breakdown = append(breakdown, fmt.Sprintf("total x%.2f = %d XP", total, final))

	level, err := c.progression.LevelFromXP(occ.User.TotalXP)
	if err != nil {
		return nil, err
	}
	next, err := c.progression.LevelFromXP(occ.User.TotalXP + final)
	if err != nil {
		return nil, err
	}

	return &domain.XPResult{
		UserID:          occ.User.UserID,
		Activity:        occ.Type,
		BaseXP:          base,
		MilestoneBonus:  bonus,
		Multipliers:     multipliers,
		TotalMultiplier: total,
		FinalXP:         final,
		Breakdown:       breakdown,
		Warnings:        warnings,
		WouldLevelUp:    next > level,
		NewLevel:        next,
		ComputedAt:      occ.At,
	}, nil
}
