package engagement

import (
	"fmt"
	"math"

	"github.com/whoamaiii/devxp/internal/domain"
)

// Progression computes the level curve: how much XP each level demands and
// where a running total lands. Pure math over a validated config; callers
// own persistence. Errors only surface from a panicking custom formula.
type Progression struct {
	cfg domain.ProgressionConfig
}

// NewProgression validates the config, fills zero fields with the defaults
// (exponential, base 100, multiplier 1.5, cap 100), and returns a calculator.
func NewProgression(cfg domain.ProgressionConfig) (*Progression, error) {
	if cfg.Formula == "" {
		cfg.Formula = domain.FormulaExponential
	}
	if cfg.BaseRequirement <= 0 {
		cfg.BaseRequirement = 100
	}
	if cfg.LevelMultiplier <= 0 {
		cfg.LevelMultiplier = 1.5
	}
	if cfg.MaxLevel <= 0 {
		cfg.MaxLevel = 100
	}
	switch cfg.Formula {
	case domain.FormulaLinear, domain.FormulaExponential, domain.FormulaFibonacci:
	case domain.FormulaCustom:
		if cfg.Custom == nil {
			return nil, domain.ErrMissingFormula
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFormula, cfg.Formula)
	}
	return &Progression{cfg: cfg}, nil
}

// MaxLevel returns the level cap.
func (p *Progression) MaxLevel() int { return p.cfg.MaxLevel }

// XPForLevel returns the XP required to complete the given level.
// Levels at or below zero cost nothing; levels past the cap are unreachable.
func (p *Progression) XPForLevel(level int) (int64, error) {
	if level <= 0 {
		return 0, nil
	}
	if level > p.cfg.MaxLevel {
		return domain.UnreachableXP, nil
	}
	base := p.cfg.BaseRequirement
	switch p.cfg.Formula {
	case domain.FormulaLinear:
		return base * int64(level), nil
	case domain.FormulaExponential:
		// Steep curves outgrow int64 well before a high cap; saturate
		// instead of overflowing.
		f := math.Round(float64(base) * math.Pow(p.cfg.LevelMultiplier, float64(level-1)))
		if f >= float64(math.MaxInt64) {
			return domain.UnreachableXP, nil
		}
		return int64(f), nil
	case domain.FormulaFibonacci:
		if level == 1 {
			return base, nil
		}
		prev, cur := base, 2*base
		for l := 3; l <= level; l++ {
			next := prev + cur
			if next < cur {
				return domain.UnreachableXP, nil
			}
			prev, cur = cur, next
		}
		return cur, nil
	default: // FormulaCustom, guaranteed by NewProgression
		return p.safeCustom(level)
	}
}

// safeCustom invokes the caller-supplied formula, converting a panic into a
// configuration error instead of letting it propagate.
func (p *Progression) safeCustom(level int) (xp int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			xp = 0
			err = fmt.Errorf("%w: custom formula panicked at level %d: %v", domain.ErrConfiguration, level, r)
		}
	}()
	return p.cfg.Custom(level), nil
}

// TotalXPForLevel returns the cumulative XP needed to complete levels 1..level.
func (p *Progression) TotalXPForLevel(level int) (int64, error) {
	if level <= 0 {
		return 0, nil
	}
	if level > p.cfg.MaxLevel {
		return domain.UnreachableXP, nil
	}
	var total int64
	for l := 1; l <= level; l++ {
		xp, err := p.XPForLevel(l)
		if err != nil {
			return 0, err
		}
		if xp == domain.UnreachableXP || (xp > 0 && total > math.MaxInt64-xp) {
			return domain.UnreachableXP, nil
		}
		total += xp
	}
	return total, nil
}

// LevelFromXP returns the largest level whose cumulative requirement the
// total meets, clamped to [1, MaxLevel]. Zero XP floors at level 1.
func (p *Progression) LevelFromXP(totalXP int64) (int, error) {
	if totalXP < 0 {
		totalXP = 0
	}
	level := 1
	var sum int64
	for l := 1; l <= p.cfg.MaxLevel; l++ {
		xp, err := p.XPForLevel(l)
		if err != nil {
			return 1, err
		}
		if xp == domain.UnreachableXP || (xp > 0 && sum > math.MaxInt64-xp) {
			break
		}
		sum += xp
		if sum > totalXP {
			break
		}
		level = l
	}
	return level, nil
}

// XPToNextLevel returns the XP remaining from a running total to the next
// level, floored at zero. At the cap there is no next level.
func (p *Progression) XPToNextLevel(level int, totalXP int64) (int64, error) {
	if level >= p.cfg.MaxLevel {
		return 0, nil
	}
	need, err := p.TotalXPForLevel(level + 1)
	if err != nil {
		return 0, err
	}
	remaining := need - totalXP
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// ProgressPercent returns completion of the current level (0.0–100.0).
func (p *Progression) ProgressPercent(level int, totalXP int64) (float64, error) {
	if level >= p.cfg.MaxLevel {
		return 100.0, nil
	}
	if level < 1 {
		level = 1
	}
	start, err := p.TotalXPForLevel(level)
	if err != nil {
		return 0, err
	}
	span, err := p.XPForLevel(level + 1)
	if err != nil {
		return 0, err
	}
	if span <= 0 {
		return 100.0, nil
	}
	pct := float64(totalXP-start) / float64(span) * 100.0
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, nil
}
