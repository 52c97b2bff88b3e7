package engagement_test

import (
	"errors"
	"testing"

	"github.com/whoamaiii/devxp/internal/app/engagement"
	"github.com/whoamaiii/devxp/internal/domain"
)

func newProgression(t *testing.T, cfg domain.ProgressionConfig) *engagement.Progression {
	t.Helper()
	p, err := engagement.NewProgression(cfg)
	if err != nil {
		t.Fatalf("new progression: %v", err)
	}
	return p
}

// ═══════════════════════════════════════════════════════════════════════════
// Progression Calculator Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestProgression_ExponentialMonotonic(t *testing.T) {
	p := newProgression(t, domain.ProgressionConfig{
		Formula:         domain.FormulaExponential,
		BaseRequirement: 100,
		LevelMultiplier: 1.5,
		MaxLevel:        100,
	})

	prev := int64(0)
	for level := 1; level <= 100; level++ {
		xp, err := p.XPForLevel(level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if xp < prev {
			t.Fatalf("level %d requires %d XP, less than level %d's %d", level, xp, level-1, prev)
		}
		prev = xp
	}
}

func TestProgression_TotalIsSumOfLevels(t *testing.T) {
	formulas := []domain.FormulaKind{
		domain.FormulaLinear,
		domain.FormulaExponential,
		domain.FormulaFibonacci,
	}
	for _, formula := range formulas {
		t.Run(string(formula), func(t *testing.T) {
			p := newProgression(t, domain.ProgressionConfig{Formula: formula, MaxLevel: 50})

			var sum int64
			for level := 1; level <= 50; level++ {
				xp, err := p.XPForLevel(level)
				if err != nil {
					t.Fatalf("xp for level %d: %v", level, err)
				}
				sum += xp
				total, err := p.TotalXPForLevel(level)
				if err != nil {
					t.Fatalf("total for level %d: %v", level, err)
				}
				if total != sum {
					t.Errorf("level %d: total %d, running sum %d", level, total, sum)
				}
			}
		})
	}
}

func TestProgression_LevelFromXPInvertsTotal(t *testing.T) {
	formulas := []domain.FormulaKind{
		domain.FormulaLinear,
		domain.FormulaExponential,
		domain.FormulaFibonacci,
	}
	for _, formula := range formulas {
		t.Run(string(formula), func(t *testing.T) {
			p := newProgression(t, domain.ProgressionConfig{Formula: formula, MaxLevel: 40})

			for level := 1; level <= 40; level++ {
				total, err := p.TotalXPForLevel(level)
				if err != nil {
					t.Fatalf("total for %d: %v", level, err)
				}
				got, err := p.LevelFromXP(total)
				if err != nil {
					t.Fatalf("level from %d: %v", total, err)
				}
				if got != level {
					t.Errorf("LevelFromXP(TotalXPForLevel(%d)) = %d", level, got)
				}
			}
		})
	}
}

func TestProgression_LevelFromXPBounds(t *testing.T) {
	p := newProgression(t, domain.ProgressionConfig{
		Formula:         domain.FormulaLinear,
		BaseRequirement: 100,
		MaxLevel:        100,
	})

	tests := []struct {
		name  string
		xp    int64
		level int
	}{
		{"zero XP floors at level 1", 0, 1},
		{"negative XP floors at level 1", -500, 1},
		{"below first threshold stays level 1", 99, 1},
		{"huge XP clamps to the cap", 1 << 62, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.LevelFromXP(tc.xp)
			if err != nil {
				t.Fatalf("level from xp: %v", err)
			}
			if got != tc.level {
				t.Errorf("LevelFromXP(%d) = %d, want %d", tc.xp, got, tc.level)
			}
		})
	}
}

func TestProgression_PastCapIsUnreachable(t *testing.T) {
	p := newProgression(t, domain.ProgressionConfig{MaxLevel: 10})

	xp, err := p.XPForLevel(11)
	if err != nil {
		t.Fatalf("xp for level 11: %v", err)
	}
	if xp != domain.UnreachableXP {
		t.Errorf("level past cap: got %d, want UnreachableXP", xp)
	}
	total, err := p.TotalXPForLevel(11)
	if err != nil {
		t.Fatalf("total for level 11: %v", err)
	}
	if total != domain.UnreachableXP {
		t.Errorf("total past cap: got %d, want UnreachableXP", total)
	}
}

func TestProgression_SteepCurveSaturates(t *testing.T) {
	p := newProgression(t, domain.ProgressionConfig{
		Formula:         domain.FormulaExponential,
		BaseRequirement: 100,
		LevelMultiplier: 1.5,
		MaxLevel:        100,
	})

	// Level 97 still fits in an int64; level 98 does not.
	xp, err := p.XPForLevel(97)
	if err != nil {
		t.Fatalf("level 97: %v", err)
	}
	if xp == domain.UnreachableXP {
		t.Errorf("level 97 should still be representable")
	}
	xp, err = p.XPForLevel(98)
	if err != nil {
		t.Fatalf("level 98: %v", err)
	}
	if xp != domain.UnreachableXP {
		t.Errorf("level 98: got %d, want UnreachableXP", xp)
	}

	// A total past the last representable threshold parks there instead of
	// pretending the cap was reached.
	level, err := p.LevelFromXP(1 << 62)
	if err != nil {
		t.Fatalf("level from huge xp: %v", err)
	}
	if level >= 98 {
		t.Errorf("saturated curve resolved to level %d", level)
	}
}

func TestProgression_NonPositiveLevelCostsNothing(t *testing.T) {
	p := newProgression(t, domain.ProgressionConfig{})
	for _, level := range []int{0, -1, -10} {
		xp, err := p.XPForLevel(level)
		if err != nil {
			t.Fatalf("xp for %d: %v", level, err)
		}
		if xp != 0 {
			t.Errorf("XPForLevel(%d) = %d, want 0", level, xp)
		}
	}
}

func TestProgression_LinearCurve(t *testing.T) {
	p := newProgression(t, domain.ProgressionConfig{
		Formula:         domain.FormulaLinear,
		BaseRequirement: 100,
	})

	for level, want := range map[int]int64{1: 100, 2: 200, 5: 500, 10: 1000} {
		got, err := p.XPForLevel(level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if got != want {
			t.Errorf("linear level %d: got %d, want %d", level, got, want)
		}
	}
}

func TestProgression_FibonacciCurve(t *testing.T) {
	p := newProgression(t, domain.ProgressionConfig{
		Formula:         domain.FormulaFibonacci,
		BaseRequirement: 100,
	})

	want := []int64{100, 200, 300, 500, 800, 1300, 2100}
	for i, w := range want {
		got, err := p.XPForLevel(i + 1)
		if err != nil {
			t.Fatalf("level %d: %v", i+1, err)
		}
		if got != w {
			t.Errorf("fibonacci level %d: got %d, want %d", i+1, got, w)
		}
	}
}

func TestProgression_CustomFormula(t *testing.T) {
	p := newProgression(t, domain.ProgressionConfig{
		Formula: domain.FormulaCustom,
		Custom:  func(level int) int64 { return int64(level) * 42 },
	})

	got, err := p.XPForLevel(3)
	if err != nil {
		t.Fatalf("custom level 3: %v", err)
	}
	if got != 126 {
		t.Errorf("custom level 3: got %d, want 126", got)
	}
}

func TestProgression_CustomFormulaPanicIsConfigurationError(t *testing.T) {
	p := newProgression(t, domain.ProgressionConfig{
		Formula: domain.FormulaCustom,
		Custom:  func(level int) int64 { panic("bad formula") },
	})

	_, err := p.XPForLevel(5)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	_, err = p.LevelFromXP(1000)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error from LevelFromXP, got %v", err)
	}
}

func TestProgression_CustomWithoutFunctionRejected(t *testing.T) {
	_, err := engagement.NewProgression(domain.ProgressionConfig{Formula: domain.FormulaCustom})
	if !errors.Is(err, domain.ErrMissingFormula) {
		t.Fatalf("expected ErrMissingFormula, got %v", err)
	}
}

func TestProgression_UnknownFormulaRejected(t *testing.T) {
	_, err := engagement.NewProgression(domain.ProgressionConfig{Formula: "quadratic"})
	if !errors.Is(err, domain.ErrUnknownFormula) {
		t.Fatalf("expected ErrUnknownFormula, got %v", err)
	}
}

func TestProgression_XPToNextLevel(t *testing.T) {
	p := newProgression(t, domain.ProgressionConfig{
		Formula:         domain.FormulaLinear,
		BaseRequirement: 100,
		MaxLevel:        10,
	})

	// Level 2 completes at 100+200=300 total.
	remaining, err := p.XPToNextLevel(1, 150)
	if err != nil {
		t.Fatalf("xp to next: %v", err)
	}
	if remaining != 150 {
		t.Errorf("remaining to level 2: got %d, want 150", remaining)
	}

	// Already past the threshold floors at zero.
	remaining, err = p.XPToNextLevel(1, 400)
	if err != nil {
		t.Fatalf("xp to next: %v", err)
	}
	if remaining != 0 {
		t.Errorf("overshoot remaining: got %d, want 0", remaining)
	}

	// At the cap there is no next level.
	remaining, err = p.XPToNextLevel(10, 0)
	if err != nil {
		t.Fatalf("xp to next at cap: %v", err)
	}
	if remaining != 0 {
		t.Errorf("cap remaining: got %d, want 0", remaining)
	}
}

func TestProgression_ProgressPercentClamps(t *testing.T) {
	p := newProgression(t, domain.ProgressionConfig{
		Formula:         domain.FormulaLinear,
		BaseRequirement: 100,
		MaxLevel:        10,
	})

	// Level 1 spans total 100..300; 200 XP is halfway through the 200-wide span.
	pct, err := p.ProgressPercent(1, 200)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if pct != 50.0 {
		t.Errorf("midpoint progress: got %.1f, want 50.0", pct)
	}

	pct, _ = p.ProgressPercent(1, 0)
	if pct != 0 {
		t.Errorf("fresh user progress: got %.1f, want 0", pct)
	}

	pct, _ = p.ProgressPercent(10, 0)
	if pct != 100.0 {
		t.Errorf("cap progress: got %.1f, want 100", pct)
	}
}
