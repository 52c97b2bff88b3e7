package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/whoamaiii/devxp/internal/domain"
)

// parseDifficulty validates the --difficulty flag value.
func parseDifficulty(s string) (domain.Difficulty, error) {
	switch d := domain.Difficulty(s); d {
	case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard, domain.DifficultyExpert:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, medium, hard, or expert)", s)
	}
}

// eventLabel maps event types to the short tags the CLI prints.
func eventLabel(t domain.EventType) string {
	switch t {
	case domain.EventAchievementUnlocked:
		return "unlock"
	case domain.EventLevelUp:
		return "level"
	case domain.EventStreakMilestone:
		return "streak"
	case domain.EventChallengeCompleted:
		return "challenge"
	case domain.EventCategoryCompleted:
		return "category"
	default:
		return string(t)
	}
}

// comma renders n with thousands separators: 1240 -> "1,240".
func comma(n int64) string {
	s := strconv.FormatInt(n, 10)
	start := 0
	if s[0] == '-' {
		start = 1
	}
	digits := len(s) - start
	if digits <= 3 {
		return s
	}

	out := make([]byte, 0, len(s)+digits/3)
	out = append(out, s[:start]...)
	lead := digits % 3
	if lead > 0 {
		out = append(out, s[start:start+lead]...)
	}
	for i := start + lead; i < len(s); i += 3 {
		if len(out) > start {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// summarizeTotals renders per-type XP sums largest first, ties by name.
func summarizeTotals(totals map[domain.ActivityType]int64) string {
	types := make([]domain.ActivityType, 0, len(totals))
	for typ := range totals {
		types = append(types, typ)
	}
	sort.Slice(types, func(i, j int) bool {
		if totals[types[i]] != totals[types[j]] {
			return totals[types[i]] > totals[types[j]]
		}
		return types[i] < types[j]
	})

	parts := make([]string, 0, len(types))
	for _, typ := range types {
		parts = append(parts, fmt.Sprintf("%s %s", typ, comma(totals[typ])))
	}
	return strings.Join(parts, ", ")
}

// timeAgo renders the elapsed time since t in the coarsest sensible unit.
func timeAgo(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
