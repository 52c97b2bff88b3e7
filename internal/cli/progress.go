package cli

import (
	"fmt"
	"strings"
)

// ─── Progress Bar ────────────────────────────────────────────────────────────
// Terminal progress bar for level and challenge output.
// Shows: [==============>...............]  48%

const barWidth = 30

// renderBar renders pct (0-100) as a fixed-width ASCII bar.
func renderBar(pct float64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	filled := int(pct / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	var bar string
	switch {
	case filled == barWidth:
		bar = strings.Repeat("=", filled)
	case filled > 0:
		bar = strings.Repeat("=", filled-1) + ">" + strings.Repeat(".", empty)
	default:
		bar = strings.Repeat(".", barWidth)
	}

	return fmt.Sprintf("[%s] %3.0f%%", bar, pct)
}
