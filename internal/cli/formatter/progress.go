package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░]  45% for a
// percentage in 0..100. The bar is green above 66, yellow from 33, red below.
func RenderProgress(percent float64, width int) string {
	return fmt.Sprintf("[%s] %s", RenderCompactBar(percent, width), Percent(percent))
}

// RenderCompactBar renders only the colored blocks, without brackets or label.
func RenderCompactBar(percent float64, width int) string {
	pct := clampPercent(percent) / 100
	if width < 2 {
		width = 2
	}
	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return style.Render(bar)
}

// Percent formats a 0..100 value as a right-aligned whole percentage.
func Percent(percent float64) string {
	return fmt.Sprintf("%3.0f%%", clampPercent(percent))
}

func clampPercent(p float64) float64 {
	return max(0, min(p, 100))
}
