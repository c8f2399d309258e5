package formatter

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestRenderCompactBar(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		width   int
		filled  int
	}{
		{"empty", 0, 10, 0},
		{"half", 50, 10, 5},
		{"full", 100, 10, 10},
		{"over 100 clamps", 150, 10, 10},
		{"negative clamps", -20, 10, 0},
		{"tiny width clamps to 2", 50, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderCompactBar(tt.percent, tt.width)
			assert.Equal(t, tt.filled, strings.Count(got, filledBlock))
			assert.Equal(t, max(tt.width, 2), lipgloss.Width(got))
			assert.NotContains(t, got, "%")
		})
	}
}

func TestRenderProgress(t *testing.T) {
	got := RenderProgress(50, 8)
	assert.Contains(t, got, "[")
	assert.Contains(t, got, " 50%")
	assert.Equal(t, 4, strings.Count(got, filledBlock))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "  0%", Percent(0))
	assert.Equal(t, " 67%", Percent(66.666))
	assert.Equal(t, "100%", Percent(100))
	assert.Equal(t, "100%", Percent(250))
}
