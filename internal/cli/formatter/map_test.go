package formatter

import (
	"strings"
	"testing"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMap_PlacesGlyphsAndLabels(t *testing.T) {
	points := []MapPoint{
		{ID: "a", Label: "Career", Status: domain.StatusCompleted, X: 0, Y: 0},
		{ID: "b", ParentID: "a", Label: "Go", Status: domain.StatusPending, X: 1000, Y: 1000},
	}

	out := RenderMap(points, 1000, 1000, 40, 10)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)

	assert.True(t, strings.HasPrefix(lines[0], "● Career"))
	assert.Contains(t, lines[9], "○")
	assert.Contains(t, out, "·")
}

func TestRenderMap_SkipsEdgesToMissingParents(t *testing.T) {
	points := []MapPoint{
		{ID: "a", ParentID: "gone", Label: "Orphan", X: 500, Y: 500},
	}
	out := RenderMap(points, 1000, 1000, 20, 5)
	assert.NotContains(t, out, "·")
	assert.Contains(t, out, "Orphan")
}

func TestRenderMap_TooSmall(t *testing.T) {
	assert.Empty(t, RenderMap(nil, 1000, 1000, 2, 1))
	assert.Empty(t, RenderMap(nil, 0, 1000, 20, 10))
}

func TestRenderMap_ClipsLabelsAtEdge(t *testing.T) {
	points := []MapPoint{{ID: "a", Label: "A very long label", X: 1000, Y: 0}}
	out := RenderMap(points, 1000, 1000, 10, 3)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 10)
	}
}
