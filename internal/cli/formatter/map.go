package formatter

import (
	"math"
	"strings"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// MapPoint is one goal placed on the mind-map canvas, in canvas units.
type MapPoint struct {
	ID       string
	ParentID string
	Label    string
	Status   domain.NodeStatus
	X, Y     float64
	Selected bool
}

type mapCell struct {
	r     rune
	style *lipgloss.Style
}

var (
	mapEdgeStyle     = StyleDim
	mapSelectedStyle = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true).Underline(true)
)

// RenderMap scales canvas coordinates onto a cols×rows character grid,
// connects children to their parents with dotted edges and draws each
// goal as a status glyph followed by its label.
func RenderMap(points []MapPoint, canvasW, canvasH float64, cols, rows int) string {
	if cols < 4 || rows < 2 || canvasW <= 0 || canvasH <= 0 {
		return ""
	}
	grid := make([][]mapCell, rows)
	for y := range grid {
		grid[y] = make([]mapCell, cols)
		for x := range grid[y] {
			grid[y][x] = mapCell{r: ' '}
		}
	}

	cell := func(p MapPoint) (int, int) {
		cx := int(math.Round(p.X / canvasW * float64(cols-1)))
		cy := int(math.Round(p.Y / canvasH * float64(rows-1)))
		return clampInt(cx, 0, cols-1), clampInt(cy, 0, rows-1)
	}

	pos := make(map[string][2]int, len(points))
	for _, p := range points {
		x, y := cell(p)
		pos[p.ID] = [2]int{x, y}
	}

	for _, p := range points {
		parent, ok := pos[p.ParentID]
		if p.ParentID == "" || !ok {
			continue
		}
		child := pos[p.ID]
		drawLine(grid, parent[0], parent[1], child[0], child[1])
	}

	for _, p := range points {
		at := pos[p.ID]
		glyphStyle := StatusStyle(p.Status)
		put(grid, at[0], at[1], mapGlyph(p.Status), &glyphStyle)

		labelStyle := StyleFg
		if p.Selected {
			labelStyle = mapSelectedStyle
		}
		for i, r := range []rune(" " + p.Label) {
			put(grid, at[0]+1+i, at[1], r, &labelStyle)
		}
	}

	var b strings.Builder
	for y, row := range grid {
		renderRow(&b, row)
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func mapGlyph(status domain.NodeStatus) rune {
	switch status {
	case domain.StatusCompleted:
		return '●'
	case domain.StatusInProgress:
		return '◐'
	default:
		return '○'
	}
}

func put(grid [][]mapCell, x, y int, r rune, style *lipgloss.Style) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	grid[y][x] = mapCell{r: r, style: style}
}

// drawLine is Bresenham without the endpoints, which belong to nodes.
func drawLine(grid [][]mapCell, x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for x != x1 || y != y1 {
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		if (x != x1 || y != y1) && grid[y][x].r == ' ' {
			grid[y][x] = mapCell{r: '·', style: &mapEdgeStyle}
		}
	}
}

func renderRow(b *strings.Builder, row []mapCell) {
	end := len(row)
	for end > 0 && row[end-1].r == ' ' {
		end--
	}
	var run strings.Builder
	var runStyle *lipgloss.Style
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runStyle != nil {
			b.WriteString(runStyle.Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}
	for _, c := range row[:end] {
		if c.style != runStyle {
			flush()
			runStyle = c.style
		}
		run.WriteRune(c.r)
	}
	flush()
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
