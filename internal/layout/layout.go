// Package layout places nodes on the mind-map canvas.
package layout

import (
	"math"

	"github.com/alexanderramin/goaltree/internal/domain"
)

// Canvas is the drawing area; NodeRadius is the radius of every node disc.
type Canvas struct {
	Width      float64
	Height     float64
	NodeRadius float64
}

// Point is a canvas position.
type Point struct {
	X, Y float64
}

// Circle spreads n nodes evenly around the canvas centre on a ring of
// radius min(w, h)/3, starting at angle 0 and going counter-clockwise in
// screen coordinates.
func Circle(n int, c Canvas) []Point {
	points := make([]Point, n)
	if n == 0 {
		return points
	}
	cx, cy := c.Width/2, c.Height/2
	r := math.Min(c.Width, c.Height) / 3
	for i := range n {
		angle := 2 * math.Pi * float64(i) / float64(n)
		points[i] = Point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return points
}

// Arrange returns a position for every node: the stored one when the node
// has been placed, otherwise its slot on the circle.
func Arrange(nodes []domain.Node, c Canvas) []Point {
	points := Circle(len(nodes), c)
	for i, n := range nodes {
		if n.X != 0 || n.Y != 0 {
			points[i] = Point{X: n.X, Y: n.Y}
		}
	}
	return points
}

// HitTest returns the first node whose disc contains (x, y).
func HitTest(nodes []domain.Node, x, y float64, c Canvas) (domain.Node, bool) {
	for _, n := range nodes {
		if math.Hypot(n.X-x, n.Y-y) <= c.NodeRadius {
			return n, true
		}
	}
	return domain.Node{}, false
}

// Drag moves a node by (dx, dy), keeping its disc inside the canvas.
func Drag(p Point, dx, dy float64, c Canvas) Point {
	return Clamp(Point{X: p.X + dx, Y: p.Y + dy}, c)
}

// Clamp pulls p back into [r, w-r] x [r, h-r].
func Clamp(p Point, c Canvas) Point {
	r := c.NodeRadius
	return Point{
		X: math.Max(r, math.Min(p.X, c.Width-r)),
		Y: math.Max(r, math.Min(p.Y, c.Height-r)),
	}
}
