package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/alexanderramin/goaltree/internal/layout"
	"github.com/alexanderramin/goaltree/internal/repository"
)

type mapService struct {
	goals    *goalService
	canvas   layout.Canvas
	observer UseCaseObserver
}

// NewMapService places the current navigation level on a canvas. Nodes
// that were never dragged are spread on a circle; dragged nodes keep
// their stored position.
func NewMapService(nodes NodeStore, views Views, nav Navigator, canvas layout.Canvas, observer UseCaseObserver, opts ...Option) MapService {
	obs := useCaseObserverOrNoop([]UseCaseObserver{observer})
	return &mapService{
		goals:    &goalService{nodes: nodes, views: views, nav: nav, observer: obs, options: buildOptions(opts)},
		canvas:   canvas,
		observer: obs,
	}
}

func (s *mapService) Canvas() layout.Canvas { return s.canvas }

func (s *mapService) Layout(ctx context.Context) ([]Placement, error) {
	screen, err := s.goals.Screen(ctx)
	if err != nil {
		return nil, err
	}
	nodes := make([]domain.Node, len(screen.Items))
	for i, item := range screen.Items {
		nodes[i] = item.Node
	}
	points := layout.Arrange(nodes, s.canvas)
	placements := make([]Placement, len(screen.Items))
	for i, item := range screen.Items {
		placements[i] = Placement{Item: item, At: points[i]}
	}
	return placements, nil
}

// HitTest returns the node drawn under (x, y), or nil when there is none.
func (s *mapService) HitTest(ctx context.Context, x, y float64) (*Placement, error) {
	placements, err := s.Layout(ctx)
	if err != nil {
		return nil, err
	}
	placed := make([]domain.Node, len(placements))
	for i, p := range placements {
		placed[i] = domain.Node{ID: p.Item.Node.ID, X: p.At.X, Y: p.At.Y}
	}
	hit, ok := layout.HitTest(placed, x, y, s.canvas)
	if !ok {
		return nil, nil
	}
	for i := range placements {
		if placements[i].Item.Node.ID == hit.ID {
			return &placements[i], nil
		}
	}
	return nil, nil
}

// Move stores an absolute position, clamped to the canvas.
func (s *mapService) Move(ctx context.Context, id string, x, y float64) (node *domain.Node, err error) {
	done := track(ctx, s.observer, "move-node", map[string]any{"node_id": id})
	defer func() { done(err) }()

	n, err := s.goals.nodes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	at := layout.Clamp(layout.Point{X: x, Y: y}, s.canvas)
	n.X, n.Y = at.X, at.Y
	return s.goals.write(ctx, n)
}

// Drag moves a node by an offset from where it is currently drawn.
func (s *mapService) Drag(ctx context.Context, id string, dx, dy float64) (node *domain.Node, err error) {
	done := track(ctx, s.observer, "drag-node", map[string]any{"node_id": id})
	defer func() { done(err) }()

	placements, err := s.Layout(ctx)
	if err != nil {
		return nil, err
	}
	var from *layout.Point
	for _, p := range placements {
		if p.Item.Node.ID == id {
			at := p.At
			from = &at
			break
		}
	}
	if from == nil {
		return nil, fmt.Errorf("tree node %s is not on the current map: %w", id, repository.ErrNotFound)
	}

	n, err := s.goals.nodes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	at := layout.Drag(*from, dx, dy, s.canvas)
	n.X, n.Y = at.X, at.Y
	return s.goals.write(ctx, n)
}
