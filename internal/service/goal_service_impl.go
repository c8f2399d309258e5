package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/alexanderramin/goaltree/internal/projection"
	"github.com/alexanderramin/goaltree/internal/repository"
	"github.com/alexanderramin/goaltree/internal/tree"
	"github.com/google/uuid"
)

// Option configures the services in this package.
type Option func(*options)

type options struct {
	now          func() time.Time
	defaultColor string
}

// WithClock replaces time.Now for created and updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithDefaultColor sets the color given to new nodes.
func WithDefaultColor(color string) Option {
	return func(o *options) {
		if color != "" {
			o.defaultColor = color
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, defaultColor: domain.DefaultColor}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type goalService struct {
	nodes    NodeStore
	views    Views
	nav      Navigator
	observer UseCaseObserver
	options
}

func NewGoalService(nodes NodeStore, views Views, nav Navigator, observer UseCaseObserver, opts ...Option) GoalService {
	return &goalService{
		nodes:    nodes,
		views:    views,
		nav:      nav,
		observer: useCaseObserverOrNoop([]UseCaseObserver{observer}),
		options:  buildOptions(opts),
	}
}

// syncView waits until the projection has caught up with the store, so a
// read after a write sees that write. A tree integrity fault is returned
// together with the last good view.
func syncView(ctx context.Context, nodes NodeStore, views Views) (*projection.View, error) {
	u, err := views.WaitVersion(ctx, nodes.Current().Version)
	if err != nil {
		return nil, fmt.Errorf("waiting for view: %w", err)
	}
	return u.View, u.Err
}

// usableView is syncView for callers that can work from a stale view.
func usableView(ctx context.Context, nodes NodeStore, views Views) (*projection.View, error) {
	view, err := syncView(ctx, nodes, views)
	if view != nil && errors.Is(err, tree.ErrGraphIntegrity) {
		return view, nil
	}
	return view, err
}

func (s *goalService) SelectNode(ctx context.Context, id string) (err error) {
	done := track(ctx, s.observer, "select-node", map[string]any{"node_id": id})
	defer func() { done(err) }()

	view, err := usableView(ctx, s.nodes, s.views)
	if err != nil {
		return err
	}
	if !view.Reachable(id) {
		return fmt.Errorf("tree node %s: %w", id, repository.ErrNotFound)
	}
	s.nav.NavigateTo(&id)
	return nil
}

func (s *goalService) NavigateToRoot(ctx context.Context) {
	done := track(ctx, s.observer, "navigate-root", nil)
	s.nav.NavigateToRoot()
	done(nil)
}

// AddChild creates a pending node under parentID, or under the current
// navigation parent when parentID is nil.
func (s *goalService) AddChild(ctx context.Context, parentID *string, name, description string) (node *domain.Node, err error) {
	fields := map[string]any{}
	done := track(ctx, s.observer, "add-node", fields)
	defer func() { done(err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if parentID == nil {
		parentID = s.nav.Current()
	}
	if parentID != nil {
		if _, err := s.nodes.GetByID(ctx, *parentID); err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
		fields["parent_id"] = *parentID
	}

	now := s.now().UTC()
	n := domain.Node{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Status:      domain.StatusPending,
		ParentID:    parentID,
		Color:       s.defaultColor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	fields["node_id"] = n.ID
	if _, err := s.nodes.InsertOrReplace(n).Wait(ctx); err != nil {
		return nil, fmt.Errorf("adding node: %w", err)
	}
	if _, err := usableView(ctx, s.nodes, s.views); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *goalService) Get(ctx context.Context, id string) (*projection.Item, error) {
	view, err := usableView(ctx, s.nodes, s.views)
	if err != nil {
		return nil, err
	}
	item, ok := view.Get(id)
	if !ok {
		return nil, fmt.Errorf("tree node %s: %w", id, repository.ErrNotFound)
	}
	return &item, nil
}

func (s *goalService) UpdateNode(ctx context.Context, id string, patch NodePatch) (node *domain.Node, err error) {
	done := track(ctx, s.observer, "update-node", map[string]any{"node_id": id})
	defer func() { done(err) }()

	n, err := s.nodes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyPatch(n, patch); err != nil {
		return nil, err
	}
	return s.write(ctx, n)
}

func applyPatch(n *domain.Node, patch NodePatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return ErrEmptyName
		}
		n.Name = name
	}
	if patch.Description != nil {
		n.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		if _, err := domain.ParseNodeStatus(string(*patch.Status)); err != nil {
			return err
		}
		n.Status = *patch.Status
	}
	if patch.Color != nil {
		if !domain.ValidColor(*patch.Color) {
			return fmt.Errorf("%w %q (expected #RRGGBB)", ErrInvalidColor, *patch.Color)
		}
		n.Color = *patch.Color
	}
	if patch.ClearDueDate {
		n.DueDate = nil
	} else if patch.DueDate != nil {
		d := *patch.DueDate
		n.DueDate = &d
	}
	return nil
}

func (s *goalService) write(ctx context.Context, n *domain.Node) (*domain.Node, error) {
	n.UpdatedAt = s.now().UTC()
	if _, err := s.nodes.Update(*n).Wait(ctx); err != nil {
		return nil, fmt.Errorf("updating node: %w", err)
	}
	if _, err := usableView(ctx, s.nodes, s.views); err != nil {
		return nil, err
	}
	return n, nil
}

// ToggleStatus advances the node's status one step around
// pending, in progress and completed.
func (s *goalService) ToggleStatus(ctx context.Context, id string) (status domain.NodeStatus, err error) {
	fields := map[string]any{"node_id": id}
	done := track(ctx, s.observer, "toggle-status", fields)
	defer func() { done(err) }()

	n, err := s.nodes.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	n.Status = n.Status.Next()
	fields["status"] = string(n.Status)
	if _, err := s.write(ctx, n); err != nil {
		return "", err
	}
	return n.Status, nil
}

// DeleteNode removes the node and its whole subtree. If the navigation
// parent was inside it, navigation returns to the root level.
func (s *goalService) DeleteNode(ctx context.Context, id string) (removed []string, err error) {
	fields := map[string]any{"node_id": id}
	done := track(ctx, s.observer, "delete-node", fields)
	defer func() { done(err) }()

	if _, err := s.nodes.GetByID(ctx, id); err != nil {
		return nil, err
	}
	removed, err = s.nodes.DeleteSubtree(id).Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("deleting subtree: %w", err)
	}
	fields["removed"] = len(removed)
	if cur := s.nav.Current(); cur != nil && slices.Contains(removed, *cur) {
		s.nav.NavigateToRoot()
	}
	if _, err := usableView(ctx, s.nodes, s.views); err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *goalService) Clear(ctx context.Context) (count int, err error) {
	fields := map[string]any{}
	done := track(ctx, s.observer, "clear", fields)
	defer func() { done(err) }()

	removed, err := s.nodes.DeleteAll().Wait(ctx)
	if err != nil {
		return 0, fmt.Errorf("clearing nodes: %w", err)
	}
	fields["removed"] = len(removed)
	s.nav.NavigateToRoot()
	if _, err := usableView(ctx, s.nodes, s.views); err != nil {
		return 0, err
	}
	return len(removed), nil
}

// Items lists the current level. On a tree integrity fault the items of
// the last good view are returned together with the error.
func (s *goalService) Items(ctx context.Context) ([]projection.Item, error) {
	screen, err := s.Screen(ctx)
	if err != nil {
		return nil, err
	}
	return screen.Items, screen.Fault
}

func (s *goalService) Screen(ctx context.Context) (*Screen, error) {
	view, err := syncView(ctx, s.nodes, s.views)
	if view == nil {
		return nil, err
	}
	screen := &Screen{Version: view.Version}
	if errors.Is(err, tree.ErrGraphIntegrity) {
		screen.Fault = err
	} else if err != nil {
		return nil, err
	}

	parent := s.nav.Current()
	if parent != nil && !view.Reachable(*parent) {
		s.nav.NavigateToRoot()
		parent = nil
	}
	if parent != nil {
		item, _ := view.Get(*parent)
		screen.Parent = &item
		path, err := view.Path(*parent)
		if err != nil {
			return nil, err
		}
		screen.Path = path
	}
	screen.Items = view.Children(parent)
	return screen, nil
}

func (s *goalService) View(ctx context.Context) (*projection.View, error) {
	return syncView(ctx, s.nodes, s.views)
}
