// Package projection turns node snapshots into the ordered, progress
// annotated lists the presentation layer shows for one parent at a time.
package projection

import (
	"slices"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/alexanderramin/goaltree/internal/store"
	"github.com/alexanderramin/goaltree/internal/tree"
)

// Item is a node paired with its derived values.
type Item struct {
	Node            domain.Node
	Progress        float64
	DescendantCount int
}

// View is the derived form of one snapshot. Aggregates are computed once
// when the view is built; any number of parent queries reuse them.
type View struct {
	Version uint64
	nodes   []domain.Node
	index   *tree.Index
	agg     *tree.Aggregates
}

// Derive builds a View, failing with tree.ErrGraphIntegrity when the
// snapshot's parent links loop.
func Derive(snap store.Snapshot) (*View, error) {
	ix := tree.NewIndex(snap.Nodes)
	agg, err := ix.Aggregate()
	if err != nil {
		return nil, err
	}
	return &View{Version: snap.Version, nodes: snap.Nodes, index: ix, agg: agg}, nil
}

// Project is a one-shot Derive followed by Children.
func Project(nodes []domain.Node, parent *string) ([]Item, error) {
	v, err := Derive(store.Snapshot{Nodes: nodes})
	if err != nil {
		return nil, err
	}
	return v.Children(parent), nil
}

func emptyView() *View {
	v, _ := Derive(store.Snapshot{})
	return v
}

// Len returns the number of nodes in the snapshot.
func (v *View) Len() int { return v.index.Len() }

// Nodes returns the underlying snapshot. It must not be modified.
func (v *View) Nodes() []domain.Node { return v.nodes }

// Children lists the direct children of parent, or the roots when parent
// is nil, ordered by creation time with snapshot order breaking ties.
// Children of a node missing from the snapshot are orphans and yield an
// empty list.
func (v *View) Children(parent *string) []Item {
	var ids []string
	if parent == nil {
		ids = v.index.Roots()
	} else {
		if !v.index.Has(*parent) {
			return []Item{}
		}
		ids = v.index.Children(*parent)
	}

	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, v.item(id))
	}
	slices.SortStableFunc(items, func(a, b Item) int {
		return a.Node.CreatedAt.Compare(b.Node.CreatedAt)
	})
	return items
}

// Get returns one node with its derived values.
func (v *View) Get(id string) (Item, bool) {
	if !v.index.Has(id) {
		return Item{}, false
	}
	return v.item(id), true
}

// Path returns the breadcrumb from the root down to id, inclusive. A node
// under a dangling parent yields a path that starts at the orphan.
func (v *View) Path(id string) ([]Item, error) {
	if !v.index.Has(id) {
		return nil, nil
	}
	ancestors, err := v.index.Ancestors(id)
	if err != nil {
		return nil, err
	}
	path := make([]Item, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		path = append(path, v.item(ancestors[i]))
	}
	return append(path, v.item(id)), nil
}

// Reachable reports whether id hangs under a root. Orphans and their
// descendants are not reachable.
func (v *View) Reachable(id string) bool {
	if !v.index.Has(id) {
		return false
	}
	ancestors, err := v.index.Ancestors(id)
	if err != nil {
		return false
	}
	top := id
	if len(ancestors) > 0 {
		top = ancestors[len(ancestors)-1]
	}
	n, _ := v.index.Node(top)
	return n.IsRoot()
}

func (v *View) item(id string) Item {
	n, _ := v.index.Node(id)
	return Item{
		Node:            n,
		Progress:        v.agg.Progress[id],
		DescendantCount: v.agg.Descendants[id],
	}
}
