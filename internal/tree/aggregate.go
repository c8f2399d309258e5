package tree

import "github.com/alexanderramin/goaltree/internal/domain"

// Aggregates holds the derived values of every node in a snapshot.
type Aggregates struct {
	Progress    map[string]float64
	Descendants map[string]int
}

type visitState uint8

const (
	unvisited visitState = iota
	onStack
	done
)

type frame struct {
	id   string
	next int
}

// Compute indexes nodes and evaluates every subtree exactly once.
func Compute(nodes []domain.Node) (*Aggregates, error) {
	return NewIndex(nodes).Aggregate()
}

// Aggregate runs one post-order pass over the whole snapshot. Each
// node's progress is the mean of its children's progress, or its leaf
// status value when it has none; its descendant count is the sum of
// 1 + count over its children.
func (ix *Index) Aggregate() (*Aggregates, error) {
	agg := newAggregates(ix.Len())
	state := make(map[string]visitState, ix.Len())
	for i := range ix.nodes {
		id := ix.nodes[i].ID
		if state[id] == done {
			continue
		}
		if err := ix.postOrder(id, state, agg); err != nil {
			return nil, err
		}
	}
	return agg, nil
}

// Progress returns the completion percentage of node within nodes. A
// leaf maps its own status to 0, 50 or 100. A node with children takes
// the arithmetic mean of its direct children's progress and ignores its
// own status. Only node's subtree is visited.
func Progress(node domain.Node, nodes []domain.Node) (float64, error) {
	ix := NewIndex(nodes)
	if len(ix.Children(node.ID)) == 0 {
		return node.Status.LeafProgress(), nil
	}
	agg, err := ix.subtree(node.ID)
	if err != nil {
		return 0, err
	}
	return agg.Progress[node.ID], nil
}

// DescendantCount returns the number of nodes transitively below id.
func DescendantCount(id string, nodes []domain.Node) (int, error) {
	agg, err := NewIndex(nodes).subtree(id)
	if err != nil {
		return 0, err
	}
	return agg.Descendants[id], nil
}

func (ix *Index) subtree(id string) (*Aggregates, error) {
	agg := newAggregates(0)
	if err := ix.postOrder(id, make(map[string]visitState), agg); err != nil {
		return nil, err
	}
	return agg, nil
}

func newAggregates(size int) *Aggregates {
	return &Aggregates{
		Progress:    make(map[string]float64, size),
		Descendants: make(map[string]int, size),
	}
}

// postOrder evaluates start and everything below it that is not yet
// done. Reaching a node that is still on the stack means the parent
// links loop.
func (ix *Index) postOrder(start string, state map[string]visitState, agg *Aggregates) error {
	stack := []frame{{id: start}}
	state[start] = onStack

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		kids := ix.childrenOf[top.id]
		if top.next < len(kids) {
			child := kids[top.next]
			top.next++
			switch state[child] {
			case onStack:
				return cycleAt(child, stack)
			case done:
				continue
			}
			state[child] = onStack
			stack = append(stack, frame{id: child})
			continue
		}

		ix.settle(top.id, agg)
		state[top.id] = done
		stack = stack[:len(stack)-1]
	}
	return nil
}

// settle computes id's values from its already settled children.
func (ix *Index) settle(id string, agg *Aggregates) {
	kids := ix.childrenOf[id]
	if len(kids) == 0 {
		agg.Progress[id] = ix.status(id).LeafProgress()
		agg.Descendants[id] = 0
		return
	}
	var sum float64
	var count int
	for _, c := range kids {
		sum += agg.Progress[c]
		count += 1 + agg.Descendants[c]
	}
	agg.Progress[id] = sum / float64(len(kids))
	agg.Descendants[id] = count
}

func cycleAt(id string, stack []frame) *CycleError {
	path := make([]string, 0, len(stack)+1)
	for _, f := range stack {
		path = append(path, f.id)
	}
	return &CycleError{NodeID: id, Path: append(path, id)}
}
