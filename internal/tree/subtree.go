package tree

import "github.com/alexanderramin/goaltree/internal/domain"

// SubtreeIDs returns id followed by all of its transitive descendants in
// pre-order. An id absent from nodes yields just itself. Meeting a node
// twice can only happen through a parent cycle and returns
// ErrGraphIntegrity.
func SubtreeIDs(id string, nodes []domain.Node) ([]string, error) {
	return NewIndex(nodes).Subtree(id)
}

// Subtree is SubtreeIDs over an existing index.
func (ix *Index) Subtree(id string) ([]string, error) {
	var out []string
	visited := map[string]bool{id: true}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)

		kids := ix.childrenOf[cur]
		// Push in reverse so children pop in snapshot order.
		for i := len(kids) - 1; i >= 0; i-- {
			c := kids[i]
			if visited[c] {
				return nil, &CycleError{NodeID: c, Path: append(out, c)}
			}
			visited[c] = true
			stack = append(stack, c)
		}
	}
	return out, nil
}

// WouldCycle reports whether giving node id the parent parentID would
// close a loop: the proposed parent is id itself or one of id's
// descendants. A parent chain that already loops also counts.
func WouldCycle(nodes []domain.Node, id string, parentID *string) bool {
	if parentID == nil {
		return false
	}
	if *parentID == id {
		return true
	}
	ix := NewIndex(nodes)
	seen := map[string]bool{}
	cur := *parentID
	for {
		if cur == id {
			return true
		}
		if seen[cur] {
			return true
		}
		seen[cur] = true
		n, ok := ix.Node(cur)
		if !ok || n.ParentID == nil {
			return false
		}
		cur = *n.ParentID
	}
}
