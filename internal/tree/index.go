package tree

import "github.com/alexanderramin/goaltree/internal/domain"

// Index is an arena view of a snapshot: nodes are addressed by id and
// children are resolved through childrenOf instead of pointers.
type Index struct {
	nodes      []domain.Node
	byID       map[string]int
	childrenOf map[string][]string
	roots      []string
}

// NewIndex builds the id table and the parent -> children lists in one
// pass. Child lists keep snapshot order. When an id repeats, the first
// occurrence wins.
func NewIndex(nodes []domain.Node) *Index {
	ix := &Index{
		nodes:      nodes,
		byID:       make(map[string]int, len(nodes)),
		childrenOf: make(map[string][]string),
	}
	for i := range nodes {
		n := &nodes[i]
		if _, dup := ix.byID[n.ID]; dup {
			continue
		}
		ix.byID[n.ID] = i
		if n.ParentID == nil {
			ix.roots = append(ix.roots, n.ID)
			continue
		}
		ix.childrenOf[*n.ParentID] = append(ix.childrenOf[*n.ParentID], n.ID)
	}
	return ix
}

// Len returns the number of distinct nodes.
func (ix *Index) Len() int { return len(ix.byID) }

// Has reports whether id is part of the snapshot.
func (ix *Index) Has(id string) bool {
	_, ok := ix.byID[id]
	return ok
}

// Node returns the node stored under id.
func (ix *Index) Node(id string) (domain.Node, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return domain.Node{}, false
	}
	return ix.nodes[i], true
}

// Children returns the ids whose parent is id. The slice is shared with
// the index and must not be modified.
func (ix *Index) Children(id string) []string {
	return ix.childrenOf[id]
}

// Roots returns the ids of nodes without a parent, in snapshot order.
func (ix *Index) Roots() []string {
	return ix.roots
}

// Ancestors returns the chain of ancestor ids of id, nearest first. The
// walk stops at a root or at a dangling parent reference.
func (ix *Index) Ancestors(id string) ([]string, error) {
	var chain []string
	seen := map[string]bool{id: true}
	cur, ok := ix.Node(id)
	for ok && cur.ParentID != nil {
		pid := *cur.ParentID
		if seen[pid] {
			return nil, &CycleError{NodeID: pid, Path: append([]string{id}, chain...)}
		}
		seen[pid] = true
		cur, ok = ix.Node(pid)
		if !ok {
			break
		}
		chain = append(chain, pid)
	}
	return chain, nil
}

func (ix *Index) status(id string) domain.NodeStatus {
	if n, ok := ix.Node(id); ok {
		return n.Status
	}
	return domain.StatusPending
}
