package tree

import (
	"math/rand"
	"testing"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtreeIDs_Chain(t *testing.T) {
	nodes := []domain.Node{
		node("A", "", domain.StatusPending),
		node("B", "A", domain.StatusPending),
		node("C", "B", domain.StatusCompleted),
		node("X", "", domain.StatusPending),
	}

	ids, err := SubtreeIDs("A", nodes)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, ids)
}

func TestSubtreeIDs_LeafIsJustItself(t *testing.T) {
	nodes := []domain.Node{node("A", "", domain.StatusPending)}
	ids, err := SubtreeIDs("A", nodes)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids)

	ids, err = SubtreeIDs("ghost", nodes)
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost"}, ids)
}

func TestSubtreeIDs_PreOrderKeepsSiblingOrder(t *testing.T) {
	nodes := []domain.Node{
		node("R", "", domain.StatusPending),
		node("a", "R", domain.StatusPending),
		node("b", "R", domain.StatusPending),
		node("a1", "a", domain.StatusPending),
	}
	ids, err := SubtreeIDs("R", nodes)
	require.NoError(t, err)
	assert.Equal(t, []string{"R", "a", "a1", "b"}, ids)
}

func TestSubtreeIDs_ExactlySubtree(t *testing.T) {
	nodes := randomForest(rand.New(rand.NewSource(99)), 120)
	target := nodes[0].ID

	ids, err := SubtreeIDs(target, nodes)
	require.NoError(t, err)

	removed := make(map[string]bool, len(ids))
	for _, id := range ids {
		removed[id] = true
	}
	count, err := DescendantCount(target, nodes)
	require.NoError(t, err)
	assert.Len(t, ids, count+1)

	for _, n := range nodes {
		if removed[n.ID] {
			continue
		}
		// Survivors never point into the removed set.
		if n.ParentID != nil {
			assert.False(t, removed[*n.ParentID], "%s left dangling under %s", n.ID, *n.ParentID)
		}
	}
}

func TestSubtreeIDs_CycleIsFault(t *testing.T) {
	nodes := []domain.Node{
		node("A", "C", domain.StatusPending),
		node("B", "A", domain.StatusPending),
		node("C", "B", domain.StatusPending),
	}
	_, err := SubtreeIDs("A", nodes)
	assert.ErrorIs(t, err, ErrGraphIntegrity)
}

func TestWouldCycle(t *testing.T) {
	nodes := []domain.Node{
		node("A", "", domain.StatusPending),
		node("B", "A", domain.StatusPending),
		node("C", "B", domain.StatusPending),
	}
	a := "A"
	c := "C"
	missing := "zzz"

	assert.False(t, WouldCycle(nodes, "new", &c))
	assert.False(t, WouldCycle(nodes, "A", nil))
	assert.False(t, WouldCycle(nodes, "A", &missing))
	assert.True(t, WouldCycle(nodes, "A", &a))
	assert.True(t, WouldCycle(nodes, "A", &c))
}

func TestIndex_Ancestors(t *testing.T) {
	nodes := []domain.Node{
		node("A", "", domain.StatusPending),
		node("B", "A", domain.StatusPending),
		node("C", "B", domain.StatusPending),
		node("O", "gone", domain.StatusPending),
	}
	ix := NewIndex(nodes)

	chain, err := ix.Ancestors("C")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, chain)

	chain, err = ix.Ancestors("O")
	require.NoError(t, err)
	assert.Empty(t, chain)

	assert.Equal(t, []string{"A"}, ix.Roots())
	assert.Equal(t, 4, ix.Len())
}

func TestIndex_AncestorsCycle(t *testing.T) {
	ix := NewIndex([]domain.Node{
		node("A", "B", domain.StatusPending),
		node("B", "A", domain.StatusPending),
	})
	_, err := ix.Ancestors("A")
	assert.ErrorIs(t, err, ErrGraphIntegrity)
}
