package projection

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/alexanderramin/goaltree/internal/repository"
	"github.com/alexanderramin/goaltree/internal/store"
	"github.com/alexanderramin/goaltree/internal/testutil"
	"github.com/alexanderramin/goaltree/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 5 * time.Second

type chanSource struct {
	ch chan store.Snapshot
}

func (s chanSource) Subscribe(context.Context) <-chan store.Snapshot { return s.ch }

func nextUpdate(t *testing.T, ch <-chan Update, version uint64) Update {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case u, ok := <-ch:
			require.True(t, ok, "pipeline closed early")
			if u.Version >= version {
				return u
			}
		case <-deadline:
			t.Fatalf("no update with version >= %d", version)
		}
	}
}

func TestPipeline_KeepsLastGoodViewOnFault(t *testing.T) {
	src := chanSource{ch: make(chan store.Snapshot)}
	p := NewPipeline(src)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	updates := p.Subscribe(ctx)

	good := testutil.NewTestNode("good", testutil.WithStatus(domain.StatusCompleted))
	src.ch <- store.Snapshot{Version: 1, Nodes: testutil.Values(good)}
	u := nextUpdate(t, updates, 1)
	require.NoError(t, u.Err)
	assert.Equal(t, uint64(1), u.View.Version)

	a := testutil.NewTestNode("A", testutil.WithID("a"), testutil.WithParent("b"))
	b := testutil.NewTestNode("B", testutil.WithID("b"), testutil.WithParent("a"))
	src.ch <- store.Snapshot{Version: 2, Nodes: testutil.Values(good, a, b)}
	u = nextUpdate(t, updates, 2)
	assert.ErrorIs(t, u.Err, tree.ErrGraphIntegrity)
	assert.Equal(t, uint64(1), u.View.Version, "last good view stays published")

	view, err := p.Current()
	assert.ErrorIs(t, err, tree.ErrGraphIntegrity)
	assert.Len(t, view.Children(nil), 1)

	src.ch <- store.Snapshot{Version: 3, Nodes: testutil.Values(good)}
	u = nextUpdate(t, updates, 3)
	assert.NoError(t, u.Err, "stream recovers after the fault")
	assert.Equal(t, uint64(3), u.View.Version)

	close(src.ch)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(waitTimeout):
		t.Fatal("Run did not return after the source closed")
	}
	_, ok := <-updates
	assert.False(t, ok)
}

func TestPipeline_FollowsStore(t *testing.T) {
	s := store.New(repository.NewSQLiteNodeRepo(testutil.NewTestDB(t)))
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Close)

	p := NewPipeline(s)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	a := testutil.NewTestNode("A")
	b := testutil.NewTestNode("B", testutil.WithParent(a.ID), testutil.WithStatus(domain.StatusCompleted))
	c := testutil.NewTestNode("C", testutil.WithParent(a.ID))
	for _, n := range []*domain.Node{a, b, c} {
		_, err := s.InsertOrReplace(*n).Wait(ctx)
		require.NoError(t, err)
	}

	wctx, wcancel := context.WithTimeout(ctx, waitTimeout)
	defer wcancel()
	u, err := p.WaitVersion(wctx, s.Current().Version)
	require.NoError(t, err)
	require.NoError(t, u.Err)

	roots := u.View.Children(nil)
	require.Len(t, roots, 1)
	assert.InDelta(t, 50.0, roots[0].Progress, 1e-9)
	assert.Equal(t, 2, roots[0].DescendantCount)

	_, err = s.DeleteSubtree(a.ID).Wait(ctx)
	require.NoError(t, err)
	u, err = p.WaitVersion(wctx, s.Current().Version)
	require.NoError(t, err)
	assert.Zero(t, u.View.Len())
}

func TestPipeline_CurrentBeforeFirstSnapshot(t *testing.T) {
	p := NewPipeline(chanSource{ch: make(chan store.Snapshot)})
	view, err := p.Current()
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Empty(t, view.Children(nil))
}
