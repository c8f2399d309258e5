package service

import (
	"testing"

	"github.com/alexanderramin/goaltree/internal/layout"
	"github.com/alexanderramin/goaltree/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapService_LayoutSpreadsUnplacedNodes(t *testing.T) {
	h := newHarness(t)
	ctx := testCtx(t)
	for _, name := range []string{"A", "B", "C", "D"} {
		_, err := h.goals.AddChild(ctx, nil, name, "")
		require.NoError(t, err)
	}

	placements, err := h.maps.Layout(ctx)
	require.NoError(t, err)
	require.Len(t, placements, 4)
	assert.Equal(t, "A", placements[0].Item.Node.Name)
	assert.InDelta(t, 650.0, placements[0].At.X, 1e-9)
	assert.InDelta(t, 300.0, placements[0].At.Y, 1e-9)
	assert.InDelta(t, 250.0, placements[2].At.X, 1e-9)
}

func TestMapService_MoveClampsAndPersists(t *testing.T) {
	h := newHarness(t)
	ctx := testCtx(t)
	n, err := h.goals.AddChild(ctx, nil, "A", "")
	require.NoError(t, err)

	moved, err := h.maps.Move(ctx, n.ID, 5000, 10)
	require.NoError(t, err)
	assert.Equal(t, 840.0, moved.X)
	assert.Equal(t, 60.0, moved.Y)

	placements, err := h.maps.Layout(ctx)
	require.NoError(t, err)
	require.Len(t, placements, 1)
	assert.Equal(t, layout.Point{X: 840, Y: 60}, placements[0].At)
}

func TestMapService_DragStartsFromDrawnPosition(t *testing.T) {
	h := newHarness(t)
	ctx := testCtx(t)
	n, err := h.goals.AddChild(ctx, nil, "A", "")
	require.NoError(t, err)

	// a single node sits at angle 0: (650, 300)
	dragged, err := h.maps.Drag(ctx, n.ID, 10, -20)
	require.NoError(t, err)
	assert.InDelta(t, 660.0, dragged.X, 1e-9)
	assert.InDelta(t, 280.0, dragged.Y, 1e-9)

	dragged, err = h.maps.Drag(ctx, n.ID, 1000, 0)
	require.NoError(t, err)
	assert.InDelta(t, 840.0, dragged.X, 1e-9)

	_, err = h.maps.Drag(ctx, "missing", 1, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMapService_HitTest(t *testing.T) {
	h := newHarness(t)
	ctx := testCtx(t)
	n, err := h.goals.AddChild(ctx, nil, "A", "")
	require.NoError(t, err)

	hit, err := h.maps.HitTest(ctx, 640, 310)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, n.ID, hit.Item.Node.ID)

	hit, err = h.maps.HitTest(ctx, 100, 100)
	require.NoError(t, err)
	assert.Nil(t, hit)
}

func TestMapService_FollowsNavigation(t *testing.T) {
	h := newHarness(t)
	ctx := testCtx(t)
	a, err := h.goals.AddChild(ctx, nil, "A", "")
	require.NoError(t, err)
	_, err = h.goals.AddChild(ctx, &a.ID, "child", "")
	require.NoError(t, err)

	require.NoError(t, h.goals.SelectNode(ctx, a.ID))
	placements, err := h.maps.Layout(ctx)
	require.NoError(t, err)
	require.Len(t, placements, 1)
	assert.Equal(t, "child", placements[0].Item.Node.Name)
	assert.Equal(t, testCanvas, h.maps.Canvas())
}
