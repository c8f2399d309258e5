package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/alexanderramin/goaltree/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// browseDriver wraps teatest.Driver with access to the browser's state.
type browseDriver struct {
	*teatest.Driver
}

func newBrowseDriver(t *testing.T, app *App) *browseDriver {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app.Goals.NavigateToRoot(ctx)
	d := teatest.New(t, newBrowseModel(ctx, app), teatest.WithSize(110, 40))
	d.DrainInit()
	return &browseDriver{Driver: d}
}

func (d *browseDriver) model() *browseModel {
	return d.Model.(*browseModel)
}

func (d *browseDriver) itemNames() []string {
	m := d.model()
	if m.screen == nil {
		return nil
	}
	return pathNames(m.screen.Items)
}

func (d *browseDriver) selectedName() string {
	if item := d.model().selected(); item != nil {
		return item.Node.Name
	}
	return ""
}

func TestBrowse_ShowsRootsAndDrillsDown(t *testing.T) {
	env := testApp(t)
	career := seedGoal(t, env.app, nil, "Career")
	seedGoal(t, env.app, &career, "Learn Go")
	seedGoal(t, env.app, nil, "Health")

	d := newBrowseDriver(t, env.app)
	assert.Equal(t, []string{"Career", "Health"}, d.itemNames())
	assert.True(t, d.ViewContains("GOALTREE", "Root", "Career", "Health"))

	d.PressEnter()
	assert.Equal(t, []string{"Learn Go"}, d.itemNames())
	assert.True(t, d.ViewContains("Career", "Learn Go", "1 sub-goals"))

	d.PressBackspace()
	assert.Equal(t, []string{"Career", "Health"}, d.itemNames())
	assert.Equal(t, "Career", d.selectedName(), "coming back keeps the parent selected")
}

func TestBrowse_CursorMovement(t *testing.T) {
	env := testApp(t)
	seedGoal(t, env.app, nil, "A")
	seedGoal(t, env.app, nil, "B")

	d := newBrowseDriver(t, env.app)
	assert.Equal(t, "A", d.selectedName())
	d.PressDown()
	assert.Equal(t, "B", d.selectedName())
	d.PressDown()
	assert.Equal(t, "B", d.selectedName())
	d.PressUp()
	d.PressUp()
	assert.Equal(t, "A", d.selectedName())
}

func TestBrowse_ToggleRollsUpToParent(t *testing.T) {
	env := testApp(t)
	a := seedGoal(t, env.app, nil, "A")
	seedGoal(t, env.app, &a, "B")

	d := newBrowseDriver(t, env.app)
	d.PressEnter()
	require.Equal(t, []string{"B"}, d.itemNames())

	d.PressSpace()
	assert.Equal(t, domain.StatusInProgress, d.model().screen.Items[0].Node.Status)
	assert.True(t, d.ViewContains("In Progress"))

	d.PressKey('t')
	assert.Equal(t, domain.StatusCompleted, d.model().screen.Items[0].Node.Status)

	d.PressKey('h')
	require.Equal(t, []string{"A"}, d.itemNames())
	assert.InDelta(t, 100.0, d.model().screen.Items[0].Progress, 1e-9)
	assert.True(t, d.ViewContains("100%"))
}

func TestBrowse_DeleteAsksFirst(t *testing.T) {
	env := testApp(t)
	a := seedGoal(t, env.app, nil, "A")
	seedGoal(t, env.app, &a, "B")

	d := newBrowseDriver(t, env.app)
	d.PressKey('d')
	assert.True(t, d.ViewContains(`Delete "A" and 1 sub-goals? (y/n)`))

	d.PressKey('n')
	assert.True(t, d.ViewContains("Delete cancelled."))
	assert.Len(t, env.store.Current().Nodes, 2)

	d.PressKey('d')
	d.PressKey('y')
	assert.True(t, d.ViewContains("Removed 2 goals", "No goals here yet."))
	assert.Empty(t, env.store.Current().Nodes)
}

func TestBrowse_AddThroughForm(t *testing.T) {
	env := testApp(t)
	a := seedGoal(t, env.app, nil, "Career")

	d := newBrowseDriver(t, env.app)
	d.PressEnter()
	d.PressKey('a')
	require.NotNil(t, d.model().form)
	assert.True(t, d.ViewContains("New sub-goal of Career"))

	d.Type("Read Go book")
	d.PressEnter()
	d.Type("ch 1")
	d.PressEnter()

	assert.Nil(t, d.model().form)
	assert.True(t, d.ViewContains("Added Read Go book"))
	assert.Equal(t, []string{"Read Go book"}, d.itemNames())

	item := d.model().screen.Items[0]
	require.NotNil(t, item.Node.ParentID)
	assert.Equal(t, a, *item.Node.ParentID)
	assert.Equal(t, "ch 1", item.Node.Description)
}

func TestBrowse_AddCancelledWithEsc(t *testing.T) {
	env := testApp(t)

	d := newBrowseDriver(t, env.app)
	d.PressKey('a')
	d.Type("Never mind")
	d.PressEsc()

	assert.Nil(t, d.model().form)
	assert.True(t, d.ViewContains("Cancelled."))
	assert.Empty(t, env.store.Current().Nodes)
}

func TestBrowse_MapModeAndNudge(t *testing.T) {
	env := testApp(t)
	a := seedGoal(t, env.app, nil, "Career")

	d := newBrowseDriver(t, env.app)
	d.PressKey('m')
	assert.Equal(t, modeMap, d.model().mode)
	require.Len(t, d.model().placements, 1)
	assert.True(t, d.ViewContains("○ Career"))

	before := d.model().placements[0].At
	d.PressKey('L')
	assert.True(t, d.ViewContains("Moved Career"))

	n, err := env.store.GetByID(context.Background(), a)
	require.NoError(t, err)
	assert.InDelta(t, before.X+nudgeStep, n.X, 1e-9)
	assert.InDelta(t, before.Y, n.Y, 1e-9)

	d.PressKey('m')
	assert.Equal(t, modeList, d.model().mode)
}

func TestBrowse_NudgeIgnoredInListMode(t *testing.T) {
	env := testApp(t)
	a := seedGoal(t, env.app, nil, "Career")

	d := newBrowseDriver(t, env.app)
	d.PressKey('L')

	n, err := env.store.GetByID(context.Background(), a)
	require.NoError(t, err)
	assert.Zero(t, n.X)
}

func TestBrowse_HelpAndQuit(t *testing.T) {
	env := testApp(t)
	d := newBrowseDriver(t, env.app)

	assert.True(t, d.ViewContains("No goals here yet. Press a to add one."))
	d.PressKey('?')
	assert.True(t, d.ViewContains("list/map", "move on map"))

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestBrowse_InfoPane(t *testing.T) {
	env := testApp(t)
	a := seedGoal(t, env.app, nil, "Career")
	seedGoal(t, env.app, &a, "Learn Go")
	_, err := executeCmd(t, env.app, "edit", a, "--description", "Senior by next year")
	require.NoError(t, err)

	d := newBrowseDriver(t, env.app)
	d.PressKey('i')
	require.True(t, d.model().infoOpen)
	assert.True(t, d.ViewContains("CAREER", "Senior by next year", "SUBGOALS", "Learn Go"))

	d.PressKey('j')
	assert.True(t, d.model().infoOpen, "scroll keys stay in the pane")

	d.PressEsc()
	assert.False(t, d.model().infoOpen)
	assert.Equal(t, []string{"Career"}, d.itemNames())
}
