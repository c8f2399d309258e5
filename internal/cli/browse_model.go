package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/goaltree/internal/cli/formatter"
	"github.com/alexanderramin/goaltree/internal/projection"
	"github.com/alexanderramin/goaltree/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type browseMode int

const (
	modeList browseMode = iota
	modeMap
)

// nudgeStep is how far H/J/K/L move a goal on the map, in canvas units.
const nudgeStep = 25

// screenLoadedMsg carries a freshly read navigation level.
type screenLoadedMsg struct {
	screen     *service.Screen
	placements []service.Placement
	err        error
}

// liveUpdateMsg signals that the pipeline published a new view.
type liveUpdateMsg struct {
	version uint64
}

// actionDoneMsg reports the outcome of a mutation or navigation.
type actionDoneMsg struct {
	status string
	err    error
}

// browseModel is the interactive goal browser. It shows one level of
// the tree at a time, as a list or as a mind map.
type browseModel struct {
	ctx     context.Context
	app     *App
	keys    browseKeyMap
	help    help.Model
	updates <-chan projection.Update

	screen     *service.Screen
	placements []service.Placement
	err        error
	cursor     int
	selectedID string
	mode       browseMode

	confirming *projection.Item
	info       viewport.Model
	infoTitle  string
	infoOpen   bool
	form       *huh.Form
	draft      *goalDraft

	status    string
	statusErr bool
	width     int
	height    int
	quitting  bool
}

func newBrowseModel(ctx context.Context, app *App) *browseModel {
	m := &browseModel{
		ctx:  ctx,
		app:  app,
		keys: newBrowseKeyMap(),
		help: help.New(),
		info: viewport.New(80, 12),
	}
	if app.Updates != nil {
		m.updates = app.Updates.Subscribe(ctx)
	}
	return m
}

func (m *browseModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForUpdate())
}

func (m *browseModel) load() tea.Cmd {
	ctx, app := m.ctx, m.app
	withMap := m.mode == modeMap
	return func() tea.Msg {
		screen, err := app.Goals.Screen(ctx)
		if err != nil {
			return screenLoadedMsg{err: err}
		}
		var placements []service.Placement
		if withMap {
			placements, err = app.Map.Layout(ctx)
		}
		return screenLoadedMsg{screen: screen, placements: placements, err: err}
	}
}

func (m *browseModel) waitForUpdate() tea.Cmd {
	ch := m.updates
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return liveUpdateMsg{version: u.Version}
	}
}

func (m *browseModel) run(fn func(ctx context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		status, err := fn(ctx)
		return actionDoneMsg{status: status, err: err}
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.info.Width = max(20, msg.Width-6)
		m.info.Height = max(5, msg.Height-12)
		return m, nil

	case detailLoadedMsg:
		if msg.err != nil {
			m.status, m.statusErr = msg.err.Error(), true
			return m, nil
		}
		m.infoOpen = true
		m.infoTitle = msg.title
		m.info.SetContent(msg.content)
		m.info.GotoTop()
		return m, nil

	case screenLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.screen = msg.screen
		m.placements = msg.placements
		m.restoreCursor()
		return m, nil

	case liveUpdateMsg:
		if m.screen != nil && msg.version == m.screen.Version && m.screen.Fault == nil {
			return m, m.waitForUpdate()
		}
		return m, tea.Batch(m.load(), m.waitForUpdate())

	case actionDoneMsg:
		m.status, m.statusErr = msg.status, false
		if msg.err != nil {
			m.status, m.statusErr = msg.err.Error(), true
		}
		return m, m.load()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.confirming != nil {
			return m.updateConfirm(msg)
		}
		if m.infoOpen {
			return m.updateInfo(msg)
		}
		return m.updateKeys(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m *browseModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := m.app
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.syncSelection()
		}

	case key.Matches(msg, m.keys.Down):
		if m.screen != nil && m.cursor < len(m.screen.Items)-1 {
			m.cursor++
			m.syncSelection()
		}

	case key.Matches(msg, m.keys.Open):
		item := m.selected()
		if item == nil {
			return m, nil
		}
		id := item.Node.ID
		m.selectedID, m.cursor = "", 0
		return m, m.run(func(ctx context.Context) (string, error) {
			return "", app.Goals.SelectNode(ctx, id)
		})

	case key.Matches(msg, m.keys.Back):
		return m, m.goUp()

	case key.Matches(msg, m.keys.Root):
		m.selectedID, m.cursor = "", 0
		return m, m.run(func(ctx context.Context) (string, error) {
			app.Goals.NavigateToRoot(ctx)
			return "", nil
		})

	case key.Matches(msg, m.keys.Toggle):
		item := m.selected()
		if item == nil {
			return m, nil
		}
		id, name := item.Node.ID, item.Node.Name
		return m, m.run(func(ctx context.Context) (string, error) {
			status, err := app.Goals.ToggleStatus(ctx, id)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s: %s", name, formatter.StatusPill(status)), nil
		})

	case key.Matches(msg, m.keys.Add):
		m.draft = &goalDraft{}
		parentName := ""
		if m.screen != nil && m.screen.Parent != nil {
			parentName = m.screen.Parent.Node.Name
		}
		m.form = newAddForm(m.draft, parentName)
		m.status = ""
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if item := m.selected(); item != nil {
			it := *item
			m.confirming = &it
		}

	case key.Matches(msg, m.keys.Info):
		item := m.selected()
		if item == nil {
			return m, nil
		}
		load := loadDetail(m.ctx, m.app, item.Node.ID)
		return m, func() tea.Msg { return load() }

	case key.Matches(msg, m.keys.Map):
		if m.mode == modeList {
			m.mode = modeMap
		} else {
			m.mode = modeList
		}
		return m, m.load()

	case key.Matches(msg, m.keys.NudgeL):
		return m, m.nudge(-nudgeStep, 0)
	case key.Matches(msg, m.keys.NudgeR):
		return m, m.nudge(nudgeStep, 0)
	case key.Matches(msg, m.keys.NudgeU):
		return m, m.nudge(0, -nudgeStep)
	case key.Matches(msg, m.keys.NudgeD):
		return m, m.nudge(0, nudgeStep)
	}
	return m, nil
}

// goUp navigates to the parent of the current level and keeps the goal
// we came from selected.
func (m *browseModel) goUp() tea.Cmd {
	if m.screen == nil || m.screen.Parent == nil {
		return nil
	}
	app := m.app
	path := m.screen.Path
	m.selectedID = m.screen.Parent.Node.ID
	if len(path) < 2 {
		return m.run(func(ctx context.Context) (string, error) {
			app.Goals.NavigateToRoot(ctx)
			return "", nil
		})
	}
	up := path[len(path)-2].Node.ID
	return m.run(func(ctx context.Context) (string, error) {
		return "", app.Goals.SelectNode(ctx, up)
	})
}

func (m *browseModel) nudge(dx, dy float64) tea.Cmd {
	if m.mode != modeMap {
		return nil
	}
	item := m.selected()
	if item == nil {
		return nil
	}
	app, id := m.app, item.Node.ID
	return m.run(func(ctx context.Context) (string, error) {
		n, err := app.Map.Drag(ctx, id, dx, dy)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Moved %s to (%.0f, %.0f)", n.Name, n.X, n.Y), nil
	})
}

// updateInfo scrolls the info pane; i, esc or q close it.
func (m *browseModel) updateInfo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Info, m.keys.Quit) || msg.Type == tea.KeyEsc {
		m.infoOpen = false
		return m, nil
	}
	var cmd tea.Cmd
	m.info, cmd = m.info.Update(msg)
	return m, cmd
}

func (m *browseModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item := m.confirming
	m.confirming = nil
	if !key.Matches(msg, m.keys.Confirm) {
		m.status, m.statusErr = "Delete cancelled.", false
		return m, nil
	}
	app, id := m.app, item.Node.ID
	return m, m.run(func(ctx context.Context) (string, error) {
		removed, err := app.Goals.DeleteNode(ctx, id)
		if err != nil {
			return "", err
		}
		return "Removed " + pluralGoals(len(removed)), nil
	})
}

func (m *browseModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form, m.draft = nil, nil
		m.status, m.statusErr = "Cancelled.", false
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		draft := *m.draft
		m.form, m.draft = nil, nil
		app := m.app
		return m, m.run(func(ctx context.Context) (string, error) {
			n, err := app.Goals.AddChild(ctx, nil, draft.Name, draft.Description)
			if err != nil {
				return "", err
			}
			return "Added " + n.Name, nil
		})
	case huh.StateAborted:
		m.form, m.draft = nil, nil
		m.status, m.statusErr = "Cancelled.", false
		return m, nil
	}
	return m, cmd
}

func (m *browseModel) selected() *projection.Item {
	if m.screen == nil || m.cursor < 0 || m.cursor >= len(m.screen.Items) {
		return nil
	}
	return &m.screen.Items[m.cursor]
}

func (m *browseModel) syncSelection() {
	if item := m.selected(); item != nil {
		m.selectedID = item.Node.ID
	}
}

// restoreCursor keeps the selected goal under the cursor across reloads.
func (m *browseModel) restoreCursor() {
	items := m.screen.Items
	for i, it := range items {
		if it.Node.ID == m.selectedID {
			m.cursor = i
			return
		}
	}
	m.cursor = max(0, min(m.cursor, len(items)-1))
	m.syncSelection()
}

// ── View ─────────────────────────────────────────────────────────────────────

func (m *browseModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	var path []string
	if m.screen != nil {
		path = pathNames(m.screen.Path)
	}
	b.WriteString(formatter.StyleHeader.Render("GOALTREE") + "  " + formatter.Breadcrumb(path) + "\n")

	switch {
	case m.err != nil:
		b.WriteString("\n" + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.screen == nil:
		b.WriteString("\n" + formatter.Dim("Loading...") + "\n")
	default:
		m.renderScreen(&b)
	}

	if m.status != "" {
		style := formatter.StyleDim
		if m.statusErr {
			style = formatter.StyleRed
		}
		b.WriteString("\n" + style.Render(m.status) + "\n")
	}
	if m.form == nil {
		b.WriteString("\n" + m.help.View(m.keys))
	}
	return b.String()
}

func (m *browseModel) renderScreen(b *strings.Builder) {
	s := m.screen
	if s.Fault != nil {
		b.WriteString(formatter.StyleRed.Render("Tree error: "+s.Fault.Error()) + "\n")
		b.WriteString(formatter.Dim("Showing the last consistent state.") + "\n")
	}
	if s.Parent != nil {
		b.WriteString(formatter.RenderProgress(s.Parent.Progress, 30))
		b.WriteString(formatter.Dim(fmt.Sprintf("  %d sub-goals", s.Parent.DescendantCount)) + "\n")
	}
	b.WriteString("\n")

	if m.form != nil {
		b.WriteString(m.form.View() + "\n")
		return
	}
	if m.infoOpen {
		b.WriteString(formatter.RenderBox(m.infoTitle, m.info.View()) + "\n")
		return
	}
	if len(s.Items) == 0 {
		b.WriteString(formatter.Dim("No goals here yet. Press a to add one.") + "\n")
		return
	}

	if m.mode == modeMap {
		cols, rows := 72, 18
		if m.width > 10 {
			cols = m.width - 2
		}
		if m.height > 16 {
			rows = m.height - 12
		}
		b.WriteString(renderMindMap(s, m.placements, m.app.Map.Canvas(), m.selectedID, cols, rows) + "\n")
	} else {
		m.renderList(b)
	}

	if m.confirming != nil {
		b.WriteString("\n" + formatter.StyleYellowBold.Render(fmt.Sprintf(
			"Delete %q and %d sub-goals? (y/n)", m.confirming.Node.Name, m.confirming.DescendantCount)) + "\n")
	}
}

func (m *browseModel) renderList(b *strings.Builder) {
	nameWidth := 32
	now := time.Now()
	nameStyle := lipgloss.NewStyle().Width(nameWidth)
	for i, it := range m.screen.Items {
		cursor := "  "
		name := formatter.Truncate(it.Node.Name, nameWidth-1)
		if i == m.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			name = formatter.StyleBold.Render(name)
		}
		count := ""
		if it.DescendantCount > 0 {
			count = formatter.Dim(fmt.Sprintf("(%d)", it.DescendantCount))
		}
		fmt.Fprintf(b, "%s%s %s %s %s %s %-5s %s\n",
			cursor,
			formatter.StatusGlyph(it.Node.Status),
			formatter.Swatch(it.Node.Color),
			nameStyle.Render(name),
			formatter.RenderCompactBar(it.Progress, 10),
			formatter.Percent(it.Progress),
			count,
			formatter.DueLabel(it.Node.DueDate, it.Node.Status, now),
		)
	}
}
