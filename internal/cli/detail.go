package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/goaltree/internal/cli/formatter"
	"github.com/alexanderramin/goaltree/internal/projection"
)

// renderGoalDetail is the body of "show" and of the browser's info pane.
func renderGoalDetail(item projection.Item, path, children []projection.Item, now time.Time) string {
	n := item.Node
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n", formatter.Swatch(n.Color), formatter.Bold(n.Name), formatter.StatusPill(n.Status))
	fmt.Fprintf(&b, "%s\n\n", formatter.Breadcrumb(pathNames(path)))
	fmt.Fprintf(&b, "  %s  %s\n", formatter.Dim("ID      "), n.ID)
	fmt.Fprintf(&b, "  %s  %s\n", formatter.Dim("PROGRESS"), formatter.RenderProgress(item.Progress, 20))
	fmt.Fprintf(&b, "  %s  %d\n", formatter.Dim("SUBGOALS"), item.DescendantCount)
	fmt.Fprintf(&b, "  %s  %s\n", formatter.Dim("COLOR   "), n.Color)
	if n.DueDate != nil {
		fmt.Fprintf(&b, "  %s  %s %s\n", formatter.Dim("DUE     "),
			formatter.DueLabel(n.DueDate, n.Status, now),
			formatter.Dim("("+n.DueDate.Format("Jan 2, 2006")+")"))
	}
	fmt.Fprintf(&b, "  %s  %s\n", formatter.Dim("CREATED "), formatter.HumanTimestamp(n.CreatedAt, now))
	fmt.Fprintf(&b, "  %s  %s\n", formatter.Dim("UPDATED "), formatter.HumanTimestamp(n.UpdatedAt, now))
	if n.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", n.Description)
	}

	if len(children) > 0 {
		b.WriteString("\n")
		b.WriteString(formatter.Header("Children"))
		b.WriteString("\n")
		b.WriteString(renderItemTable(children, now))
	}
	return b.String()
}

// detailLoadedMsg carries the rendered info pane for one goal.
type detailLoadedMsg struct {
	title   string
	content string
	err     error
}

func loadDetail(ctx context.Context, app *App, id string) func() detailLoadedMsg {
	return func() detailLoadedMsg {
		view, err := currentView(ctx, app)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		item, ok := view.Get(id)
		if !ok {
			return detailLoadedMsg{err: fmt.Errorf("goal %s is gone", id)}
		}
		path, err := view.Path(id)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		return detailLoadedMsg{
			title:   item.Node.Name,
			content: renderGoalDetail(item, path, view.Children(&id), time.Now()),
		}
	}
}
