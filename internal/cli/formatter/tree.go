package formatter

import (
	"fmt"

	"github.com/alexanderramin/goaltree/internal/domain"
	"github.com/charmbracelet/lipgloss/tree"
)

// TreeItem is one goal in a rendered tree.
type TreeItem struct {
	Title    string
	ID       string
	Status   domain.NodeStatus
	Progress float64
	Children []TreeItem
}

// RenderTree renders a forest with rounded connectors. Completed goals
// get a green ✔ and a dimmed title, in-progress goals an amber ▶. Goals
// with children show their aggregated progress.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}
	t := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, item := range items {
		t.Child(treeNode(item))
	}
	return t.String() + "\n"
}

func treeNode(item TreeItem) any {
	label := treeLabel(item)
	if len(item.Children) == 0 {
		return label
	}
	sub := tree.Root(label).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	for _, child := range item.Children {
		sub.Child(treeNode(child))
	}
	return sub
}

func treeLabel(item TreeItem) string {
	title := item.Title
	switch item.Status {
	case domain.StatusCompleted:
		title = Dim(title)
	case domain.StatusInProgress:
		title = StyleYellowBold.Render(title)
	}

	label := StatusGlyph(item.Status) + " " + title
	if item.ID != "" {
		label += " " + TruncID(item.ID)
	}
	if len(item.Children) > 0 {
		label += "  " + StyleBlue.Render(fmt.Sprintf("[ %s ]", Percent(item.Progress)))
	}
	return label
}
