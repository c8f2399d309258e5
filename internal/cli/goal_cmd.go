package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/goaltree/internal/cli/formatter"
	"github.com/alexanderramin/goaltree/internal/projection"
	"github.com/alexanderramin/goaltree/internal/service"
	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var parentFlag, description string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a goal at the root or under --parent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var parentID *string
			if cmd.Flags().Changed("parent") {
				id, err := resolveNodeID(ctx, app, parentFlag)
				if err != nil {
					return err
				}
				parentID = &id
			}

			n, err := app.Goals.AddChild(ctx, parentID, strings.Join(args, " "), description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created goal %s (%s)\n", n.Name, n.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&parentFlag, "parent", "", "Parent goal ID or prefix")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Goal description")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var parentFlag string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List goals at one level of the tree",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if parentFlag != "" {
				id, err := resolveNodeID(ctx, app, parentFlag)
				if err != nil {
					return err
				}
				if err := app.Goals.SelectNode(ctx, id); err != nil {
					return err
				}
			} else {
				app.Goals.NavigateToRoot(ctx)
			}

			screen, err := app.Goals.Screen(ctx)
			if err != nil {
				return err
			}
			reportFault(cmd.ErrOrStderr(), screen.Fault)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Breadcrumb(pathNames(screen.Path)))
			if screen.Parent != nil {
				fmt.Fprintf(out, "%s\n", formatter.RenderProgress(screen.Parent.Progress, 20))
			}
			fmt.Fprintln(out)
			if len(screen.Items) == 0 {
				fmt.Fprintln(out, formatter.Dim("No goals here yet."))
				return nil
			}
			fmt.Fprint(out, renderItemTable(screen.Items, time.Now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&parentFlag, "parent", "", "List the children of this goal")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show goal details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveNodeID(ctx, app, args[0])
			if err != nil {
				return err
			}
			item, err := app.Goals.Get(ctx, id)
			if err != nil {
				return err
			}
			view, err := currentView(ctx, app)
			if err != nil {
				return err
			}
			path, err := view.Path(id)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderGoalDetail(*item, path, view.Children(&id), time.Now()))
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var name, description, color string
	status := &statusValue{}
	due := &dueValue{}

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a goal's name, description, status, color or due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveNodeID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var patch service.NodePatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("status") {
				patch.Status = &status.status
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &color
			}
			if cmd.Flags().Changed("due") {
				patch.DueDate = due.date
				patch.ClearDueDate = due.clear
			}
			if patch == (service.NodePatch{}) {
				return errors.New("nothing to update: pass at least one of --name, --description, --status, --color, --due")
			}

			n, err := app.Goals.UpdateNode(ctx, id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated goal %s\n", n.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().Var(status, "status", "Status (pending|in_progress|completed)")
	cmd.Flags().StringVar(&color, "color", "", "Accent color as #RRGGBB")
	cmd.Flags().Var(due, "due", "Due date YYYY-MM-DD, or none to clear")
	return cmd
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Advance a goal's status: pending, in progress, completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveNodeID(ctx, app, args[0])
			if err != nil {
				return err
			}
			status, err := app.Goals.ToggleStatus(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.ShortID(id), formatter.StatusPill(status))
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Remove a goal and all of its sub-goals",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveNodeID(ctx, app, args[0])
			if err != nil {
				return err
			}
			removed, err := app.Goals.DeleteNode(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", pluralGoals(len(removed)))
			return nil
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to remove all goals without --yes")
			}
			count, err := app.Goals.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", pluralGoals(count))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm removing everything")
	return cmd
}

func newTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [ID]",
		Short: "Print the goal tree with progress",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			view, err := app.Goals.View(ctx)
			if view == nil {
				return err
			}
			reportFault(cmd.ErrOrStderr(), err)

			var items []formatter.TreeItem
			if len(args) == 1 {
				id, err := resolveNodeID(ctx, app, args[0])
				if err != nil {
					return err
				}
				item, _ := view.Get(id)
				items = []formatter.TreeItem{treeItem(view, item)}
			} else {
				items = treeItems(view, nil)
			}

			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No goals yet. Add one with: goaltree add NAME"))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTree(items))
			return nil
		},
	}
}

func renderItemTable(items []projection.Item, now time.Time) string {
	headers := []string{"ID", "", "NAME", "PROGRESS", "SUBGOALS", "DUE"}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			formatter.TruncID(it.Node.ID),
			formatter.StatusGlyph(it.Node.Status),
			formatter.Swatch(it.Node.Color) + " " + it.Node.Name,
			formatter.RenderCompactBar(it.Progress, 10) + " " + formatter.Percent(it.Progress),
			fmt.Sprintf("%d", it.DescendantCount),
			formatter.DueLabel(it.Node.DueDate, it.Node.Status, now),
		})
	}
	return formatter.RenderTable(headers, rows)
}

func treeItems(view *projection.View, parent *string) []formatter.TreeItem {
	children := view.Children(parent)
	items := make([]formatter.TreeItem, 0, len(children))
	for _, c := range children {
		items = append(items, treeItem(view, c))
	}
	return items
}

func treeItem(view *projection.View, item projection.Item) formatter.TreeItem {
	id := item.Node.ID
	return formatter.TreeItem{
		Title:    item.Node.Name,
		ID:       id,
		Status:   item.Node.Status,
		Progress: item.Progress,
		Children: treeItems(view, &id),
	}
}

func pathNames(path []projection.Item) []string {
	names := make([]string, len(path))
	for i, p := range path {
		names[i] = p.Node.Name
	}
	return names
}

func pluralGoals(n int) string {
	if n == 1 {
		return "1 goal"
	}
	return fmt.Sprintf("%d goals", n)
}

func reportFault(w io.Writer, fault error) {
	if fault == nil {
		return
	}
	fmt.Fprintln(w, formatter.StyleRed.Render("Tree error: "+fault.Error()))
	fmt.Fprintln(w, formatter.Dim("Showing the last consistent state."))
}
