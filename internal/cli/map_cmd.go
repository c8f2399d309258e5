package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/goaltree/internal/cli/formatter"
	"github.com/alexanderramin/goaltree/internal/layout"
	"github.com/alexanderramin/goaltree/internal/service"
	"github.com/spf13/cobra"
)

func newMapCmd(app *App) *cobra.Command {
	var parentFlag string
	var cols, rows int

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Draw one level of the tree as a mind map",
		Args:  cobra.NoArgs,
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
			placements, err := app.Map.Layout(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Breadcrumb(pathNames(screen.Path)))
			fmt.Fprintln(out)
			if len(placements) == 0 {
				fmt.Fprintln(out, formatter.Dim("No goals here yet."))
				return nil
			}
			fmt.Fprintln(out, renderMindMap(screen, placements, app.Map.Canvas(), "", cols, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&parentFlag, "parent", "", "Map the children of this goal")
	cmd.Flags().IntVar(&cols, "cols", 72, "Map width in characters")
	cmd.Flags().IntVar(&rows, "rows", 20, "Map height in lines")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move ID X Y",
		Short: "Set a goal's mind-map position in canvas units",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveNodeID(ctx, app, args[0])
			if err != nil {
				return err
			}
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid X %q: %w", args[1], err)
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid Y %q: %w", args[2], err)
			}

			n, err := app.Map.Move(ctx, id, x, y)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to (%.0f, %.0f)\n", n.Name, n.X, n.Y)
			return nil
		},
	}
}

// renderMindMap draws the current level around its parent. The parent,
// when there is one, sits at the canvas centre with edges to every child.
func renderMindMap(screen *service.Screen, placements []service.Placement, canvas layout.Canvas, selectedID string, cols, rows int) string {
	points := make([]formatter.MapPoint, 0, len(placements)+1)
	parentID := ""
	if screen != nil && screen.Parent != nil {
		parentID = screen.Parent.Node.ID
		points = append(points, formatter.MapPoint{
			ID:     parentID,
			Label:  screen.Parent.Node.Name,
			Status: screen.Parent.Node.Status,
			X:      canvas.Width / 2,
			Y:      canvas.Height / 2,
		})
	}
	for _, p := range placements {
		points = append(points, formatter.MapPoint{
			ID:       p.Item.Node.ID,
			ParentID: parentID,
			Label:    fmt.Sprintf("%s %s", p.Item.Node.Name, formatter.Percent(p.Item.Progress)),
			Status:   p.Item.Node.Status,
			X:        p.At.X,
			Y:        p.At.Y,
			Selected: p.Item.Node.ID == selectedID,
		})
	}
	return formatter.RenderMap(points, canvas.Width, canvas.Height, cols, rows)
}
