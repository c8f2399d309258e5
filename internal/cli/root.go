package cli

import (
	"context"

	"github.com/alexanderramin/goaltree/internal/projection"
	"github.com/alexanderramin/goaltree/internal/service"
	"github.com/spf13/cobra"
)

// UpdateSource streams derived views; *projection.Pipeline satisfies it.
type UpdateSource interface {
	Subscribe(ctx context.Context) <-chan projection.Update
}

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Goals    service.GoalService
	Map      service.MapService
	Exchange service.ExchangeService

	// Updates feeds live changes to the browser. Nil means the browser
	// only refreshes after its own actions.
	Updates UpdateSource

	// IsInteractive reports whether stdin is a terminal. When it does,
	// running goaltree without a subcommand opens the browser.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "goaltree" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "goaltree",
		Short:         "Goal tree with live progress roll-up",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runBrowse(cmd, app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newAddCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newEditCmd(app),
		newToggleCmd(app),
		newRemoveCmd(app),
		newClearCmd(app),
		newTreeCmd(app),
		newMapCmd(app),
		newMoveCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newBrowseCmd(app),
	)

	return root
}
