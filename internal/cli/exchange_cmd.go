package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/goaltree/internal/exchange"
	"github.com/alexanderramin/goaltree/internal/service"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	format := &formatValue{format: exchange.FormatJSON}
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every goal as a JSON or YAML document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if output != "" && !cmd.Flags().Changed("format") {
				format.format = exchange.FormatFromPath(output)
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			count, err := app.Exchange.Export(ctx, w, format.format)
			if err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", pluralGoals(count), output)
			}
			return nil
		},
	}

	cmd.Flags().VarP(format, "format", "f", "Document format (json|yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	format := &formatValue{}
	var replace bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load goals from a JSON or YAML document",
		Long: `Load goals from a document written by export. Goals with an ID that
already exists are overwritten; with --replace every existing goal is
removed first. The whole document is validated before anything is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			var result *service.ImportResult
			var err error
			if cmd.Flags().Changed("format") {
				f, openErr := os.Open(path)
				if openErr != nil {
					return fmt.Errorf("opening %s: %w", path, openErr)
				}
				defer f.Close()
				result, err = app.Exchange.Import(ctx, f, format.format, replace)
			} else {
				result, err = app.Exchange.ImportFile(ctx, path, replace)
			}
			if err != nil {
				return err
			}

			msg := fmt.Sprintf("Imported %s", pluralGoals(result.NodeCount))
			if result.Replaced {
				msg += " (replaced existing goals)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().VarP(format, "format", "f", "Document format (json|yaml); defaults to the file extension")
	cmd.Flags().BoolVar(&replace, "replace", false, "Remove all existing goals first")
	return cmd
}
