package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawgraph/pkg/layout"
)

// layoutCommand creates the layout command for automatic node placement.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		engine string
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [document.json]",
		Short: "Place the document's nodes automatically",
		Long: `Place the document's nodes automatically.

Node positions are computed with Graphviz (dot, neato, fdp, circo, twopi) or
the built-in circle layouter. The layout keeps the top-left corner of the
current nodes and re-routes every edge. Other shapes are left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = args[0]
			}
			return c.runLayout(cmd.Context(), args[0], engine, output)
		},
	}

	cmd.Flags().StringVarP(&engine, "engine", "e", "neato", "layout engine: "+strings.Join(layout.Names(), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	_ = cmd.RegisterFlagCompletionFunc("engine", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return layout.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, path, engine, output string) error {
	ed, err := c.openDocument(path, false)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Computing "+engine+" layout...")
	spinner.Start()
	err = ed.ApplyLayout(ctx, engine)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if err := writeDocument(output, ed.Snapshot()); err != nil {
		return err
	}

	_, nodes, edges := documentStats(ed)
	printSuccess("Laid out %d nodes with %s", nodes, engine)
	printDetail("%d edges re-routed", edges)
	printFile(output)
	return nil
}
