package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/drawgraph/pkg/errors"
)

// newCommand creates the new command for starting an empty document.
func (c *CLI) newCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new [document.json]",
		Short: "Create an empty document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return errs.New(errs.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}
			if err := writeDocument(path, c.newEditor().Snapshot()); err != nil {
				return err
			}
			printSuccess("Created empty document")
			printFile(path)
			printNextStep("Add shapes", appName+" apply script.dg -d "+path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// applyCommand creates the apply command for running edit scripts.
func (c *CLI) applyCommand() *cobra.Command {
	var (
		docPath string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "apply [script.dg]",
		Short: "Run an edit script against a document",
		Long: `Run an edit script against a document.

Scripts hold one operation per line. Shapes are created under an alias that
later lines use to refer to them:

  node a 100 100 label="Start"
  node b 300 100
  edge ab a b
  rect frame 50 50 320 120 fill=#f4f4f4
  back frame
  layout neato

Use "-" to read the script from stdin. Without --document the script starts
from an empty document and --output is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = docPath
			}
			if output == "" {
				return errs.New(errs.ErrCodeInvalidInput, "either --document or --output is required")
			}
			return c.runApply(cmd.Context(), args[0], docPath, output, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVarP(&docPath, "document", "d", "", "document to edit (created when missing)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: the --document file)")

	return cmd
}

func (c *CLI) runApply(ctx context.Context, scriptPath, docPath, output string, stdin io.Reader) error {
	prog := newProgress(c.Logger)

	ed := c.newEditor()
	if docPath != "" {
		var err error
		if ed, err = c.openDocument(docPath, true); err != nil {
			return err
		}
	}

	var r io.Reader = stdin
	if scriptPath != "-" {
		f, err := os.Open(scriptPath)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "open script")
		}
		defer f.Close()
		r = f
	}

	n, err := NewInterpreter(ed, c.Logger).Run(ctx, r)
	if err != nil {
		return err
	}
	if err := writeDocument(output, ed.Snapshot()); err != nil {
		return err
	}
	prog.done("script applied")

	shapes, nodes, edges := documentStats(ed)
	printSuccess("Applied %d operations", n)
	printStats(shapes, nodes, edges)
	printFile(output)
	return nil
}
