package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawgraph/pkg/config"
	errs "github.com/matzehuels/drawgraph/pkg/errors"
	"github.com/matzehuels/drawgraph/pkg/store"
)

// pushCommand creates the push command for uploading a document to the store.
func (c *CLI) pushCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "push [document.json] [key]",
		Short: "Save a document to the configured store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readDocument(args[0])
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := store.Save(cmd.Context(), st, args[1], snap, ttl); err != nil {
				return err
			}
			printSuccess("Pushed %s", StyleHighlight.Render(args[1]))
			printDetail("%d shapes to %s store", len(snap.Shapes), c.cfg.Store.Backend)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "expire the stored document after this long (default: backend default)")
	return cmd
}

// pullCommand creates the pull command for downloading a document.
func (c *CLI) pullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pull [key] [document.json]",
		Short: "Load a document from the configured store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := store.Load(cmd.Context(), st, args[0])
			if err != nil {
				return err
			}
			// Round-trip through an editor so broken records fail here
			// instead of in a later command.
			ed := c.newEditor()
			if err := ed.Load(snap); err != nil {
				return err
			}
			if err := writeDocument(args[1], ed.Snapshot()); err != nil {
				return err
			}
			printSuccess("Pulled %s", StyleHighlight.Render(args[0]))
			printFile(args[1])
			return nil
		},
	}
}

// =============================================================================
// Store Management
// =============================================================================

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the document store",
	}

	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeRemoveCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

// storeListCommand creates the "store ls" subcommand.
func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List stored document keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			lister, ok := st.(store.Lister)
			if !ok {
				return errs.New(errs.ErrCodeUnsupported, "%s store cannot list keys", c.cfg.Store.Backend)
			}
			keys, err := lister.Keys(cmd.Context())
			if err != nil {
				return errs.Wrap(errs.ErrCodeStore, err, "list keys")
			}
			if len(keys) == 0 {
				printInfo("Store is empty")
				return nil
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

// storeRemoveCommand creates the "store rm" subcommand.
func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [key...]",
		Short: "Delete stored documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			for _, key := range args {
				if err := errs.ValidateStoreKey(key); err != nil {
					return err
				}
				if err := st.Delete(cmd.Context(), key); err != nil {
					return errs.Wrap(errs.ErrCodeStore, err, "delete %s", key)
				}
			}
			printSuccess("Deleted %d documents", len(args))
			return nil
		},
	}
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file store directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if b := c.cfg.Store.Backend; b != config.BackendFile && b != "" {
				return errs.New(errs.ErrCodeUnsupported, "the %s store has no directory", b)
			}
			dir := c.cfg.Store.Dir
			if dir == "" {
				var err error
				if dir, err = store.DefaultDir(); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
