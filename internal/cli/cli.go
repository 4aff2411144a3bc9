package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drawgraph/pkg/buildinfo"
	"github.com/matzehuels/drawgraph/pkg/config"
	"github.com/matzehuels/drawgraph/pkg/editor"
	"github.com/matzehuels/drawgraph/pkg/shape"
	"github.com/matzehuels/drawgraph/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "drawgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the configuration loaded for the running command.
func (c *CLI) Config() config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Drawgraph edits vector drawings and node-edge diagrams",
		Long: `Drawgraph is a CLI for building vector drawings and node-edge diagrams.

Documents are JSON snapshots edited with line-oriented scripts, laid out with
Graphviz, inspected in the terminal, served over HTTP and shared through a
file, Redis or MongoDB document store.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: "+config.FileName+" in the user config dir)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.pushCommand())
	root.AddCommand(c.pullCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level. --verbose
// always wins over the configured level.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := LogDebug
	if !c.verbose {
		if level, err = log.ParseLevel(cfg.Log.Level); err != nil {
			level = LogInfo
		}
	}
	c.SetLogLevel(level)
	c.Logger.Debug("config loaded", "path", c.configPath, "backend", cfg.Store.Backend)
	return nil
}

// =============================================================================
// Session Factories
// =============================================================================

// newEditor creates an editing session using the loaded configuration.
// Text bounds are measured with the built-in bitmap face.
func (c *CLI) newEditor() *editor.Editor {
	return editor.New(editor.Options{
		Config:   c.cfg,
		Measurer: shape.NewBasicMeasurer(),
		Logger:   c.Logger,
	})
}

// openStore opens the configured document store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, c.cfg.Store)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("store opened", "backend", c.cfg.Store.Backend)
	return st, nil
}
