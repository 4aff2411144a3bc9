package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawgraph/pkg/api"
)

// shutdownTimeout bounds how long in-flight requests may run after an
// interrupt.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command for the HTTP editing API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [document.json]",
		Short: "Serve an editing session over HTTP",
		Long: `Serve an editing session over HTTP.

The session starts from the given document, or empty without one. Documents
saved through the API go to the configured store. Changes are streamed to
clients as server-sent events on /events.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runServe(cmd.Context(), addr, path)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default: server.addr from config)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, path string) error {
	ed := c.newEditor()
	if path != "" {
		var err error
		if ed, err = c.openDocument(path, false); err != nil {
			return err
		}
	}

	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := &http.Server{
		Addr: addr,
		Handler: api.New(api.Options{
			Editor: ed,
			Store:  st,
			Logger: c.Logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	printSuccess("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))
	printDetail("store: %s", c.cfg.Store.Backend)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// displayAddr turns a bare port like ":8080" into a clickable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
