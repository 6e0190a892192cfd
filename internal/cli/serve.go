package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drilltree/pkg/observability"
	"github.com/matzehuels/drilltree/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the drill-down HTTP API",
		Long: `Serve starts an HTTP server holding drill-down views.

POST a JSON table to /api/views to create a view, then drive it with
POST /api/views/{id}/nodes/{node}/{expand|collapse|more|fewer}. The
interactive SVG at /api/views/{id}/svg posts its button clicks back to
the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)

	hooks := observability.NewLogHooks(logger)
	observability.SetHTTPHooks(hooks)
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	srv := server.New(server.Options{Settings: c.settings, Logger: logger})
	printInfo("Serving on http://%s", addr)
	err := srv.ListenAndServe(ctx, addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
