package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/artboard/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the canvas and presence API",
		Long: `Serve the canvas and presence HTTP API.

Canvases are stored in the backend selected by [server] store (file, memory
or mongo); presence uses [presence] backend (memory or redis). The caller's
identity is read from the X-User-ID and X-User-Name headers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx := cmd.Context()

			canvases, err := openCanvasStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer canvases.Close()
			pres, err := openPresenceStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer pres.Close()

			srv := server.New(server.Options{
				Canvases:  canvases,
				Presence:  pres,
				Freshness: cfg.Presence.Freshness.Duration,
				Interval:  cfg.Presence.Interval.Duration,
				Logger:    c.Logger,
			})
			printInfo("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
			printDetail("store: %s · presence: %s", cfg.Server.Store, cfg.Presence.Backend)
			return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout.Duration)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides [server] addr)")
	return cmd
}
