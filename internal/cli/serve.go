package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/praetor/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the event retention scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := wire.Default()
			defer c.Close()

			if addr == "" {
				addr = c.Config.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return c.Server().Run(gctx, addr)
			})
			g.Go(func() error {
				return c.Scheduler().Run(gctx)
			})

			err := g.Wait()
			if err != nil && err != context.Canceled {
				return err
			}
			slog.Info("praetor stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")

	return cmd
}
