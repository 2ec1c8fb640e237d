package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vdobler/vizcore/server"
	"github.com/vdobler/vizcore/store"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve slicer sessions and box plots over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := store.Open(ctx, a.cfg.Database.Driver, a.cfg.Database.DSN)
			if err != nil {
				return err
			}
			if c, ok := st.(io.Closer); ok {
				defer c.Close()
			}

			srv := &http.Server{
				Addr: addr,
				Handler: server.New(st, server.Defaults{
					Whisker:      a.cfg.Chart.Whisker,
					ShowOutliers: a.cfg.Chart.ShowOutliers,
					Mode:         a.cfg.Slicer.Mode,
					SelfFilter:   a.cfg.Slicer.SelfFilter,
				}, a.log),
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.log.Info("listening", "addr", addr, "store", a.cfg.Database.Driver)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				a.log.Info("shutting down", "timeout", a.cfg.Server.ShutdownTimeout)
				sctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(sctx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default VIZCORE_ADDR or :8080)")
	return cmd
}
