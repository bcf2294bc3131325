package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"census/internal/platform/httpserver"
	"census/internal/platform/metrics"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	a, err := newApp(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer a.close()

	srv := httpserver.New(c.cfg.Server, newRouter(a, metrics.New()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Returns once the publisher is closed and the inbox drained.
		return a.worker.Run(context.WithoutCancel(gctx))
	})
	g.Go(func() error {
		c.logger.Info("starting census", "addr", c.cfg.Server.Addr, "storage", c.cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		c.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), c.cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		a.publisher.Close()
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if dropped := a.publisher.Dropped(); dropped > 0 {
		c.logger.Warn("audit events dropped", "count", dropped)
	}
	return nil
}
