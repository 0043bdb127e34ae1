package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jackielii/spanav"
	"github.com/jackielii/spanav/internal/logging"
	"github.com/jackielii/spanav/internal/views"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route table over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logging.New(&cfg.Logging, os.Stdout)
			table, err := buildTable(cfg)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			opts := []spanav.Option{
				spanav.WithLogger(logger),
				spanav.WithMetrics(spanav.NewMetrics(reg)),
				spanav.WithLoadTimeout(cfg.Views.LoadTimeoutDuration()),
				spanav.WithWaitTimeout(cfg.Views.WaitTimeoutDuration()),
				spanav.WithLayout(views.Layout(table)),
				spanav.WithNotFoundView(views.NotFound),
				spanav.WithLoadErrorView(views.LoadFailed),
				spanav.WithPendingView(views.Pending),
				spanav.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
					logger.Error("render failed", "path", r.URL.Path, "error", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}),
			}
			resolver := spanav.NewResolver(opts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.Views.Prefetch {
				go func() {
					if err := resolver.Prefetch(ctx, slices.Collect(table.All())...); err != nil {
						logger.Warn("prefetch failed", "error", err)
					}
				}()
			}

			handler := spanav.NewHandler(table, resolver, opts...)
			r := chi.NewRouter()
			r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			handler.Mount(spanav.NewChiRouter(r))
			r.NotFound(handler.ServeHTTP)

			srv := &http.Server{
				Addr:        cfg.Server.Addr,
				Handler:     r,
				ReadTimeout: cfg.Server.ReadTimeoutDuration(),
			}
			errc := make(chan error, 1)
			go func() {
				logger.Info("serving routes", "addr", cfg.Server.Addr, "routes", table.Len())
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	return cmd
}
