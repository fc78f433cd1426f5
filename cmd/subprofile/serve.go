package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"subprofile/internal/adapters/httpapi"
	"subprofile/internal/core"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the subproject API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.HTTP.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}

// buildHandler wires the store, metrics and catalog into the HTTP routes.
func (a *app) buildHandler(ctx context.Context) (http.Handler, func(), error) {
	store, release, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	reg := prometheus.NewRegistry()
	opts := httpapi.Options{Logger: a.logger, CacheTTL: a.cfg.HTTP.CatalogCacheTTL}
	metrics, err := core.NewMetricsRecorder(a.cfg.Metrics.Exporter, reg)
	if err != nil {
		release()
		return nil, nil, err
	}
	opts.Metrics = metrics

	mux := http.NewServeMux()
	switch a.cfg.Metrics.Exporter {
	case core.MetricsPrometheus, "":
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts.Gatherer = reg
	case core.MetricsExpvar:
		mux.Handle("/debug/vars", expvar.Handler())
	}
	mux.Handle("/", httpapi.NewHandler(a.catalog, store, opts).Routes())
	return mux, release, nil
}

func (a *app) serve(ctx context.Context) error {
	handler, release, err := a.buildHandler(ctx)
	if err != nil {
		return err
	}
	defer release()

	srv := &http.Server{
		Addr:         a.cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", zap.String("addr", srv.Addr), zap.String("storage", a.cfg.Storage.Driver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
