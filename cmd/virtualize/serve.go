package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/cybergodev/virtualize"
	"github.com/cybergodev/virtualize/internal/config"
	"github.com/cybergodev/virtualize/internal/server"
)

func serveCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions over HTTP",
		Long: `Start the HTTP API.

Routes:
  POST /v1/virtualize   convert the request body (?select=, ?charset=, text/markdown)
  GET  /health          liveness
  GET  /stats           processor statistics
  GET  /metrics         Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Batch worker pool size")
	cmd.Flags().IntVar(&cfg.CacheEntries, "cache-entries", cfg.CacheEntries, "Conversion cache size (0 disables)")
	cmd.Flags().DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Conversion cache entry lifetime")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	log := cfg.Logger()

	p, err := virtualize.New(cfg.Processor(log))
	if err != nil {
		return err
	}
	defer p.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.New(p, reg, int64(cfg.MaxInputBytes), log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting virtualize", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
