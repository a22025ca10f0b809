package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/trellis/internal/config"
	"github.com/vango-dev/trellis/pkg/middleware"
	"github.com/vango-dev/trellis/pkg/remote"
	"github.com/vango-dev/trellis/pkg/telemetry"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(g *globals) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo app to browsers",
		Long: `Start an HTTP server that renders the demo app per connection and
streams DOM patches to the browser over a WebSocket.

Every tick of the configured interval advances the app of every
connected session.

Examples:
  trellis serve
  trellis serve --port=8080
  trellis serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Serve.Port = port
			}
			if host != "" {
				cfg.Serve.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from "+config.ConfigFileName+")")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from "+config.ConfigFileName+")")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(os.Stderr, cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hubConfig := remote.DefaultConfig()
	hubConfig.Title = "trellis demo"
	hubConfig.Logger = logger
	hubConfig.RuntimeOptions = cfg.RuntimeOptions()
	hubConfig.Metrics = telemetry.NewMetrics(telemetry.WithRegistry(reg))
	hubConfig.Tracer = telemetry.NewTracer("trellis")
	hubConfig.Registry = reg
	if len(cfg.Serve.AllowedOrigins) > 0 {
		hubConfig.CheckOrigin = remote.AllowOrigins(cfg.Serve.AllowedOrigins...)
	}
	hub := remote.NewHub(demoApp(), hubConfig)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           newRouter(cfg, hub, reg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printBanner()
	success("Serving on http://%s", cfg.Address())
	if cfg.MetricsEnabled() {
		info("Metrics at %s", cfg.Serve.MetricsPath)
	}
	fmt.Println()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return runTicker(ctx, hub, cfg.Serve.TickInterval, logger)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down", "sessions", hub.Len())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		hub.Close()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newRouter(cfg *config.Config, hub *remote.Hub, reg *prometheus.Registry, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.Prometheus(middleware.WithRegistry(reg)),
		middleware.OpenTelemetry(),
		middleware.Logger(logger),
		middleware.Recoverer(logger),
	)
	if cfg.MetricsEnabled() {
		r.Handle(cfg.Serve.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
	r.Mount("/", hub.Routes())
	return r
}

// runTicker advances every session once per interval until ctx is done.
// A zero interval disables ticking.
func runTicker(ctx context.Context, hub *remote.Hub, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := hub.Update(ctx, tick); err != nil && ctx.Err() == nil {
				logger.Warn("tick failed", "error", err)
			}
		}
	}
}
