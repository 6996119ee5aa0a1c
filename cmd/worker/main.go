// Command worker consumes report tasks from Redis, writes the CSV artifacts
// and periodically removes expired ones.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/candidate-hub/internal/bootstrap"
	"github.com/crucial707/candidate-hub/internal/config"
	"github.com/crucial707/candidate-hub/internal/logging"
	"github.com/crucial707/candidate-hub/internal/report"
	"github.com/crucial707/candidate-hub/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	logging.New(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if cfg.Storage == "memory" {
		return errors.New("the report worker needs STORAGE=postgres; in memory mode the API runs reports itself")
	}

	stores, err := bootstrap.OpenStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	reports, err := bootstrap.OpenReportStore(ctx, cfg)
	if err != nil {
		return err
	}

	sweeps, err := scheduler.Start(ctx, cfg.ReportSweepSchedule, reports, cfg.ReportRetention())
	if err != nil {
		return err
	}
	defer sweeps.Stop()

	if cfg.WorkerMetricsAddr != "" {
		go serveMetrics(ctx, cfg.WorkerMetricsAddr)
	}

	worker := &report.Worker{
		Queue:  report.NewQueue(rdb, report.DefaultTaskTTL),
		Source: stores.Candidates,
		Store:  reports,
	}
	return worker.Run(ctx)
}

// serveMetrics exposes the report job metrics until ctx is done.
func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("worker metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("worker metrics server", "error", err)
	}
}
