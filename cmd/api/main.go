package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/crucial707/candidate-hub/internal/auth"
	"github.com/crucial707/candidate-hub/internal/bootstrap"
	"github.com/crucial707/candidate-hub/internal/config"
	"github.com/crucial707/candidate-hub/internal/logging"
	"github.com/crucial707/candidate-hub/internal/middleware"
	"github.com/crucial707/candidate-hub/internal/report"
	"github.com/crucial707/candidate-hub/internal/scheduler"
)

const (
	shutdownTimeout  = 10 * time.Second
	limiterSweepRate = 5 * time.Minute
)

func main() {
	cfg := config.Load()
	logging.New(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		slog.Warn("JWT_SECRET is the built-in default; set it before deploying")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("api exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
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

	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: []byte(cfg.JWTSecret)})
	if err != nil {
		return err
	}

	queue := report.NewQueue(rdb, report.DefaultTaskTTL)
	limiter := middleware.AuthRateLimiter()

	var wg sync.WaitGroup
	defer wg.Wait()

	bgCtx, cancelBg := context.WithCancel(ctx)
	defer cancelBg()

	wg.Add(1)
	go func() {
		defer wg.Done()
		sweepLimiter(bgCtx, limiter)
	}()

	// A separate worker process cannot see in-memory candidates, so the API
	// generates reports itself.
	if stores.Memory() {
		worker := &report.Worker{Queue: queue, Source: stores.Candidates, Store: reports}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = worker.Run(bgCtx)
		}()

		sweeps, err := scheduler.Start(bgCtx, cfg.ReportSweepSchedule, reports, cfg.ReportRetention())
		if err != nil {
			return err
		}
		defer sweeps.Stop()
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: newRouter(deps{
			cfg:     cfg,
			stores:  stores,
			queue:   queue,
			reports: reports,
			tokens:  tokens,
			limiter: limiter,
			started: time.Now(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		useTLS := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""
		slog.Info("starting server", "port", cfg.Port, "tls", useTLS, "storage", cfg.Storage)
		if useTLS {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	cancelBg()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// sweepLimiter evicts idle rate limiter entries until ctx is done.
func sweepLimiter(ctx context.Context, limiter *middleware.IPRateLimiter) {
	ticker := time.NewTicker(limiterSweepRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Cleanup(); n > 0 {
				slog.Debug("rate limiter entries evicted", "count", n)
			}
		}
	}
}
