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

	"github.com/mind-engage/verifytoken/internal/config"
	"github.com/mind-engage/verifytoken/internal/logging"
	"github.com/mind-engage/verifytoken/internal/metrics"
	"github.com/mind-engage/verifytoken/internal/registry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server.fail", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logging.New(cfg.LogLevel)

	tokens := registry.NewInMemoryReplay()
	var m *metrics.Metrics
	if cfg.EnableMetrics {
		m = metrics.New(tokens.Len)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(cfg, tokens, m, log),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info("server.start", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "metrics", cfg.EnableMetrics)

	select {
	case <-ctx.Done():
		log.Info("server.stop", "reason", "signal")
	case err := <-errCh:
		return err
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server.stopped", "used_tokens", tokens.Len())
	return nil
}
