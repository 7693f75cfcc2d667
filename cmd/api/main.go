package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/teamflow/internal/app"
	"github.com/riskibarqy/teamflow/internal/config"
	"github.com/riskibarqy/teamflow/internal/observability"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "teamflow api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, flushLogs, err := observability.InitLogShipping(cfg)
	if err != nil {
		return fmt.Errorf("init log shipping: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := flushLogs(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "flush logs: %v\n", err)
		}
	}()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("uptrace shutdown failed", "error", err)
		}
	}()

	logger = observability.WithUptraceLogs(cfg, logger)
	logging.SetDefault(logger)

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Error("pyroscope stop failed", "error", err)
		}
	}()

	debugSrv := observability.StartDebugServer(cfg, logger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := debugSrv.Close(ctx); err != nil {
			logger.Error("pprof shutdown failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, closeStore, err := app.NewHTTPServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("close record store failed", "error", err)
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting",
			"addr", cfg.HTTPAddr,
			"env", cfg.AppEnv,
			"store_backend", cfg.StoreBackend,
			"timezone", cfg.TeamTimezone.String(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("http server failed", "error", err)
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return err
	}

	logger.Info("http server stopped")
	return nil
}
