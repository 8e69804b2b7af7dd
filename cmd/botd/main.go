package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/misakino/cm-bridge/internal/bootstrap"
	"github.com/misakino/cm-bridge/internal/config"
	"github.com/misakino/cm-bridge/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	if path := os.Getenv("CM_CONFIG_FILE"); path != "" {
		fileCfg, err := config.LoadFile(path)
		if err != nil {
			log.Fatalf("config error: %v", err)
		}
		cfg = fileCfg
	}

	logger := logging.NewJSONLogger("botd", cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := bootstrap.New(cfg, logger)
	if err := app.Start(ctx); err != nil {
		log.Fatalf("start error: %v", err)
	}
	defer app.Stop()

	metricsServer := &http.Server{
		Addr:        ":" + cfg.MetricsPort,
		Handler:     app.Metrics.Handler(),
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("metrics listening", "port", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server error: %v", err)
		}
	}()

	if err := app.Run(ctx); err != nil {
		logger.Error("bot event loop ended", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}
