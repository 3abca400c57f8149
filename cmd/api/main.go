package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/akramarenko/legaldocs-ai/internal/adapters/http"
	"github.com/akramarenko/legaldocs-ai/internal/bootstrap"
	"github.com/akramarenko/legaldocs-ai/internal/config"
	"github.com/akramarenko/legaldocs-ai/internal/observability/logging"
	"github.com/akramarenko/legaldocs-ai/internal/observability/metrics"
)

const serviceName = "legaldocs-api"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	serverMetrics := metrics.NewHTTPServerMetrics(serviceName)
	router := httpadapter.NewRouter(
		serviceName,
		app.Ingestor,
		app.Reader,
		app.Query,
		app.Remover,
		cfg.MaxFileSizeBytes,
		httpadapter.WithServerMetrics(serverMetrics),
		httpadapter.WithRateLimit(cfg.APIRateLimitRPS, cfg.APIRateLimitBurst),
		httpadapter.WithBackpressure(256, 50*time.Millisecond),
	)

	mux := http.NewServeMux()
	mux.Handle("/", router.Handler())
	mux.Handle("/metrics", serverMetrics.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
}
