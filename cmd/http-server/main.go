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

	"product-stock/internal/config"
	handler "product-stock/internal/handler/http"
	"product-stock/internal/logger"
	"product-stock/internal/repository"
	"product-stock/internal/service"
	"product-stock/internal/tracer"
	"product-stock/internal/version"
)

func main() {
	globalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Instance()
	cfg := config.Instance()

	logger.Info(globalCtx, cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
		slog.Bool("gracefulShutdown", cfg.IsProduction()),
	)

	// Initialize telemetry (OpenTelemetry + Pyroscope)
	shutdown, err := tracer.Instance(globalCtx)
	if err != nil {
		logger.Error(globalCtx, "Failed to initialize tracer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer shutdown()

	store, closeStore, err := repository.Open(globalCtx, cfg)
	if err != nil {
		logger.Error(globalCtx, "Failed to open product store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore(context.Background())

	// Wiring
	productHandler := handler.NewProductHandler(service.NewProductService(store))
	healthHandler := handler.NewHealthHandler(service.NewHealthService(store))

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      handler.NewRouter(productHandler, healthHandler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(globalCtx, "HTTP server running", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(globalCtx, "Server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-globalCtx.Done()

	if !cfg.IsProduction() {
		logger.Info(globalCtx, "Received shutdown signal, exiting immediately")
		return
	}

	logger.Info(globalCtx, "Shutting down HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error(ctx, "HTTP server shutdown failed", slog.String("error", err.Error()))
		return
	}
	logger.Info(ctx, "HTTP server exited cleanly")
}
