package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"product-stock/internal/config"
	grpcHandler "product-stock/internal/handler/grpc"
	pb "product-stock/internal/handler/grpc/pb"
	"product-stock/internal/logger"
	middleware_grpc "product-stock/internal/middleware/grpc"
	"product-stock/internal/repository"
	"product-stock/internal/service"
	"product-stock/internal/tracer"
	"product-stock/internal/version"
)

func main() {
	// Create cancellable context for graceful shutdown
	globalCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

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
	productHandler := grpcHandler.NewProductGRPCHandler(service.NewProductService(store))

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(middleware_grpc.UnaryTracingInterceptor()),
	)
	pb.RegisterProductServiceServer(grpcServer, productHandler)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+cfg.AppPort)
	if err != nil {
		logger.Error(globalCtx, "failed to listen", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info(globalCtx, "gRPC server running", slog.String("port", cfg.AppPort))

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error(globalCtx, "failed to serve", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-globalCtx.Done()

	if !cfg.IsProduction() {
		logger.Info(globalCtx, "Received shutdown signal, exiting immediately")
		grpcServer.Stop()
		return
	}

	logger.Info(globalCtx, "Shutting down gRPC server")
	grpcServer.GracefulStop()
	logger.Info(globalCtx, "gRPC server exited cleanly")
}
