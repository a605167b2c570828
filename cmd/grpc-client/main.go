package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"product-stock/internal/config"
	pb "product-stock/internal/handler/grpc/pb"
	"product-stock/internal/logger"
	middleware_grpc "product-stock/internal/middleware/grpc"
	"product-stock/internal/model"
	"product-stock/internal/tracer"
	"product-stock/internal/version"
)

func main() {
	// Create cancellable context for graceful shutdown
	globalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Instance()
	cfg := config.Instance()

	logger.Info(globalCtx, cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
	)

	shutdown, err := tracer.Instance(globalCtx)
	if err != nil {
		logger.Error(globalCtx, "Failed to initialize tracer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer shutdown()

	if cfg.ExternalGRPC == "" {
		logger.Error(globalCtx, "EXTERNAL_GRPC environment variable is not set")
		os.Exit(1)
	}

	conn, err := grpc.NewClient(
		cfg.ExternalGRPC,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultServiceConfig(`{"loadBalancingPolicy":"round_robin"}`),
		grpc.WithUnaryInterceptor(middleware_grpc.UnaryClientInterceptor()),
	)
	if err != nil {
		logger.Error(globalCtx, "Failed to connect to gRPC server",
			slog.String("error", err.Error()),
			slog.String("target", cfg.ExternalGRPC),
		)
		os.Exit(1)
	}
	defer func() {
		logger.Info(globalCtx, "Closing gRPC connection")
		_ = conn.Close()
	}()

	client := pb.NewProductServiceClient(conn)

	logger.Info(globalCtx, "gRPC client started",
		slog.String("target", cfg.ExternalGRPC),
		slog.Int64("max_client_delay", cfg.ClientMaxSleepMs),
	)

	for {
		select {
		case <-globalCtx.Done():
			logger.Info(globalCtx, "Shutting down gRPC client")
			return
		default:
		}

		ctx, cancel := context.WithTimeout(globalCtx, 3*time.Second)
		exercise(ctx, client)
		cancel()

		time.Sleep(time.Duration(rand.Int63n(max(cfg.ClientMaxSleepMs, 1))+1) * time.Millisecond)
	}
}

func traceIDFrom(trailer metadata.MD) string {
	if ids := trailer.Get(middleware_grpc.TraceIDTrailer); len(ids) > 0 {
		return ids[0]
	}
	return "empty"
}

// exercise lists products and then either reduces stock or asks for a discount
// on a random one.
func exercise(ctx context.Context, client pb.ProductServiceClient) {
	req, err := pb.ListRequest{Limit: model.MaxListLimit}.Struct()
	if err != nil {
		logger.Error(ctx, "Failed to encode request", slog.String("error", err.Error()))
		return
	}
	var trailer metadata.MD
	out, err := client.GetAll(ctx, req, grpc.Trailer(&trailer))
	if err != nil {
		logger.Error(ctx, "Error calling GetAll",
			slog.String("error", err.Error()),
			slog.String("trace_id", traceIDFrom(trailer)),
		)
		return
	}
	list, err := pb.ParseProductList(out)
	if err != nil {
		logger.Error(ctx, "Malformed GetAll response", slog.String("error", err.Error()))
		return
	}
	logger.Info(ctx, "Received products",
		slog.String("resolver", list.Resolver),
		slog.String("trace_id", traceIDFrom(trailer)),
		slog.Int("count", len(list.Products)),
	)
	if len(list.Products) == 0 {
		return
	}

	p := list.Products[rand.Intn(len(list.Products))]
	if rand.Intn(2) == 0 {
		in, err := pb.ReduceStockRequest{ID: p.ID, Quantity: rand.Intn(3) + 1}.Struct()
		if err != nil {
			logger.Error(ctx, "Failed to encode request", slog.String("error", err.Error()))
			return
		}
		out, err := client.ReduceStock(ctx, in)
		if err != nil {
			logger.Error(ctx, "Error calling ReduceStock", slog.String("id", p.ID), slog.String("error", err.Error()))
			return
		}
		res, err := pb.ParseReduceStockResult(out)
		if err != nil {
			logger.Error(ctx, "Malformed ReduceStock response", slog.String("error", err.Error()))
			return
		}
		logger.Info(ctx, "Reduced stock",
			slog.String("id", p.ID),
			slog.Bool("success", res.Success),
			slog.Int("stock", res.Stock),
		)
		return
	}

	in, err := pb.DiscountRequest{ID: p.ID, Percentage: float64(rand.Intn(101))}.Struct()
	if err != nil {
		logger.Error(ctx, "Failed to encode request", slog.String("error", err.Error()))
		return
	}
	d, err := client.CalculateDiscount(ctx, in)
	if err != nil {
		logger.Error(ctx, "Error calling CalculateDiscount", slog.String("id", p.ID), slog.String("error", err.Error()))
		return
	}
	logger.Info(ctx, "Calculated discount",
		slog.String("id", p.ID),
		slog.Float64("price", p.Price),
		slog.Float64("discounted_price", d.GetValue()),
	)
}
