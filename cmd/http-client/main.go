package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-stock/internal/client"
	"product-stock/internal/config"
	"product-stock/internal/logger"
	"product-stock/internal/model"
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
	)

	if cfg.ExternalHTTP == "" {
		logger.Error(globalCtx, "EXTERNAL_HTTP environment variable is not set")
		os.Exit(1)
	}

	api := client.NewProductAPI(client.NewHTTPClient(cfg.ExternalHTTP, 2*time.Second))

	logger.Info(globalCtx, "HTTP client started",
		slog.String("target", cfg.ExternalHTTP),
		slog.Int64("max_client_delay", cfg.ClientMaxSleepMs),
	)

	for {
		select {
		case <-globalCtx.Done():
			logger.Info(globalCtx, "Shutting down HTTP client")
			return
		default:
		}

		ctx, cancel := context.WithTimeout(globalCtx, 3*time.Second)
		exercise(ctx, api)
		cancel()

		time.Sleep(time.Duration(rand.Int63n(max(cfg.ClientMaxSleepMs, 1))+1) * time.Millisecond)
	}
}

// exercise lists products and then either reduces stock or asks for a discount
// on a random one.
func exercise(ctx context.Context, api *client.ProductAPI) {
	products, err := api.ListProducts(ctx, model.ListQuery{Limit: model.MaxListLimit})
	if err != nil {
		logger.Error(ctx, "Failed to list products", slog.String("error", err.Error()))
		return
	}
	logger.Info(ctx, "Received products", slog.Int("count", len(products)))
	if len(products) == 0 {
		return
	}

	p := products[rand.Intn(len(products))]
	if rand.Intn(2) == 0 {
		res, err := api.ReduceStock(ctx, p.ID, rand.Intn(3)+1)
		if err != nil {
			logger.Error(ctx, "Failed to reduce stock", slog.String("id", p.ID), slog.String("error", err.Error()))
			return
		}
		logger.Info(ctx, "Reduced stock",
			slog.String("id", p.ID),
			slog.Bool("success", res.Success),
			slog.Int("stock", res.Stock),
		)
		return
	}

	d, err := api.Discount(ctx, p.ID, float64(rand.Intn(101)))
	if err != nil {
		logger.Error(ctx, "Failed to calculate discount", slog.String("id", p.ID), slog.String("error", err.Error()))
		return
	}
	logger.Info(ctx, "Calculated discount",
		slog.String("id", p.ID),
		slog.Float64("percentage", d.Percentage),
		slog.Float64("discounted_price", d.DiscountedPrice),
	)
}
