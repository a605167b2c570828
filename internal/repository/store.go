package repository

import (
	"context"
	"fmt"
	"log/slog"

	"product-stock/internal/config"
	"product-stock/internal/database"
	"product-stock/internal/logger"
	"product-stock/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the full persistence surface used by the servers.
type Store interface {
	Insert(ctx context.Context, product *model.ProductRecord) error
	FindAll(ctx context.Context, q model.ListQuery) ([]model.ProductRecord, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.ProductRecord, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ReduceStock(ctx context.Context, id primitive.ObjectID, quantity int) (bool, error)
	Ping(ctx context.Context) error
}

// Open selects the store named by cfg.StoreDriver. The returned func releases it.
func Open(ctx context.Context, cfg *config.Config) (Store, func(context.Context), error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Info(ctx, "Using in-memory product store")
		return NewMemoryProductRepository(), func(context.Context) {}, nil
	case config.StoreMongo:
		db, err := database.Instance(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		logger.Info(ctx, "Using MongoDB product store", slog.String("db", cfg.MongoDBName))
		return NewProductRepository(db.Database), func(ctx context.Context) {
			if err := db.Close(ctx); err != nil {
				logger.Error(ctx, "Failed to disconnect MongoDB", slog.String("error", err.Error()))
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
