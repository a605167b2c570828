package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"product-stock/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var (
	instance *Mongo
	once     sync.Once
)

// Instance connects once per process; later calls return the same client.
func Instance(globalCtx context.Context, uri, dbName string) (*Mongo, error) {
	var err error

	once.Do(func() {
		if uri == "" || dbName == "" {
			err = errors.New("mongo uri and database name are required")
			return
		}

		opts := options.Client().
			ApplyURI(uri).
			SetMonitor(otelmongo.NewMonitor())

		client, connErr := mongo.Connect(globalCtx, opts)
		if connErr != nil {
			logger.Error(globalCtx, "Failed to connect to MongoDB", slog.String("error", connErr.Error()))
			err = fmt.Errorf("connect mongo: %w", connErr)
			return
		}

		pingCtx, cancel := context.WithTimeout(globalCtx, 5*time.Second)
		defer cancel()
		if pingErr := client.Ping(pingCtx, nil); pingErr != nil {
			logger.Error(globalCtx, "MongoDB ping failed", slog.String("error", pingErr.Error()))
			_ = client.Disconnect(globalCtx)
			err = fmt.Errorf("ping mongo: %w", pingErr)
			return
		}

		logger.Info(globalCtx, "Connected to MongoDB successfully", slog.String("database", dbName))

		instance = &Mongo{
			Client:   client,
			Database: client.Database(dbName),
		}
	})

	if err == nil && instance == nil {
		err = errors.New("mongo connection was not established")
	}
	return instance, err
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
