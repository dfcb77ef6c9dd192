package initializers

import (
	"context"
	"fmt"
	"time"

	"github.com/Kariqs/bookbuy-api/repositories"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// ConnectToDB connects to MongoDB and checks the primary is reachable.
func ConnectToDB(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetTimeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return client, nil
}

// OpenStore returns the repositories for cfg.DBDriver and a function that
// releases them.
func OpenStore(ctx context.Context, cfg *Config, log *zap.Logger) (*repositories.Store, func(context.Context) error, error) {
	if cfg.DBDriver == DriverMemory {
		log.Warn("Using in-memory store, data is lost on restart")
		return repositories.NewMemoryStore(), func(context.Context) error { return nil }, nil
	}

	client, err := ConnectToDB(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.MongoDB)
	if err := SyncDatabase(ctx, db, log); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	log.Info("Connected to database", zap.String("database", cfg.MongoDB))
	return repositories.NewMongoStore(db), client.Disconnect, nil
}
