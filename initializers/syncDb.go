package initializers

import (
	"context"
	"fmt"

	"github.com/Kariqs/bookbuy-api/repositories"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

// SyncDatabase creates the indexes the repositories rely on.
func SyncDatabase(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	if err := repositories.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("failed to sync database: %w", err)
	}
	log.Info("Database synced successfully.")
	return nil
}
