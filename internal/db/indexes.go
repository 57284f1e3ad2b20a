package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abdussamietahir2006-stack/remotage-backend/internal/logger"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/models"
)

// IndexModels returns the indexes each collection needs, keyed by collection name.
// Leads expire through a TTL index on createdAt; page content ids are unique.
func IndexModels(leadTTL time.Duration) map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		models.LeadsCollection: {
			{
				Keys:    bson.D{{Key: "createdAt", Value: 1}},
				Options: options.Index().SetName("createdAt_ttl").SetExpireAfterSeconds(int32(leadTTL / time.Second)),
			},
		},
		models.PageContentCollection: {
			{
				Keys:    bson.D{{Key: "id", Value: 1}},
				Options: options.Index().SetName("id_unique").SetUnique(true),
			},
		},
	}
}

// EnsureIndexes creates the TTL and unique indexes. Creating an index that
// already exists with the same definition is a no-op on the server.
func EnsureIndexes(ctx context.Context, database *mongo.Database, leadTTL time.Duration) error {
	for collection, indexes := range IndexModels(leadTTL) {
		names, err := database.Collection(collection).Indexes().CreateMany(ctx, indexes)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
		logger.GetLogger().Infow("Indexes ensured", "collection", collection, "indexes", names)
	}
	return nil
}
