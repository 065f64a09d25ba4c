// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/kitandahub/kitanda/internal/app/system/indexes"
	"github.com/kitandahub/kitanda/internal/app/system/media"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client and, when configured, the object
// store for product images.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return DBDeps{}, err
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.StorageEndpoint != "" {
		store, err := media.New(ctx, media.Config{
			Endpoint:  appCfg.StorageEndpoint,
			AccessKey: appCfg.StorageAccessKey,
			SecretKey: appCfg.StorageSecretKey,
			Bucket:    appCfg.StorageBucket,
			Region:    appCfg.StorageRegion,
			UseSSL:    appCfg.StorageUseSSL,
			PublicURL: appCfg.StoragePublicURL,
		})
		if err != nil {
			return DBDeps{}, err
		}
		deps.Media = store
		logger.Info("connected to object storage",
			zap.String("endpoint", appCfg.StorageEndpoint),
			zap.String("bucket", appCfg.StorageBucket))
	} else {
		logger.Warn("object storage not configured; image uploads disabled")
	}

	return deps, nil
}

// EnsureSchema creates the indexes the stores rely on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return indexes.Ensure(ctx, deps.MongoDatabase, logger)
}
