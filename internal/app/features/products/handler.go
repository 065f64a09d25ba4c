// internal/app/features/products/handler.go
package products

import (
	"github.com/kitandahub/kitanda/internal/app/system/media"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the products feature.
// Media may be nil when no object store is configured; image uploads then
// answer 503.
type Handler struct {
	DB    *mongo.Database
	Log   *zap.Logger
	Media *media.Store
}

func NewHandler(db *mongo.Database, mediaStore *media.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Log:   logger,
		Media: mediaStore,
	}
}
