// internal/app/features/groupbuys/handler.go
package groupbuys

import (
	"github.com/kitandahub/kitanda/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the group-buy feature:
// the group lifecycle, join requests and membership, the group chat, the
// working cart, and finalization into an order.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
	}
}
