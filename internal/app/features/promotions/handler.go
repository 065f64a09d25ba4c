// internal/app/features/promotions/handler.go
package promotions

import (
	"github.com/kitandahub/kitanda/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the promotion-payment
// workflow: lojistas request paid promotion of a listing, admins match the
// bank transfer by reference code and approve or reject.
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
