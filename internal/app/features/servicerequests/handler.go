// internal/app/features/servicerequests/handler.go
package servicerequests

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for service bookings: a
// client books a service listing, the lojista accepts or declines, and
// marks accepted work done.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}
