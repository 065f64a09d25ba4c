// internal/app/system/indexes/indexes.go

// Package indexes creates the MongoDB indexes the stores rely on. The
// unique indexes double as invariant enforcement: one membership and one
// join request per (group, user), one contribution per (order, user), one
// account per email.
package indexes

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type spec struct {
	collection string
	model      mongo.IndexModel
}

func unique() *options.IndexOptions {
	return options.Index().SetUnique(true)
}

var specs = []spec{
	{"users", mongo.IndexModel{
		Keys:    bson.D{{Key: "email_ci", Value: 1}},
		Options: unique(),
	}},
	{"group_members", mongo.IndexModel{
		Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: unique(),
	}},
	{"group_join_requests", mongo.IndexModel{
		Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: unique(),
	}},
	{"order_contributions", mongo.IndexModel{
		Keys:    bson.D{{Key: "order_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: unique(),
	}},
	{"promotion_payments", mongo.IndexModel{
		Keys:    bson.D{{Key: "reference_code", Value: 1}},
		Options: unique(),
	}},

	// Query-shape indexes
	{"orders", mongo.IndexModel{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}}},
	{"orders", mongo.IndexModel{Keys: bson.D{{Key: "lojista_id", Value: 1}, {Key: "created_at", Value: -1}}}},
	{"orders", mongo.IndexModel{Keys: bson.D{{Key: "courier_id", Value: 1}, {Key: "created_at", Value: -1}}}},
	{"orders", mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}}}},
	{"products", mongo.IndexModel{Keys: bson.D{{Key: "lojista_id", Value: 1}}}},
	{"products", mongo.IndexModel{Keys: bson.D{{Key: "category", Value: 1}, {Key: "is_promoted", Value: 1}}}},
	{"group_messages", mongo.IndexModel{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: 1}}}},
	{"group_cart_items", mongo.IndexModel{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "product.product_id", Value: 1}}}},
	{"group_cart_contributions", mongo.IndexModel{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "user_id", Value: 1}}}},
	{"notifications", mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}},
	{"service_requests", mongo.IndexModel{Keys: bson.D{{Key: "lojista_id", Value: 1}, {Key: "status", Value: 1}}}},
	{"audit_events", mongo.IndexModel{Keys: bson.D{{Key: "timestamp", Value: -1}}}},
}

// Ensure creates every index, logging what was built. CreateOne is
// idempotent for identical definitions, so Ensure is safe on every boot.
func Ensure(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	for _, s := range specs {
		name, err := db.Collection(s.collection).Indexes().CreateOne(ctx, s.model)
		if err != nil {
			logger.Error("index create failed",
				zap.String("collection", s.collection),
				zap.Error(err))
			return err
		}
		logger.Debug("index ensured",
			zap.String("collection", s.collection),
			zap.String("index", name))
	}
	return nil
}
