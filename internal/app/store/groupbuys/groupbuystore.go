// internal/app/store/groupbuys/groupbuystore.go
package groupbuystore

import (
	"context"
	"errors"
	"time"

	"github.com/kitandahub/kitanda/internal/app/system/txn"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when the group buy does not exist.
	ErrNotFound = errors.New("group buy not found")
	// ErrBadTarget is returned when the target participant count is below 2.
	ErrBadTarget = errors.New("target must be at least 2 participants")
)

// Store manages group_buys and its child collections. The creator membership
// write and the cascade delete touch the children, so they live here next to
// the group document itself.
type Store struct {
	groups    *mongo.Collection
	members   *mongo.Collection
	requests  *mongo.Collection
	messages  *mongo.Collection
	cartItems *mongo.Collection
	staged    *mongo.Collection
	log       *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		groups:    db.Collection("group_buys"),
		members:   db.Collection("group_members"),
		requests:  db.Collection("group_join_requests"),
		messages:  db.Collection("group_messages"),
		cartItems: db.Collection("group_cart_items"),
		staged:    db.Collection("group_cart_contributions"),
		log:       logger,
	}
}

// GetByID returns one group buy, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.GroupBuy, error) {
	var g models.GroupBuy
	err := s.groups.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return models.GroupBuy{}, ErrNotFound
	}
	if err != nil {
		return models.GroupBuy{}, err
	}
	return g, nil
}

// Create inserts the group buy with participants=1 and the creator as its
// sole member, in one transaction. The returned group carries the assigned
// ID and timestamps.
func (s *Store) Create(ctx context.Context, g models.GroupBuy) (models.GroupBuy, error) {
	if g.Target < 2 {
		return models.GroupBuy{}, ErrBadTarget
	}

	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.Participants = 1
	g.CreatedAt = now

	creator := models.GroupMember{
		GroupID:  g.ID,
		UserID:   g.CreatorID,
		UserName: g.CreatorName,
		JoinedAt: now,
	}

	err := txn.Run(ctx, s.groups.Database().Client(), s.log, func(ctx context.Context) error {
		if _, err := s.groups.InsertOne(ctx, g); err != nil {
			return err
		}
		_, err := s.members.InsertOne(ctx, creator)
		return err
	})
	if err != nil {
		return models.GroupBuy{}, err
	}
	return g, nil
}

// List returns group buys, newest first.
func (s *Store) List(ctx context.Context, limit int64) ([]models.GroupBuy, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.groups.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.GroupBuy
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete cascades: join requests, members, chat messages, and staging data
// go first, then the group document. The cascade is not one transaction, so
// a partial failure leaves orphaned children (known limitation); children
// are keyed by group_id, so a retry finishes the cleanup.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	children := []*mongo.Collection{s.requests, s.members, s.messages, s.cartItems, s.staged}
	for _, c := range children {
		if _, err := c.DeleteMany(ctx, bson.M{"group_id": id}); err != nil {
			return 0, err
		}
	}
	res, err := s.groups.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
