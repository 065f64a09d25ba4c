// internal/app/store/chats/chatstore.go
package chatstore

import (
	"context"
	"time"

	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages group chat messages.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_messages")}
}

// Add appends a message to a group's chat.
func (s *Store) Add(ctx context.Context, groupID, userID primitive.ObjectID, userName, body string) (models.ChatMessage, error) {
	m := models.ChatMessage{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		UserName:  userName,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.ChatMessage{}, err
	}
	return m, nil
}

// ListByGroup returns a group's messages in send order.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID, limit int64) ([]models.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ChatMessage
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
