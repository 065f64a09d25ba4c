// internal/domain/models/chatmessage.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is one message in a group buy's chat. Messages are deleted
// with the group (cascade), never individually.
type ChatMessage struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	UserName string             `bson:"user_name" json:"user_name"`
	Body     string             `bson:"body" json:"body"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
