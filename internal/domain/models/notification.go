// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is a stored message for a user. Delivery is whatever the
// client polls; the server only records and marks read.
type Notification struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title  string             `bson:"title" json:"title"`
	Body   string             `bson:"body" json:"body"`
	Link   string             `bson:"link,omitempty" json:"link,omitempty"`
	Read   bool               `bson:"read" json:"read"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
