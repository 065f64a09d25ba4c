// internal/domain/models/contribution.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contribution is a member's paid share of a group order. Exactly one
// document per (order_id, user_id); finalizing twice overwrites rather than
// duplicating a member's share.
type Contribution struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID  primitive.ObjectID `bson:"order_id" json:"order_id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	UserName string             `bson:"user_name" json:"user_name"`
	Amount   float64            `bson:"amount" json:"amount"`
	Lat      float64            `bson:"lat" json:"lat"`
	Lon      float64            `bson:"lon" json:"lon"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
