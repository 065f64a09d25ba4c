// internal/domain/models/cartitem.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is staging state for a group buy's working cart: what the group
// intends to order before finalization. Advisory only; the authoritative
// record is the Order written at finalization.
type CartItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`
	Product  ProductSnapshot    `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// StagedContribution is a member's declared share while the cart is still
// open, keyed by (group_id, user_id). Copied into order_contributions at
// finalization, then cleared with the rest of the staging data.
type StagedContribution struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	UserName string             `bson:"user_name" json:"user_name"`
	Amount   float64            `bson:"amount" json:"amount"`
	Lat      float64            `bson:"lat" json:"lat"`
	Lon      float64            `bson:"lon" json:"lon"`

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
