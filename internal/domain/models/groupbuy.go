// internal/domain/models/groupbuy.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupBuy is a collective purchase offer that fills as participants join.
//
// Participants is recomputed from the group_members collection inside the
// same transaction as every membership change, so it cannot drift from the
// actual member count.
type GroupBuy struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	Target       int                `bson:"target" json:"target"`
	Participants int                `bson:"participants" json:"participants"`
	CreatorID    primitive.ObjectID `bson:"creator_id" json:"creator_id"`
	CreatorName  string             `bson:"creator_name" json:"creator_name"`
	Product      ProductSnapshot    `bson:"product" json:"product"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
