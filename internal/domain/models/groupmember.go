// internal/domain/models/groupmember.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupMember is an approved participant of a group buy. Exactly one
// document per (group_id, user_id). Created for the creator at group
// creation and for others on join-request approval; never updated.
type GroupMember struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	UserName string             `bson:"user_name" json:"user_name"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}
