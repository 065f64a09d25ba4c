// internal/domain/models/joinrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JoinRequest is a pending request to join a group buy. Exactly one document
// per (group_id, user_id); re-requesting refreshes RequestedAt. Approval
// deletes the request and creates a GroupMember in one transaction.
type JoinRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID     primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	UserName    string             `bson:"user_name" json:"user_name"`
	RequestedAt time.Time          `bson:"requested_at" json:"requested_at"`
}
