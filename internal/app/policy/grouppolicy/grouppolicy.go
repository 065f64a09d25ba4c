// internal/app/policy/grouppolicy.go
package grouppolicy

import (
	"context"
	"net/http"

	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IsMember returns true if the given user is a member of the given group
// according to the authoritative group_members collection.
func IsMember(ctx context.Context, db *mongo.Database, groupID, userID primitive.ObjectID) (bool, error) {
	c := db.Collection("group_members")
	n, err := c.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"user_id":  userID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CanManageGroup reports whether the current request user can manage the
// group (approve join requests, remove members, finalize, delete):
// - Admins always can
// - Otherwise only the group's creator can
func CanManageGroup(r *http.Request, creatorID primitive.ObjectID) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	return uid == creatorID
}

// CanParticipate reports whether the current request user can read the
// group's chat and cart and post to them: the creator, any member, or an
// admin.
func CanParticipate(ctx context.Context, db *mongo.Database, r *http.Request, groupID, creatorID primitive.ObjectID) (bool, error) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}
	if role == models.RoleAdmin || uid == creatorID {
		return true, nil
	}
	return IsMember(ctx, db, groupID, uid)
}
