// internal/app/store/members/memberstore.go
package memberstore

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
	// ErrGroupNotFound is returned when the group buy no longer exists.
	ErrGroupNotFound = errors.New("group buy not found")
	// ErrCreatorRemoval is returned when a caller tries to remove the group's
	// creator; the creator can only leave by deleting the whole group.
	ErrCreatorRemoval = errors.New("the group creator cannot be removed")
)

// Store manages join requests and memberships for group buys. Approval and
// removal run as one transaction over {request-or-member, group} so
// concurrent admin sessions cannot lose participant-count updates.
//
// The participants field on the group is never incremented blindly: inside
// each transaction the member cardinality is recounted and written back, so
// the counter cannot drift from the group_members collection.
type Store struct {
	groups   *mongo.Collection
	members  *mongo.Collection
	requests *mongo.Collection
	log      *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		groups:   db.Collection("group_buys"),
		members:  db.Collection("group_members"),
		requests: db.Collection("group_join_requests"),
		log:      logger,
	}
}

// RequestJoin upserts a join request keyed by (group, user). Re-requesting
// refreshes requested_at; there is no error path for "already requested".
func (s *Store) RequestJoin(ctx context.Context, groupID, userID primitive.ObjectID, userName string) error {
	err := s.groups.FindOne(ctx, bson.M{"_id": groupID}).Err()
	if err == mongo.ErrNoDocuments {
		return ErrGroupNotFound
	}
	if err != nil {
		return err
	}

	_, err = s.requests.UpdateOne(ctx,
		bson.M{"group_id": groupID, "user_id": userID},
		bson.M{"$set": bson.M{
			"user_name":    userName,
			"requested_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true))
	return err
}

// Approve handles a join request in one transaction: insert the member from
// the request's name, delete the request, and rewrite participants from the
// member count. If the request no longer exists (a concurrent session
// already handled it), Approve is a logged no-op returning (false, nil).
// A missing group returns ErrGroupNotFound.
func (s *Store) Approve(ctx context.Context, groupID, userID primitive.ObjectID) (approved bool, err error) {
	err = txn.Run(ctx, s.groups.Database().Client(), s.log, func(ctx context.Context) error {
		approved = false // reset in case the transaction retried

		var req models.JoinRequest
		ferr := s.requests.FindOne(ctx, bson.M{"group_id": groupID, "user_id": userID}).Decode(&req)
		if ferr == mongo.ErrNoDocuments {
			s.log.Info("join request already handled; approve is a no-op",
				zap.String("group_id", groupID.Hex()),
				zap.String("user_id", userID.Hex()))
			return nil
		}
		if ferr != nil {
			return ferr
		}

		if gerr := s.groups.FindOne(ctx, bson.M{"_id": groupID}).Err(); gerr == mongo.ErrNoDocuments {
			return ErrGroupNotFound
		} else if gerr != nil {
			return gerr
		}

		member := models.GroupMember{
			GroupID:  groupID,
			UserID:   userID,
			UserName: req.UserName,
			JoinedAt: time.Now().UTC(),
		}
		if _, ierr := s.members.InsertOne(ctx, member); ierr != nil {
			return ierr
		}
		if _, derr := s.requests.DeleteOne(ctx, bson.M{"group_id": groupID, "user_id": userID}); derr != nil {
			return derr
		}

		approved = true
		return s.syncParticipants(ctx, groupID)
	})
	if err != nil {
		return false, err
	}
	return approved, nil
}

// Remove deletes a member and rewrites participants in one transaction.
// The creator cannot be removed. A member that is already gone is tolerated;
// the recount still runs so the counter ends up right either way.
func (s *Store) Remove(ctx context.Context, groupID, userID primitive.ObjectID, isCreator bool) error {
	if isCreator {
		return ErrCreatorRemoval
	}

	return txn.Run(ctx, s.groups.Database().Client(), s.log, func(ctx context.Context) error {
		if gerr := s.groups.FindOne(ctx, bson.M{"_id": groupID}).Err(); gerr == mongo.ErrNoDocuments {
			return ErrGroupNotFound
		} else if gerr != nil {
			return gerr
		}

		if _, derr := s.members.DeleteOne(ctx, bson.M{"group_id": groupID, "user_id": userID}); derr != nil {
			return derr
		}
		return s.syncParticipants(ctx, groupID)
	})
}

// syncParticipants writes the member cardinality onto the group document.
// Must run inside the same transaction as the membership change.
func (s *Store) syncParticipants(ctx context.Context, groupID primitive.ObjectID) error {
	n, err := s.members.CountDocuments(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return err
	}
	_, err = s.groups.UpdateByID(ctx, groupID, bson.M{"$set": bson.M{"participants": n}})
	return err
}

// ListMembers returns a group's members ordered by join time.
func (s *Store) ListMembers(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMember, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})
	cur, err := s.members.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.GroupMember
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRequests returns a group's pending join requests, oldest first.
func (s *Store) ListRequests(ctx context.Context, groupID primitive.ObjectID) ([]models.JoinRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: 1}})
	cur, err := s.requests.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.JoinRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IsMember checks whether userID is a member of groupID.
func (s *Store) IsMember(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	err := s.members.FindOne(ctx, bson.M{"group_id": groupID, "user_id": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
