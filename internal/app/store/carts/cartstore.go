// internal/app/store/carts/cartstore.go
package cartstore

import (
	"context"
	"time"

	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages a group buy's staging data: the working cart and the
// per-member staged contributions. Everything here is advisory scratch
// state; the authoritative record is written by the order finalizer.
type Store struct {
	items    *mongo.Collection
	contribs *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		items:    db.Collection("group_cart_items"),
		contribs: db.Collection("group_cart_contributions"),
	}
}

// PutItem upserts a cart line for a product, keyed by (group, product).
// Quantity 0 removes the line.
func (s *Store) PutItem(ctx context.Context, groupID primitive.ObjectID, product models.ProductSnapshot, quantity int) error {
	key := bson.M{"group_id": groupID, "product.product_id": product.ProductID}
	if quantity <= 0 {
		_, err := s.items.DeleteOne(ctx, key)
		return err
	}
	_, err := s.items.UpdateOne(ctx, key,
		bson.M{"$set": bson.M{
			"product":    product,
			"quantity":   quantity,
			"updated_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true))
	return err
}

// Items returns the group's cart lines.
func (s *Store) Items(ctx context.Context, groupID primitive.ObjectID) ([]models.CartItem, error) {
	cur, err := s.items.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.CartItem
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PutContribution upserts a member's staged share, keyed by (group, user).
func (s *Store) PutContribution(ctx context.Context, c models.StagedContribution) error {
	_, err := s.contribs.UpdateOne(ctx,
		bson.M{"group_id": c.GroupID, "user_id": c.UserID},
		bson.M{"$set": bson.M{
			"user_name":  c.UserName,
			"amount":     c.Amount,
			"lat":        c.Lat,
			"lon":        c.Lon,
			"updated_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true))
	return err
}

// Contributions returns the group's staged contributions.
func (s *Store) Contributions(ctx context.Context, groupID primitive.ObjectID) ([]models.StagedContribution, error) {
	cur, err := s.contribs.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.StagedContribution
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Clear drops all staging data for a group after finalization. Not atomic
// with the finalizer's transaction: a crash in between leaves stale staging
// rows behind, which is acceptable for scratch state.
func (s *Store) Clear(ctx context.Context, groupID primitive.ObjectID) error {
	if _, err := s.items.DeleteMany(ctx, bson.M{"group_id": groupID}); err != nil {
		return err
	}
	_, err := s.contribs.DeleteMany(ctx, bson.M{"group_id": groupID})
	return err
}
