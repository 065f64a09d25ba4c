// internal/app/store/orders/orderstore.go
package orderstore

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
	// ErrNotFound is returned when the order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrNoItems is returned when a finalization carries an empty item list.
	ErrNoItems = errors.New("order has no items")
)

// Store manages orders and their contribution children.
type Store struct {
	orders        *mongo.Collection
	contributions *mongo.Collection
	log           *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		orders:        db.Collection("orders"),
		contributions: db.Collection("order_contributions"),
		log:           logger,
	}
}

// GetByID returns one order, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var o models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}

// CreateFinal writes the order plus one contribution document per entry in
// one transaction: either everything lands or nothing does. Contributions
// are upserted by (order_id, user_id), so re-finalizing the same member
// overwrites rather than duplicating their share. The order starts at
// status pendente with a server-assigned creation time.
func (s *Store) CreateFinal(ctx context.Context, o models.Order, contributions []models.Contribution) (models.Order, error) {
	if len(o.Items) == 0 {
		return models.Order{}, ErrNoItems
	}

	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	o.Status = models.StatusPendente
	o.CreatedAt = now
	o.UpdatedAt = now

	err := txn.Run(ctx, s.orders.Database().Client(), s.log, func(ctx context.Context) error {
		if _, err := s.orders.InsertOne(ctx, o); err != nil {
			return err
		}
		for _, c := range contributions {
			_, err := s.contributions.UpdateOne(ctx,
				bson.M{"order_id": o.ID, "user_id": c.UserID},
				bson.M{"$set": bson.M{
					"user_name":  c.UserName,
					"amount":     c.Amount,
					"lat":        c.Lat,
					"lon":        c.Lon,
					"created_at": now,
				}},
				options.Update().SetUpsert(true))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// On a standalone server txn.Run degrades to sequential writes, so a
		// failure mid-batch can leave the order plus some contributions
		// behind. The order ID is fresh, so sweeping by it undoes exactly
		// this call. After a real transaction rollback both deletes match
		// nothing.
		if _, derr := s.contributions.DeleteMany(ctx, bson.M{"order_id": o.ID}); derr != nil {
			s.log.Warn("finalization cleanup failed", zap.Error(derr), zap.String("order_id", o.ID.Hex()))
		}
		if _, derr := s.orders.DeleteOne(ctx, bson.M{"_id": o.ID}); derr != nil {
			s.log.Warn("finalization cleanup failed", zap.Error(derr), zap.String("order_id", o.ID.Hex()))
		}
		return models.Order{}, err
	}
	return o, nil
}

// CreateIndividual writes a non-group order. No contributions are involved.
func (s *Store) CreateIndividual(ctx context.Context, o models.Order) (models.Order, error) {
	if len(o.Items) == 0 {
		return models.Order{}, ErrNoItems
	}

	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	o.GroupID = nil
	o.GroupName = ""
	o.OrderType = models.OrderTypeIndividual
	o.Status = models.StatusPendente
	o.CreatedAt = now
	o.UpdatedAt = now

	if _, err := s.orders.InsertOne(ctx, o); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

// SetStatus writes a new status. Legality of the transition is the caller's
// responsibility (checked through orderflow before calling); this is the
// single-document last-writer-wins update the rest of the statuses use.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.orders.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatusWithCourier writes a new status and stamps the courier in the
// same update (courier assignment and lojista self-delivery).
func (s *Store) SetStatusWithCourier(ctx context.Context, id primitive.ObjectID, status string, courierID primitive.ObjectID, courierName string) error {
	res, err := s.orders.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":       status,
		"courier_id":   courierID,
		"courier_name": courierName,
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFilter narrows List to one party's orders.
type ListFilter struct {
	ClientID  *primitive.ObjectID
	LojistaID *primitive.ObjectID
	CourierID *primitive.ObjectID
	Status    string
}

// List returns orders matching the filter, newest first.
func (s *Store) List(ctx context.Context, f ListFilter, limit int64) ([]models.Order, error) {
	filter := bson.M{}
	if f.ClientID != nil {
		filter["client_id"] = *f.ClientID
	}
	if f.LojistaID != nil {
		filter["lojista_id"] = *f.LojistaID
	}
	if f.CourierID != nil {
		filter["courier_id"] = *f.CourierID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Contributions returns the contribution documents for an order.
func (s *Store) Contributions(ctx context.Context, orderID primitive.ObjectID) ([]models.Contribution, error) {
	cur, err := s.contributions.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Contribution
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
