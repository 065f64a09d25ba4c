// internal/app/store/servicerequests/servicerequeststore.go
package servicerequeststore

import (
	"context"
	"errors"
	"time"

	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when the service request does not exist.
	ErrNotFound = errors.New("service request not found")
	// ErrBadTransition is returned when the request is not in the state the
	// operation expects (accept/decline need pendente, complete needs aceite).
	ErrBadTransition = errors.New("service request is not in the required state")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("service_requests")}
}

// Create opens a pending booking of a service listing.
func (s *Store) Create(ctx context.Context, r models.ServiceRequest) (models.ServiceRequest, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.Status = models.ServicePending
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.ServiceRequest{}, err
	}
	return r, nil
}

// GetByID returns one request, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ServiceRequest, error) {
	var r models.ServiceRequest
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return models.ServiceRequest{}, ErrNotFound
	}
	if err != nil {
		return models.ServiceRequest{}, err
	}
	return r, nil
}

// Accept moves a pending request to aceite, scoped to the owning lojista.
func (s *Store) Accept(ctx context.Context, id, lojistaID primitive.ObjectID) error {
	return s.transition(ctx, id, lojistaID, models.ServicePending, models.ServiceAccepted)
}

// Decline moves a pending request to recusado, scoped to the owning lojista.
func (s *Store) Decline(ctx context.Context, id, lojistaID primitive.ObjectID) error {
	return s.transition(ctx, id, lojistaID, models.ServicePending, models.ServiceDeclined)
}

// Complete moves an accepted request to concluído, scoped to the owning
// lojista.
func (s *Store) Complete(ctx context.Context, id, lojistaID primitive.ObjectID) error {
	return s.transition(ctx, id, lojistaID, models.ServiceAccepted, models.ServiceCompleted)
}

// transition applies a guarded status move. The from-status filter keeps
// concurrent sessions from double-resolving a request.
func (s *Store) transition(ctx context.Context, id, lojistaID primitive.ObjectID, from, to string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "lojista_id": lojistaID, "status": from},
		bson.M{"$set": bson.M{
			"status":     to,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		ferr := s.c.FindOne(ctx, bson.M{"_id": id, "lojista_id": lojistaID}).Err()
		if ferr == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		if ferr != nil {
			return ferr
		}
		return ErrBadTransition
	}
	return nil
}

// ListFilter narrows List to one party's requests.
type ListFilter struct {
	LojistaID *primitive.ObjectID
	ClientID  *primitive.ObjectID
	Status    string
}

// List returns requests matching the filter, newest first.
func (s *Store) List(ctx context.Context, f ListFilter, limit int64) ([]models.ServiceRequest, error) {
	filter := bson.M{}
	if f.LojistaID != nil {
		filter["lojista_id"] = *f.LojistaID
	}
	if f.ClientID != nil {
		filter["client_id"] = *f.ClientID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ServiceRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
