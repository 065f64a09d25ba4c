// internal/app/store/products/productstore.go
package productstore

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

// ErrNotFound is returned when the product does not exist.
var ErrNotFound = errors.New("product not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("products")}
}

// GetByID returns one product, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var p models.Product
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Create inserts a listing. New listings always start unpromoted.
func (s *Store) Create(ctx context.Context, p models.Product) (models.Product, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.IsPromoted = models.PromotedInactive
	if p.ProductType == "" {
		p.ProductType = models.ProductTypeProduct
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// UpdateInfo rewrites the editable listing fields, scoped to the owning
// lojista. Returns ErrNotFound when no document matches (wrong ID or not
// the caller's listing).
func (s *Store) UpdateInfo(ctx context.Context, id, lojistaID primitive.ObjectID, name, desc, category string, price float64, stock int) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "lojista_id": lojistaID},
		bson.M{"$set": bson.M{
			"name":        name,
			"description": desc,
			"category":    category,
			"price":       price,
			"stock":       stock,
			"updated_at":  time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddImageURL appends an uploaded image URL to the listing.
func (s *Store) AddImageURL(ctx context.Context, id, lojistaID primitive.ObjectID, url string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "lojista_id": lojistaID},
		bson.M{
			"$push": bson.M{"image_urls": url},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a listing, scoped to the owning lojista.
// Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id, lojistaID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "lojista_id": lojistaID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListFilter narrows List.
type ListFilter struct {
	LojistaID    *primitive.ObjectID
	Category     string
	ProductType  string
	PromotedOnly bool
}

// List returns products matching the filter. Promoted listings sort first,
// then newest.
func (s *Store) List(ctx context.Context, f ListFilter, limit int64) ([]models.Product, error) {
	filter := bson.M{}
	if f.LojistaID != nil {
		filter["lojista_id"] = *f.LojistaID
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.ProductType != "" {
		filter["product_type"] = f.ProductType
	}
	if f.PromotedOnly {
		filter["is_promoted"] = models.PromotedActive
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "is_promoted", Value: 1}, // "active" < "inactive" < "pending"
		{Key: "created_at", Value: -1},
	})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
