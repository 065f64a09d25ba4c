// internal/app/store/promopayments/promopaymentstore.go
package promopaymentstore

import (
	"context"
	"errors"
	"time"

	"github.com/kitandahub/kitanda/internal/app/system/refcode"
	"github.com/kitandahub/kitanda/internal/app/system/txn"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when the payment does not exist.
	ErrNotFound = errors.New("promotion payment not found")
	// ErrNotPending is returned when approving or rejecting a payment that a
	// concurrent session already resolved.
	ErrNotPending = errors.New("promotion payment is not pending")
)

// Store manages promotion payments and the promoted flag they drive on
// products. Approve and Reject move both documents in one transaction so a
// payment decision and its product flag can never disagree.
type Store struct {
	payments *mongo.Collection
	products *mongo.Collection
	log      *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		payments: db.Collection("promotion_payments"),
		products: db.Collection("products"),
		log:      logger,
	}
}

// GetByID returns one payment, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.PromotionPayment, error) {
	var p models.PromotionPayment
	err := s.payments.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.PromotionPayment{}, ErrNotFound
	}
	if err != nil {
		return models.PromotionPayment{}, err
	}
	return p, nil
}

// Request opens a pending payment for promoting a product and flips the
// product's promoted flag to pending in the same transaction. The returned
// payment carries the generated reference code the lojista quotes when
// paying.
func (s *Store) Request(ctx context.Context, lojistaID primitive.ObjectID, product models.Product, tier string, amount float64) (models.PromotionPayment, error) {
	code, err := refcode.New()
	if err != nil {
		return models.PromotionPayment{}, err
	}

	now := time.Now().UTC()
	p := models.PromotionPayment{
		ID:            primitive.NewObjectID(),
		LojistaID:     lojistaID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		Tier:          tier,
		Amount:        amount,
		ReferenceCode: code,
		Status:        models.PaymentPendente,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = txn.Run(ctx, s.payments.Database().Client(), s.log, func(ctx context.Context) error {
		if _, err := s.payments.InsertOne(ctx, p); err != nil {
			return err
		}
		_, err := s.products.UpdateByID(ctx, product.ID, bson.M{"$set": bson.M{
			"is_promoted": models.PromotedPending,
			"updated_at":  now,
		}})
		return err
	})
	if err != nil {
		return models.PromotionPayment{}, err
	}
	return p, nil
}

// Approve resolves a pending payment to aprovado and activates the
// product's promotion, both in one transaction. The status filter on the
// payment update makes Approve race-safe: when two admin sessions resolve
// the same payment, the second one matches nothing and gets ErrNotPending.
func (s *Store) Approve(ctx context.Context, id primitive.ObjectID) (models.PromotionPayment, error) {
	return s.resolve(ctx, id, models.PaymentAprovado, models.PromotedActive)
}

// Reject resolves a pending payment to rejeitado and returns the product
// to unpromoted, so the lojista can request again.
func (s *Store) Reject(ctx context.Context, id primitive.ObjectID) (models.PromotionPayment, error) {
	return s.resolve(ctx, id, models.PaymentRejeitado, models.PromotedInactive)
}

func (s *Store) resolve(ctx context.Context, id primitive.ObjectID, paymentStatus, promotedFlag string) (models.PromotionPayment, error) {
	var p models.PromotionPayment
	err := txn.Run(ctx, s.payments.Database().Client(), s.log, func(ctx context.Context) error {
		now := time.Now().UTC()
		res, err := s.payments.UpdateOne(ctx,
			bson.M{"_id": id, "status": models.PaymentPendente},
			bson.M{"$set": bson.M{
				"status":     paymentStatus,
				"updated_at": now,
			}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			ferr := s.payments.FindOne(ctx, bson.M{"_id": id}).Err()
			if ferr == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			if ferr != nil {
				return ferr
			}
			return ErrNotPending
		}

		if ferr := s.payments.FindOne(ctx, bson.M{"_id": id}).Decode(&p); ferr != nil {
			return ferr
		}
		_, err = s.products.UpdateByID(ctx, p.ProductID, bson.M{"$set": bson.M{
			"is_promoted": promotedFlag,
			"updated_at":  now,
		}})
		return err
	})
	if err != nil {
		return models.PromotionPayment{}, err
	}
	return p, nil
}

// ListFilter narrows List.
type ListFilter struct {
	LojistaID *primitive.ObjectID
	Status    string
}

// List returns payments matching the filter, newest first.
func (s *Store) List(ctx context.Context, f ListFilter, limit int64) ([]models.PromotionPayment, error) {
	filter := bson.M{}
	if f.LojistaID != nil {
		filter["lojista_id"] = *f.LojistaID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.payments.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.PromotionPayment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
