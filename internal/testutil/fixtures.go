// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	userstore "github.com/kitandahub/kitanda/internal/app/store/users"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Chained calls accumulate parameters on the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name, email, and role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		Email:      email,
		EmailCI:    userstore.FoldEmail(email),
		Role:       role,
		AuthMethod: "password",
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateProduct creates a test product listing owned by lojistaID.
func (f *Fixtures) CreateProduct(ctx context.Context, lojistaID primitive.ObjectID, name string, price float64) models.Product {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Product{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: "Test listing",
		Price:       price,
		Category:    "geral",
		ProductType: models.ProductTypeProduct,
		Stock:       10,
		IsPromoted:  models.PromotedInactive,
		LojistaID:   lojistaID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("products").InsertOne(ctx, p)
	if err != nil {
		f.t.Fatalf("failed to create test product: %v", err)
	}

	return p
}

// CreateService creates a test service listing owned by lojistaID.
func (f *Fixtures) CreateService(ctx context.Context, lojistaID primitive.ObjectID, name string, price float64) models.Product {
	f.t.Helper()

	p := f.CreateProduct(ctx, lojistaID, name, price)
	_, err := f.db.Collection("products").UpdateByID(ctx, p.ID,
		bson.M{"$set": bson.M{"product_type": models.ProductTypeService, "stock": 0}})
	if err != nil {
		f.t.Fatalf("failed to mark test product as service: %v", err)
	}
	p.ProductType = models.ProductTypeService
	p.Stock = 0
	return p
}

// CreateGroupBuy creates a test group buy for the given product with the
// creator as its sole member, mirroring what the production create path
// writes: the group document with participants=1 plus one member document.
func (f *Fixtures) CreateGroupBuy(ctx context.Context, creator models.User, product models.Product, target int) models.GroupBuy {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.GroupBuy{
		ID:           primitive.NewObjectID(),
		Name:         "Test Group",
		Description:  "Test group buy",
		Price:        product.Price,
		Target:       target,
		Participants: 1,
		CreatorID:    creator.ID,
		CreatorName:  creator.FullName,
		Product: models.ProductSnapshot{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			LojistaID: product.LojistaID,
		},
		CreatedAt: now,
	}

	if _, err := f.db.Collection("group_buys").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group buy: %v", err)
	}

	member := models.GroupMember{
		GroupID:  g.ID,
		UserID:   creator.ID,
		UserName: creator.FullName,
		JoinedAt: now,
	}
	if _, err := f.db.Collection("group_members").InsertOne(ctx, member); err != nil {
		f.t.Fatalf("failed to create test creator membership: %v", err)
	}

	return g
}

// CreateMember adds user as an approved member of the group.
func (f *Fixtures) CreateMember(ctx context.Context, groupID primitive.ObjectID, user models.User) models.GroupMember {
	f.t.Helper()

	m := models.GroupMember{
		GroupID:  groupID,
		UserID:   user.ID,
		UserName: user.FullName,
		JoinedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("group_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test group member: %v", err)
	}
	return m
}

// CreateJoinRequest adds a pending join request from user for the group.
func (f *Fixtures) CreateJoinRequest(ctx context.Context, groupID primitive.ObjectID, user models.User) models.JoinRequest {
	f.t.Helper()

	req := models.JoinRequest{
		GroupID:     groupID,
		UserID:      user.ID,
		UserName:    user.FullName,
		RequestedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("group_join_requests").InsertOne(ctx, req); err != nil {
		f.t.Fatalf("failed to create test join request: %v", err)
	}
	return req
}

// CreateOrder creates a test individual order from client to the lojista
// with a single item, in the given status.
func (f *Fixtures) CreateOrder(ctx context.Context, client models.User, product models.Product, status string) models.Order {
	f.t.Helper()

	now := time.Now().UTC()
	o := models.Order{
		ID:         primitive.NewObjectID(),
		ClientID:   client.ID,
		ClientName: client.FullName,
		Items: []models.OrderItem{{
			Product: models.ProductSnapshot{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				LojistaID: product.LojistaID,
			},
			Quantity: 1,
		}},
		TotalAmount: product.Price,
		Status:      status,
		OrderType:   models.OrderTypeIndividual,
		LojistaID:   product.LojistaID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("orders").InsertOne(ctx, o); err != nil {
		f.t.Fatalf("failed to create test order: %v", err)
	}
	return o
}
