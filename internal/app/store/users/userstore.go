// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrBadCredentials is returned on a wrong password, an unknown email,
	// or a password login against a Google-only account. One error for all
	// three so the login handler cannot leak which part failed.
	ErrBadCredentials = errors.New("invalid email or password")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// FoldEmail returns the case-insensitive login key for an email address.
func FoldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a password account. The email's folded form must be
// unique; a duplicate insert maps to ErrEmailTaken.
func (s *Store) Register(ctx context.Context, fullName, email, password, role string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		Email:        strings.TrimSpace(email),
		EmailCI:      FoldEmail(email),
		Role:         role,
		AuthMethod:   "password",
		PasswordHash: string(hash),
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate checks a password login. Google-only accounts have no hash
// and always fail here.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err == ErrNotFound {
		return models.User{}, ErrBadCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if u.PasswordHash == "" {
		return models.User{}, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrBadCredentials
	}
	return u, nil
}

// UpsertGoogle finds or creates the account for a Google sign-in. An
// existing account keeps its role and password; a new one is created as a
// client with AuthMethod "google".
func (s *Store) UpsertGoogle(ctx context.Context, fullName, email string) (models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if err != ErrNotFound {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u = models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		Email:      strings.TrimSpace(email),
		EmailCI:    FoldEmail(email),
		Role:       models.RoleClient,
		AuthMethod: "google",
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			// Lost a race with a concurrent first sign-in; the other
			// insert won, so read it back.
			return s.GetByEmail(ctx, email)
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID returns one user, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail looks a user up by the folded email key.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email_ci": FoldEmail(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// SetRole changes a user's role (admin operation).
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"role":       role,
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
