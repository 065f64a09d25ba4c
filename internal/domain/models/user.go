// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold. A user has exactly one role; couriers may
// additionally be the lojista of the order they deliver (self-delivery).
const (
	RoleClient  = "client"
	RoleLojista = "lojista"
	RoleAdmin   = "admin"
	RoleCourier = "courier"
)

// User is an account in the marketplace.
//
// EmailCI is the case-folded form of Email and is the unique login key.
// PasswordHash is empty for Google-only accounts (AuthMethod "google").
type User struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"`
	Role         string             `bson:"role" json:"role"`
	AuthMethod   string             `bson:"auth_method" json:"-"` // "password" | "google"
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Status       string             `bson:"status" json:"status"` // "active" | "disabled"

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
