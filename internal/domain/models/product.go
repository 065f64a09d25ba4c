// internal/domain/models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Promotion states for a product listing. A listing starts inactive, moves
// to pending when the lojista requests paid promotion, and becomes active
// when an admin approves the payment. A rejected payment returns the
// listing to inactive so the lojista can request again.
const (
	PromotedInactive = "inactive"
	PromotedPending  = "pending"
	PromotedActive   = "active"
)

// Product types: physical goods carry stock; services are booked through
// service requests and ignore the stock field.
const (
	ProductTypeProduct = "product"
	ProductTypeService = "service"
)

// Product is a lojista's listing.
type Product struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	ProductType string             `bson:"product_type" json:"product_type"`
	Stock       int                `bson:"stock" json:"stock"`
	IsPromoted  string             `bson:"is_promoted" json:"is_promoted"`
	ImageURLs   []string           `bson:"image_urls" json:"image_urls"`
	LojistaID   primitive.ObjectID `bson:"lojista_id" json:"lojista_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ProductSnapshot is the frozen subset of a product embedded in group buys
// and order items, so later edits to the listing don't rewrite history.
type ProductSnapshot struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	ImageURL  string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	LojistaID primitive.ObjectID `bson:"lojista_id" json:"lojista_id"`
}
