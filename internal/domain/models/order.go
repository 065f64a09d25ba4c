// internal/domain/models/order.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses, in delivery order. The stored values are the Portuguese
// labels the storefront displays; code refers to them through these consts.
const (
	StatusPendente          = "pendente"
	StatusAguardarLojista   = "a aguardar lojista"
	StatusProntoParaRecolha = "pronto para recolha"
	StatusACaminho          = "a caminho"
	StatusAguardandoConfirm = "aguardando confirmação"
	StatusEntregue          = "entregue"
	StatusCancelado         = "cancelado"
)

// Order types.
const (
	OrderTypeGroup      = "group"
	OrderTypeIndividual = "individual"
)

// OrderItem is one line of an order: a product snapshot plus quantity.
type OrderItem struct {
	Product  ProductSnapshot `bson:"product" json:"product"`
	Quantity int             `bson:"quantity" json:"quantity"`
}

// Order is a checkout result, group or individual. Group orders carry the
// originating group and a contribution document per paying member in the
// order_contributions collection.
type Order struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	GroupID     *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`
	GroupName   string              `bson:"group_name,omitempty" json:"group_name,omitempty"`
	ClientID    primitive.ObjectID  `bson:"client_id" json:"client_id"`
	ClientName  string              `bson:"client_name" json:"client_name"`
	Items       []OrderItem         `bson:"items" json:"items"`
	TotalAmount float64             `bson:"total_amount" json:"total_amount"`
	Status      string              `bson:"status" json:"status"`
	OrderType   string              `bson:"order_type" json:"order_type"`
	LojistaID   primitive.ObjectID  `bson:"lojista_id" json:"lojista_id"`

	CourierID   *primitive.ObjectID `bson:"courier_id,omitempty" json:"courier_id,omitempty"`
	CourierName string              `bson:"courier_name,omitempty" json:"courier_name,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
