// internal/domain/models/servicerequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service request statuses.
const (
	ServicePending   = "pendente"
	ServiceAccepted  = "aceite"
	ServiceDeclined  = "recusado"
	ServiceCompleted = "concluído"
)

// ServiceRequest is a client's booking of a service-type listing. The
// lojista accepts or declines; accepted requests are completed by the
// lojista when the work is done.
type ServiceRequest struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	ProductID   primitive.ObjectID `bson:"product_id" json:"product_id"`
	ProductName string             `bson:"product_name" json:"product_name"`
	LojistaID   primitive.ObjectID `bson:"lojista_id" json:"lojista_id"`
	ClientID    primitive.ObjectID `bson:"client_id" json:"client_id"`
	ClientName  string             `bson:"client_name" json:"client_name"`
	Note        string             `bson:"note,omitempty" json:"note,omitempty"`
	Status      string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
