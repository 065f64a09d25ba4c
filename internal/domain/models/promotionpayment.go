// internal/domain/models/promotionpayment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Promotion payment statuses.
const (
	PaymentPendente  = "pendente"
	PaymentAprovado  = "aprovado"
	PaymentRejeitado = "rejeitado"
)

// PromotionPayment records a lojista's payment for promoting a listing.
// The reference code is what the lojista quotes when paying by transfer;
// an admin matches the transfer and approves or rejects here.
type PromotionPayment struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	LojistaID     primitive.ObjectID `bson:"lojista_id" json:"lojista_id"`
	ProductID     primitive.ObjectID `bson:"product_id" json:"product_id"`
	ProductName   string             `bson:"product_name" json:"product_name"`
	Tier          string             `bson:"tier" json:"tier"`
	Amount        float64            `bson:"amount" json:"amount"`
	ReferenceCode string             `bson:"reference_code" json:"reference_code"`
	Status        string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
