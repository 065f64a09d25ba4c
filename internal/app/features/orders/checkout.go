// internal/app/features/orders/checkout.go
package orders

import (
	"context"
	"encoding/json"
	"net/http"

	orderstore "github.com/kitandahub/kitanda/internal/app/store/orders"
	productstore "github.com/kitandahub/kitanda/internal/app/store/products"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type checkoutLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type checkoutInput struct {
	Items []checkoutLine `json:"items"`
}

// HandleCheckout handles POST /orders: an individual (non-group) order.
// Every line must name an existing product of the same lojista; prices come
// from the current listings, not from the caller.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	_, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in checkoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(in.Items) == 0 {
		respond.Error(w, http.StatusBadRequest, "items are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	products := productstore.New(h.DB)
	var (
		items     []models.OrderItem
		total     float64
		lojistaID primitive.ObjectID
	)
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			respond.Error(w, http.StatusBadRequest, "quantity must be positive")
			return
		}
		pid, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid product_id")
			return
		}
		p, err := products.GetByID(ctx, pid)
		if err == productstore.ErrNotFound {
			respond.Error(w, http.StatusBadRequest, "product does not exist")
			return
		}
		if err != nil {
			h.Log.Error("load product failed", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "could not load product")
			return
		}
		if lojistaID.IsZero() {
			lojistaID = p.LojistaID
		} else if lojistaID != p.LojistaID {
			respond.Error(w, http.StatusBadRequest, "all items must belong to the same lojista")
			return
		}

		snapshot := models.ProductSnapshot{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			LojistaID: p.LojistaID,
		}
		if len(p.ImageURLs) > 0 {
			snapshot.ImageURL = p.ImageURLs[0]
		}
		items = append(items, models.OrderItem{Product: snapshot, Quantity: line.Quantity})
		total += p.Price * float64(line.Quantity)
	}

	created, err := orderstore.New(h.DB, h.Log).CreateIndividual(ctx, models.Order{
		ClientID:    uid,
		ClientName:  name,
		Items:       items,
		TotalAmount: total,
		LojistaID:   lojistaID,
	})
	if err != nil {
		h.Log.Error("checkout failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not place order")
		return
	}

	h.Log.Info("order placed",
		zap.String("order_id", created.ID.Hex()),
		zap.String("client_id", uid.Hex()),
		zap.Float64("total", total))
	respond.Created(w, created)
}
