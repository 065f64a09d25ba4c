// internal/app/features/groupbuys/cart.go
package groupbuys

import (
	"context"
	"encoding/json"
	"net/http"

	cartstore "github.com/kitandahub/kitanda/internal/app/store/carts"
	productstore "github.com/kitandahub/kitanda/internal/app/store/products"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// cartView is the GET /groups/{id}/cart response.
type cartView struct {
	Items         []models.CartItem           `json:"items"`
	Contributions []models.StagedContribution `json:"contributions"`
}

// ServeCart handles GET /groups/{id}/cart (participants only).
func (h *Handler) ServeCart(w http.ResponseWriter, r *http.Request) {
	groupID, _, ok := h.loadForParticipant(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	carts := cartstore.New(h.DB)
	var view cartView
	var err error

	view.Items, err = carts.Items(ctx, groupID)
	if err != nil {
		h.Log.Error("load cart failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load cart")
		return
	}
	view.Contributions, err = carts.Contributions(ctx, groupID)
	if err != nil {
		h.Log.Error("load contributions failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load contributions")
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

type cartItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// HandlePutCartItem handles PUT /groups/{id}/cart/items (participants
// only). Quantity 0 removes the line.
func (h *Handler) HandlePutCartItem(w http.ResponseWriter, r *http.Request) {
	groupID, _, ok := h.loadForParticipant(w, r)
	if !ok {
		return
	}

	var in cartItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Quantity < 0 {
		respond.Error(w, http.StatusBadRequest, "quantity cannot be negative")
		return
	}
	productID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid product_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := productstore.New(h.DB).GetByID(ctx, productID)
	if err == productstore.ErrNotFound {
		respond.Error(w, http.StatusBadRequest, "product does not exist")
		return
	}
	if err != nil {
		h.Log.Error("load product failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load product")
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

	if err := cartstore.New(h.DB).PutItem(ctx, groupID, snapshot, in.Quantity); err != nil {
		h.Log.Error("put cart item failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not update cart")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type contributionInput struct {
	Amount float64 `json:"amount"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// HandlePutContribution handles PUT /groups/{id}/cart/contribution: a
// member stages their own share of the cart total.
func (h *Handler) HandlePutContribution(w http.ResponseWriter, r *http.Request) {
	groupID, _, ok := h.loadForParticipant(w, r)
	if !ok {
		return
	}
	_, name, uid, _ := authz.UserCtx(r)

	var in contributionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Amount <= 0 {
		respond.Error(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := cartstore.New(h.DB).PutContribution(ctx, models.StagedContribution{
		GroupID:  groupID,
		UserID:   uid,
		UserName: name,
		Amount:   in.Amount,
		Lat:      in.Lat,
		Lon:      in.Lon,
	})
	if err != nil {
		h.Log.Error("put contribution failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not record contribution")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}
