// internal/app/features/groupbuys/finalize.go
package groupbuys

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kitandahub/kitanda/internal/app/policy/grouppolicy"
	"github.com/kitandahub/kitanda/internal/app/store/audit"
	cartstore "github.com/kitandahub/kitanda/internal/app/store/carts"
	groupbuystore "github.com/kitandahub/kitanda/internal/app/store/groupbuys"
	memberstore "github.com/kitandahub/kitanda/internal/app/store/members"
	notificationstore "github.com/kitandahub/kitanda/internal/app/store/notifications"
	orderstore "github.com/kitandahub/kitanda/internal/app/store/orders"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleFinalize handles POST /groups/{id}/finalize (creator or admin).
//
// The cart lines become order items and the staged contributions become
// contribution documents, written together in one transaction; an order can
// never exist with half its contributions. Staging data is cleared
// afterwards and every member is notified.
func (h *Handler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := groupbuystore.New(h.DB, h.Log).GetByID(ctx, groupID)
	if err == groupbuystore.ErrNotFound {
		respond.Error(w, http.StatusNotFound, "group not found")
		return
	}
	if err != nil {
		h.Log.Error("load group failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load group")
		return
	}
	if !grouppolicy.CanManageGroup(r, g.CreatorID) {
		respond.Error(w, http.StatusForbidden, "only the creator can finalize the group")
		return
	}

	carts := cartstore.New(h.DB)
	items, err := carts.Items(ctx, groupID)
	if err != nil {
		h.Log.Error("load cart failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load cart")
		return
	}
	if len(items) == 0 {
		respond.Error(w, http.StatusConflict, "the cart is empty")
		return
	}
	staged, err := carts.Contributions(ctx, groupID)
	if err != nil {
		h.Log.Error("load contributions failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load contributions")
		return
	}

	var (
		orderItems []models.OrderItem
		total      float64
	)
	for _, it := range items {
		orderItems = append(orderItems, models.OrderItem{
			Product:  it.Product,
			Quantity: it.Quantity,
		})
		total += it.Product.Price * float64(it.Quantity)
	}

	contributions := make([]models.Contribution, 0, len(staged))
	for _, c := range staged {
		contributions = append(contributions, models.Contribution{
			UserID:   c.UserID,
			UserName: c.UserName,
			Amount:   c.Amount,
			Lat:      c.Lat,
			Lon:      c.Lon,
		})
	}

	// Every item in a group cart belongs to the same lojista as the group's
	// product snapshot.
	o := models.Order{
		GroupID:     &groupID,
		GroupName:   g.Name,
		ClientID:    g.CreatorID,
		ClientName:  g.CreatorName,
		Items:       orderItems,
		TotalAmount: total,
		OrderType:   models.OrderTypeGroup,
		LojistaID:   g.Product.LojistaID,
	}

	created, err := orderstore.New(h.DB, h.Log).CreateFinal(ctx, o, contributions)
	if err == orderstore.ErrNoItems {
		respond.Error(w, http.StatusConflict, "the cart is empty")
		return
	}
	if err != nil {
		h.Log.Error("finalize failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not finalize group")
		return
	}

	if err := carts.Clear(ctx, groupID); err != nil {
		h.Log.Warn("cart cleanup after finalize failed", zap.Error(err),
			zap.String("group_id", groupID.Hex()),
			zap.String("order_id", created.ID.Hex()))
	}

	h.AuditLog.Admin(ctx, r, audit.EventOrderFinalized, actorID, nil, map[string]string{
		"group_id": groupID.Hex(),
		"order_id": created.ID.Hex(),
	})
	h.notifyMembers(ctx, groupID, g.Name, created.ID)

	h.Log.Info("group finalized",
		zap.String("group_id", groupID.Hex()),
		zap.String("order_id", created.ID.Hex()),
		zap.Float64("total", total))
	respond.Created(w, created)
}

// notifyMembers tells every group member the order was placed. Failures are
// logged and ignored; the order is already committed.
func (h *Handler) notifyMembers(ctx context.Context, groupID primitive.ObjectID, groupName string, orderID primitive.ObjectID) {
	members, err := memberstore.New(h.DB, h.Log).ListMembers(ctx, groupID)
	if err != nil {
		h.Log.Warn("list members for notification failed", zap.Error(err),
			zap.String("group_id", groupID.Hex()))
		return
	}

	notif := notificationstore.New(h.DB)
	for _, m := range members {
		if err := notif.Add(ctx, m.UserID, "Encomenda criada",
			"O grupo "+groupName+" finalizou a encomenda", "/orders/"+orderID.Hex()); err != nil {
			h.Log.Warn("finalize notification failed", zap.Error(err),
				zap.String("user_id", m.UserID.Hex()))
		}
	}
}
