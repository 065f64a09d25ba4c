// internal/app/features/orders/status.go
package orders

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kitandahub/kitanda/internal/app/policy/orderpolicy"
	"github.com/kitandahub/kitanda/internal/app/store/audit"
	notificationstore "github.com/kitandahub/kitanda/internal/app/store/notifications"
	orderstore "github.com/kitandahub/kitanda/internal/app/store/orders"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/orderflow"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type statusInput struct {
	Status string `json:"status"`
}

// HandleSetStatus handles PUT /orders/{id}/status. Two gates, in order:
// the caller must be a party allowed to drive this order (ownership), and
// the move must be legal for their role (state machine). Moving into
// a caminho stamps the deliverer as courier, which covers both courier
// pickup and lojista self-delivery.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var in statusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := orderstore.New(h.DB, h.Log)
	o, err := store.GetByID(ctx, id)
	if err == orderstore.ErrNotFound {
		respond.Error(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		h.Log.Error("load order failed", zap.Error(err), zap.String("order_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load order")
		return
	}

	if !orderpolicy.CanTransition(r, o) {
		respond.Error(w, http.StatusForbidden, "not a party to this order")
		return
	}
	if err := orderflow.Validate(o.Status, in.Status, role); err != nil {
		switch err {
		case orderflow.ErrUnknownStatus:
			respond.Error(w, http.StatusBadRequest, "unknown order status")
		case orderflow.ErrIllegalTransition:
			respond.Error(w, http.StatusConflict, "illegal status transition")
		default:
			respond.Error(w, http.StatusForbidden, "role may not perform this transition")
		}
		return
	}

	// Entering a caminho assigns the deliverer.
	if in.Status == models.StatusACaminho && o.CourierID == nil {
		err = store.SetStatusWithCourier(ctx, id, in.Status, uid, name)
	} else {
		err = store.SetStatus(ctx, id, in.Status)
	}
	if err == orderstore.ErrNotFound {
		respond.Error(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		h.Log.Error("status update failed", zap.Error(err),
			zap.String("order_id", id.Hex()),
			zap.String("to", in.Status))
		respond.Error(w, http.StatusInternalServerError, "could not update status")
		return
	}

	h.AuditLog.Admin(ctx, r, audit.EventOrderStatusChanged, uid, nil, map[string]string{
		"order_id": id.Hex(),
		"from":     o.Status,
		"to":       in.Status,
	})
	h.notifyStatusChange(ctx, o, in.Status)

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("reload order failed", zap.Error(err), zap.String("order_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load order")
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// notifyStatusChange tells the client their order moved. Failures are
// logged and ignored.
func (h *Handler) notifyStatusChange(ctx context.Context, o models.Order, status string) {
	notif := notificationstore.New(h.DB)
	if err := notif.Add(ctx, o.ClientID, "Estado da encomenda",
		"A tua encomenda está agora: "+status, "/orders/"+o.ID.Hex()); err != nil {
		h.Log.Warn("status notification failed", zap.Error(err),
			zap.String("order_id", o.ID.Hex()))
	}
}
