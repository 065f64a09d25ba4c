// internal/app/features/orders/listget.go
package orders

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kitandahub/kitanda/internal/app/policy/orderpolicy"
	orderstore "github.com/kitandahub/kitanda/internal/app/store/orders"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const listLimit = 200

// ServeList handles GET /orders. The listing is scoped by role: clients
// see orders they placed, lojistas orders they sell, couriers orders
// assigned to them, admins everything. ?status filters further; couriers
// can ask for the unassigned pickup pool with ?available=1.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	f := orderstore.ListFilter{Status: r.URL.Query().Get("status")}
	switch role {
	case models.RoleClient:
		f.ClientID = &uid
	case models.RoleLojista:
		f.LojistaID = &uid
	case models.RoleCourier:
		if r.URL.Query().Get("available") == "1" {
			f.Status = models.StatusProntoParaRecolha
		} else {
			f.CourierID = &uid
		}
	case models.RoleAdmin:
		// no scoping
	default:
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := orderstore.New(h.DB, h.Log).List(ctx, f, listLimit)
	if err != nil {
		h.Log.Error("list orders failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load orders")
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// orderDetail is the GET /orders/{id} response: the order plus its
// contribution breakdown for group orders.
type orderDetail struct {
	models.Order
	Contributions []models.Contribution `json:"contributions,omitempty"`
}

// ServeGet handles GET /orders/{id}. Only parties to the order may see it.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid order id")
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
	if !orderpolicy.CanView(r, o) {
		respond.Error(w, http.StatusForbidden, "not a party to this order")
		return
	}

	detail := orderDetail{Order: o}
	if o.OrderType == models.OrderTypeGroup {
		detail.Contributions, err = store.Contributions(ctx, id)
		if err != nil {
			h.Log.Error("load contributions failed", zap.Error(err), zap.String("order_id", id.Hex()))
			respond.Error(w, http.StatusInternalServerError, "could not load contributions")
			return
		}
	}
	respond.JSON(w, http.StatusOK, detail)
}
