// internal/app/features/servicerequests/booking.go
package servicerequests

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	notificationstore "github.com/kitandahub/kitanda/internal/app/store/notifications"
	productstore "github.com/kitandahub/kitanda/internal/app/store/products"
	servicerequeststore "github.com/kitandahub/kitanda/internal/app/store/servicerequests"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/sanitize"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type bookingInput struct {
	ProductID string `json:"product_id"`
	Note      string `json:"note"`
}

// HandleCreate handles POST /services: a client books a service listing.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in bookingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
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
		respond.Error(w, http.StatusNotFound, "service not found")
		return
	}
	if err != nil {
		h.Log.Error("load service failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load service")
		return
	}
	if p.ProductType != models.ProductTypeService {
		respond.Error(w, http.StatusBadRequest, "listing is not a service")
		return
	}

	req, err := servicerequeststore.New(h.DB).Create(ctx, models.ServiceRequest{
		ProductID:   p.ID,
		ProductName: p.Name,
		LojistaID:   p.LojistaID,
		ClientID:    uid,
		ClientName:  name,
		Note:        sanitize.Text(in.Note),
	})
	if err != nil {
		h.Log.Error("create service request failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not book service")
		return
	}

	if nerr := notificationstore.New(h.DB).Add(ctx, p.LojistaID, "Pedido de serviço",
		name+" pediu o serviço "+p.Name, "/services/"+req.ID.Hex()); nerr != nil {
		h.Log.Warn("booking notification failed", zap.Error(nerr))
	}

	h.Log.Info("service requested",
		zap.String("request_id", req.ID.Hex()),
		zap.String("product_id", p.ID.Hex()))
	respond.Created(w, req)
}

// ServeList handles GET /services. Clients see their bookings, lojistas
// the requests against their listings; ?status filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	f := servicerequeststore.ListFilter{Status: r.URL.Query().Get("status")}
	switch role {
	case models.RoleLojista:
		f.LojistaID = &uid
	case models.RoleAdmin:
		// no scoping
	default:
		f.ClientID = &uid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := servicerequeststore.New(h.DB).List(ctx, f, 200)
	if err != nil {
		h.Log.Error("list service requests failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load service requests")
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// HandleAccept handles POST /services/{id}/accept (owning lojista).
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, "aceite", func(ctx context.Context, s *servicerequeststore.Store, id, uid primitive.ObjectID) error {
		return s.Accept(ctx, id, uid)
	})
}

// HandleDecline handles POST /services/{id}/decline (owning lojista).
func (h *Handler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, "recusado", func(ctx context.Context, s *servicerequeststore.Store, id, uid primitive.ObjectID) error {
		return s.Decline(ctx, id, uid)
	})
}

// HandleComplete handles POST /services/{id}/complete (owning lojista).
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, "concluído", func(ctx context.Context, s *servicerequeststore.Store, id, uid primitive.ObjectID) error {
		return s.Complete(ctx, id, uid)
	})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, label string, op func(context.Context, *servicerequeststore.Store, primitive.ObjectID, primitive.ObjectID) error) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := servicerequeststore.New(h.DB)
	err = op(ctx, store, id, uid)
	if err == servicerequeststore.ErrNotFound {
		respond.Error(w, http.StatusNotFound, "service request not found")
		return
	}
	if err == servicerequeststore.ErrBadTransition {
		respond.Error(w, http.StatusConflict, "service request already resolved")
		return
	}
	if err != nil {
		h.Log.Error("service request update failed", zap.Error(err), zap.String("request_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not update service request")
		return
	}

	req, err := store.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("reload service request failed", zap.Error(err), zap.String("request_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load service request")
		return
	}

	if nerr := notificationstore.New(h.DB).Add(ctx, req.ClientID, "Pedido de serviço",
		"O pedido de "+req.ProductName+" está "+label, "/services/"+req.ID.Hex()); nerr != nil {
		h.Log.Warn("service notification failed", zap.Error(nerr))
	}
	respond.JSON(w, http.StatusOK, req)
}
