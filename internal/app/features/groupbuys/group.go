// internal/app/features/groupbuys/group.go
package groupbuys

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kitandahub/kitanda/internal/app/policy/grouppolicy"
	"github.com/kitandahub/kitanda/internal/app/store/audit"
	groupbuystore "github.com/kitandahub/kitanda/internal/app/store/groupbuys"
	memberstore "github.com/kitandahub/kitanda/internal/app/store/members"
	productstore "github.com/kitandahub/kitanda/internal/app/store/products"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/sanitize"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const listLimit = 200

type createGroupInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Target      int     `json:"target"`
	ProductID   string  `json:"product_id"`
	Price       float64 `json:"price"`
}

// HandleCreate handles POST /groups. The creator becomes the first member
// and participants starts at 1.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in createGroupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in.Name = sanitize.Text(in.Name)
	in.Description = sanitize.Text(in.Description)
	if in.Name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(in.Name) > 200 {
		respond.Error(w, http.StatusBadRequest, "name must be at most 200 characters")
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

	price := in.Price
	if price <= 0 {
		price = p.Price
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

	g, err := groupbuystore.New(h.DB, h.Log).Create(ctx, models.GroupBuy{
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		Target:      in.Target,
		CreatorID:   uid,
		CreatorName: name,
		Product:     snapshot,
	})
	if err == groupbuystore.ErrBadTarget {
		respond.Error(w, http.StatusBadRequest, "target must be at least 2 participants")
		return
	}
	if err != nil {
		h.Log.Error("create group failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not create group")
		return
	}

	h.Log.Info("group buy created",
		zap.String("group_id", g.ID.Hex()),
		zap.String("creator_id", uid.Hex()))
	respond.Created(w, g)
}

// ServeList handles GET /groups.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := groupbuystore.New(h.DB, h.Log).List(ctx, listLimit)
	if err != nil {
		h.Log.Error("list groups failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load groups")
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// groupDetail is the GET /groups/{id} response: the group plus its member
// roster. Pending join requests are included only for whoever can manage
// the group.
type groupDetail struct {
	models.GroupBuy
	Members  []models.GroupMember `json:"members"`
	Requests []models.JoinRequest `json:"requests,omitempty"`
}

// ServeGet handles GET /groups/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := groupbuystore.New(h.DB, h.Log).GetByID(ctx, id)
	if err == groupbuystore.ErrNotFound {
		respond.Error(w, http.StatusNotFound, "group not found")
		return
	}
	if err != nil {
		h.Log.Error("load group failed", zap.Error(err), zap.String("group_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load group")
		return
	}

	members := memberstore.New(h.DB, h.Log)
	detail := groupDetail{GroupBuy: g}

	detail.Members, err = members.ListMembers(ctx, id)
	if err != nil {
		h.Log.Error("list members failed", zap.Error(err), zap.String("group_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load members")
		return
	}

	if grouppolicy.CanManageGroup(r, g.CreatorID) {
		detail.Requests, err = members.ListRequests(ctx, id)
		if err != nil {
			h.Log.Error("list requests failed", zap.Error(err), zap.String("group_id", id.Hex()))
			respond.Error(w, http.StatusInternalServerError, "could not load join requests")
			return
		}
	}

	respond.JSON(w, http.StatusOK, detail)
}

// HandleDelete handles DELETE /groups/{id} (creator or admin). Children go
// with the group.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	store := groupbuystore.New(h.DB, h.Log)
	g, err := store.GetByID(ctx, id)
	if err == groupbuystore.ErrNotFound {
		respond.Error(w, http.StatusNotFound, "group not found")
		return
	}
	if err != nil {
		h.Log.Error("load group failed", zap.Error(err), zap.String("group_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load group")
		return
	}
	if !grouppolicy.CanManageGroup(r, g.CreatorID) {
		respond.Error(w, http.StatusForbidden, "only the creator can delete the group")
		return
	}

	if _, err := store.Delete(ctx, id); err != nil {
		h.Log.Error("delete group failed", zap.Error(err), zap.String("group_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not delete group")
		return
	}

	h.AuditLog.Admin(ctx, r, audit.EventGroupDeleted, uid, nil, map[string]string{"group_id": id.Hex()})
	h.Log.Info("group buy deleted",
		zap.String("group_id", id.Hex()),
		zap.String("actor_id", uid.Hex()))
	respond.NoContent(w)
}
