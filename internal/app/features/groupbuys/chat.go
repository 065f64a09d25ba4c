// internal/app/features/groupbuys/chat.go
package groupbuys

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kitandahub/kitanda/internal/app/policy/grouppolicy"
	chatstore "github.com/kitandahub/kitanda/internal/app/store/chats"
	groupbuystore "github.com/kitandahub/kitanda/internal/app/store/groupbuys"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/sanitize"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const chatLimit = 500

type chatInput struct {
	Body string `json:"body"`
}

// ServeChat handles GET /groups/{id}/chat (participants only).
func (h *Handler) ServeChat(w http.ResponseWriter, r *http.Request) {
	groupID, _, ok := h.loadForParticipant(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := chatstore.New(h.DB).ListByGroup(ctx, groupID, chatLimit)
	if err != nil {
		h.Log.Error("list chat failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load chat")
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// HandlePostChat handles POST /groups/{id}/chat (participants only).
func (h *Handler) HandlePostChat(w http.ResponseWriter, r *http.Request) {
	groupID, _, ok := h.loadForParticipant(w, r)
	if !ok {
		return
	}
	_, name, uid, _ := authz.UserCtx(r)

	var in chatInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in.Body = sanitize.Text(in.Body)
	if in.Body == "" {
		respond.Error(w, http.StatusBadRequest, "message body is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := chatstore.New(h.DB).Add(ctx, groupID, uid, name, in.Body)
	if err != nil {
		h.Log.Error("post chat failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not post message")
		return
	}
	respond.Created(w, m)
}

// loadForParticipant parses {id}, loads the group, and checks the caller
// can participate (creator, member, or admin). Writes the error response
// itself; callers bail when ok is false.
func (h *Handler) loadForParticipant(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, models.GroupBuy, bool) {
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid group id")
		return primitive.NilObjectID, models.GroupBuy{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := groupbuystore.New(h.DB, h.Log).GetByID(ctx, groupID)
	if err == groupbuystore.ErrNotFound {
		respond.Error(w, http.StatusNotFound, "group not found")
		return primitive.NilObjectID, models.GroupBuy{}, false
	}
	if err != nil {
		h.Log.Error("load group failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not load group")
		return primitive.NilObjectID, models.GroupBuy{}, false
	}

	can, err := grouppolicy.CanParticipate(ctx, h.DB, r, groupID, g.CreatorID)
	if err != nil {
		h.Log.Error("participation check failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not check membership")
		return primitive.NilObjectID, models.GroupBuy{}, false
	}
	if !can {
		respond.Error(w, http.StatusForbidden, "members only")
		return primitive.NilObjectID, models.GroupBuy{}, false
	}
	return groupID, g, true
}
