// internal/app/features/groupbuys/membership.go
package groupbuys

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kitandahub/kitanda/internal/app/policy/grouppolicy"
	"github.com/kitandahub/kitanda/internal/app/store/audit"
	groupbuystore "github.com/kitandahub/kitanda/internal/app/store/groupbuys"
	memberstore "github.com/kitandahub/kitanda/internal/app/store/members"
	notificationstore "github.com/kitandahub/kitanda/internal/app/store/notifications"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleRequestJoin handles POST /groups/{id}/join. Re-requesting is
// harmless; the request is keyed by (group, user).
func (h *Handler) HandleRequestJoin(w http.ResponseWriter, r *http.Request) {
	_, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	members := memberstore.New(h.DB, h.Log)
	if already, err := members.IsMember(ctx, groupID, uid); err != nil {
		h.Log.Error("membership check failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not request join")
		return
	} else if already {
		respond.Error(w, http.StatusConflict, "already a member of this group")
		return
	}

	err = members.RequestJoin(ctx, groupID, uid, name)
	if err == memberstore.ErrGroupNotFound {
		respond.Error(w, http.StatusNotFound, "group not found")
		return
	}
	if err != nil {
		h.Log.Error("request join failed", zap.Error(err), zap.String("group_id", groupID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not request join")
		return
	}

	// Tell the creator there is a request waiting.
	g, gerr := groupbuystore.New(h.DB, h.Log).GetByID(ctx, groupID)
	if gerr == nil {
		notif := notificationstore.New(h.DB)
		if nerr := notif.Add(ctx, g.CreatorID, "Pedido de adesão",
			name+" pediu para entrar no grupo "+g.Name, "/groups/"+groupID.Hex()); nerr != nil {
			h.Log.Warn("join-request notification failed", zap.Error(nerr))
		}
	}

	h.Log.Info("join requested",
		zap.String("group_id", groupID.Hex()),
		zap.String("user_id", uid.Hex()))
	respond.JSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

// HandleApprove handles POST /groups/{id}/requests/{userID}/approve
// (creator or admin). Approving a request that a concurrent session already
// handled answers 200 with approved=false.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
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
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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
		respond.Error(w, http.StatusForbidden, "only the creator can approve join requests")
		return
	}

	approved, err := memberstore.New(h.DB, h.Log).Approve(ctx, groupID, userID)
	if err == memberstore.ErrGroupNotFound {
		respond.Error(w, http.StatusNotFound, "group not found")
		return
	}
	if err != nil {
		h.Log.Error("approve failed", zap.Error(err),
			zap.String("group_id", groupID.Hex()),
			zap.String("user_id", userID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not approve join request")
		return
	}

	if approved {
		h.AuditLog.Admin(ctx, r, audit.EventJoinRequestApproved, actorID, &userID,
			map[string]string{"group_id": groupID.Hex()})
		notif := notificationstore.New(h.DB)
		if nerr := notif.Add(ctx, userID, "Pedido aceite",
			"Foste aceite no grupo "+g.Name, "/groups/"+groupID.Hex()); nerr != nil {
			h.Log.Warn("approval notification failed", zap.Error(nerr))
		}
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"approved": approved})
}

// HandleRemoveMember handles DELETE /groups/{id}/members/{userID}
// (creator or admin). The creator cannot be removed.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
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
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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
		respond.Error(w, http.StatusForbidden, "only the creator can remove members")
		return
	}

	err = memberstore.New(h.DB, h.Log).Remove(ctx, groupID, userID, userID == g.CreatorID)
	if err == memberstore.ErrCreatorRemoval {
		respond.Error(w, http.StatusConflict, "the group creator cannot be removed")
		return
	}
	if err == memberstore.ErrGroupNotFound {
		respond.Error(w, http.StatusNotFound, "group not found")
		return
	}
	if err != nil {
		h.Log.Error("remove member failed", zap.Error(err),
			zap.String("group_id", groupID.Hex()),
			zap.String("user_id", userID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not remove member")
		return
	}

	h.AuditLog.Admin(ctx, r, audit.EventMemberRemoved, actorID, &userID,
		map[string]string{"group_id": groupID.Hex()})
	respond.NoContent(w)
}
