// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	notificationstore "github.com/kitandahub/kitanda/internal/app/store/notifications"
	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const listLimit = 100

// Handler serves a user's notification feed.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// ServeList handles GET /notifications: the signed-in user's feed, newest
// first, plus the unread count.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := notificationstore.New(h.DB)
	items, err := store.ListByUser(ctx, uid, listLimit)
	if err != nil {
		h.Log.Error("list notifications failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load notifications")
		return
	}
	unread, err := store.CountUnread(ctx, uid)
	if err != nil {
		h.Log.Error("count unread failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "could not load notifications")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"notifications": items,
		"unread":        unread,
	})
}

// HandleMarkRead handles POST /notifications/{id}/read. Owner-scoped; a
// foreign or unknown notification answers 404.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := notificationstore.New(h.DB).MarkRead(ctx, id, uid)
	if err != nil {
		h.Log.Error("mark read failed", zap.Error(err), zap.String("notification_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "could not mark notification")
		return
	}
	if n == 0 {
		respond.Error(w, http.StatusNotFound, "notification not found")
		return
	}
	respond.NoContent(w)
}
