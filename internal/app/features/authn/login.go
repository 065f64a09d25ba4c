// internal/app/features/authn/login.go
package authn

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kitandahub/kitanda/internal/app/store/audit"
	userstore "github.com/kitandahub/kitanda/internal/app/store/users"
	"github.com/kitandahub/kitanda/internal/app/system/auth"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates a password account and opens a session.
// Rate-limited per IP and per email; all credential failures share one
// 401 message.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in.Email = strings.TrimSpace(in.Email)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if allowed, reason := h.Logins.Check(r, in.Email); !allowed {
		h.AuditLog.Auth(ctx, r, audit.EventLoginFailedRateLimit, nil, false, reason, nil)
		respond.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	users := userstore.New(h.DB)
	u, err := users.Authenticate(ctx, in.Email, in.Password)
	if err == userstore.ErrBadCredentials {
		h.AuditLog.Auth(ctx, r, audit.EventLoginFailedWrongPassword, nil, false, "bad credentials", nil)
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		h.Log.Error("login failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "login failed")
		return
	}
	if u.Status == "disabled" {
		h.AuditLog.Auth(ctx, r, audit.EventLoginFailedUserDisabled, &u.ID, false, "account disabled", nil)
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	sessUser := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}
	if err := h.SessionMgr.SignIn(w, r, sessUser); err != nil {
		h.Log.Error("session save failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.Logins.ResetEmail(in.Email)
	h.AuditLog.Auth(ctx, r, audit.EventLoginSuccess, &u.ID, true, "", map[string]string{"method": "password"})
	h.Log.Info("user logged in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role))

	respond.JSON(w, http.StatusOK, u)
}

// HandleLogout clears the session.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if u, ok := auth.CurrentUser(r); ok {
		h.AuditLog.Auth(ctx, r, audit.EventLogout, nil, true, "", map[string]string{"user_id": u.ID})
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("session clear failed", zap.Error(err))
	}
	respond.NoContent(w)
}

// HandleMe returns the signed-in user's account.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users := userstore.New(h.DB)
	u, err := users.GetByEmail(ctx, su.Email)
	if err == userstore.ErrNotFound {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err != nil {
		h.Log.Error("load current user failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	respond.JSON(w, http.StatusOK, u)
}
