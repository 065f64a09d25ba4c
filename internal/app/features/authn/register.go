// internal/app/features/authn/register.go
package authn

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kitandahub/kitanda/internal/app/store/audit"
	userstore "github.com/kitandahub/kitanda/internal/app/store/users"
	"github.com/kitandahub/kitanda/internal/app/system/respond"
	"github.com/kitandahub/kitanda/internal/app/system/sanitize"
	"github.com/kitandahub/kitanda/internal/app/system/timeouts"
	"github.com/kitandahub/kitanda/internal/domain/models"
	"go.uber.org/zap"
)

type registerInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleRegister creates a password account. The role is one of client,
// lojista, or courier; admin accounts are never self-served.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in.FullName = sanitize.Text(strings.TrimSpace(in.FullName))
	in.Email = strings.TrimSpace(in.Email)

	if in.FullName == "" || in.Email == "" {
		respond.Error(w, http.StatusBadRequest, "full_name and email are required")
		return
	}
	if !strings.Contains(in.Email, "@") {
		respond.Error(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(in.Password) < 8 {
		respond.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	switch in.Role {
	case models.RoleClient, models.RoleLojista, models.RoleCourier:
	default:
		respond.Error(w, http.StatusBadRequest, "role must be client, lojista, or courier")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users := userstore.New(h.DB)
	u, err := users.Register(ctx, in.FullName, in.Email, in.Password, in.Role)
	if err == userstore.ErrEmailTaken {
		respond.Error(w, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		h.Log.Error("register failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}

	h.AuditLog.Auth(ctx, r, audit.EventUserRegistered, &u.ID, true, "", map[string]string{"role": u.Role})
	h.Log.Info("user registered",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role))

	respond.Created(w, u)
}
