// internal/app/policy/orderpolicy.go
package orderpolicy

import (
	"net/http"

	"github.com/kitandahub/kitanda/internal/app/system/authz"
	"github.com/kitandahub/kitanda/internal/domain/models"
)

// CanView reports whether the current request user is a party to the order:
// the client who placed it, the lojista who sells it, the assigned courier,
// or an admin. Everyone else is locked out regardless of role.
func CanView(r *http.Request, o models.Order) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	if uid == o.ClientID || uid == o.LojistaID {
		return true
	}
	return o.CourierID != nil && uid == *o.CourierID
}

// CanTransition reports whether the current request user may drive the
// order's status at all. The specific from/to legality is checked by
// orderflow; this is the ownership half of the check:
// - client: only their own orders
// - lojista: only orders they sell
// - courier: the assigned courier, or any courier when none is assigned yet
//   (picking up an order that is pronto para recolha assigns them)
// - admin: any order
func CanTransition(r *http.Request, o models.Order) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleClient:
		return uid == o.ClientID
	case models.RoleLojista:
		return uid == o.LojistaID
	case models.RoleCourier:
		if o.CourierID == nil {
			return o.Status == models.StatusProntoParaRecolha
		}
		return uid == *o.CourierID
	}
	return false
}
