// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"
	"github.com/kitandahub/kitanda/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/{id}/read", h.HandleMarkRead)
	})

	return r
}
