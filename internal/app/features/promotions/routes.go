// internal/app/features/promotions/routes.go
package promotions

import (
	"github.com/go-chi/chi/v5"
	"github.com/kitandahub/kitanda/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("lojista", "admin"))

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleRequest)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))

		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/reject", h.HandleReject)
	})

	return r
}
