// internal/app/features/servicerequests/routes.go
package servicerequests

import (
	"github.com/go-chi/chi/v5"
	"github.com/kitandahub/kitanda/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("lojista"))

		pr.Post("/{id}/accept", h.HandleAccept)
		pr.Post("/{id}/decline", h.HandleDecline)
		pr.Post("/{id}/complete", h.HandleComplete)
	})

	return r
}
