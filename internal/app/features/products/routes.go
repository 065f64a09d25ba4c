// internal/app/features/products/routes.go
package products

import (
	"github.com/go-chi/chi/v5"
	"github.com/kitandahub/kitanda/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Catalog is public
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)

	// Listing management is lojista-only
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("lojista"))

		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Post("/{id}/images", h.HandleUploadImage)
	})

	return r
}
