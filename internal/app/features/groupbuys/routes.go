// internal/app/features/groupbuys/routes.go
package groupbuys

import (
	"github.com/go-chi/chi/v5"
	"github.com/kitandahub/kitanda/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}", h.ServeGet)
		pr.Delete("/{id}", h.HandleDelete)

		// Membership
		pr.Post("/{id}/join", h.HandleRequestJoin)
		pr.Post("/{id}/requests/{userID}/approve", h.HandleApprove)
		pr.Delete("/{id}/members/{userID}", h.HandleRemoveMember)

		// Chat
		pr.Get("/{id}/chat", h.ServeChat)
		pr.Post("/{id}/chat", h.HandlePostChat)

		// Cart and finalization
		pr.Get("/{id}/cart", h.ServeCart)
		pr.Put("/{id}/cart/items", h.HandlePutCartItem)
		pr.Put("/{id}/cart/contribution", h.HandlePutContribution)
		pr.Post("/{id}/finalize", h.HandleFinalize)
	})

	return r
}
