// internal/app/features/authn/routes.go
package authn

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)
	r.Get("/me", h.HandleMe)

	r.Get("/google", h.ServeGoogleLogin)
	r.Get("/google/callback", h.ServeGoogleCallback)

	return r
}
