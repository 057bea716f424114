// internal/app/features/donations/routes.go
package donations

import (
	"github.com/dalemusser/pesantrenhub/internal/app/system/auth"
	"github.com/dalemusser/pesantrenhub/internal/app/system/ratelimit"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// PublicRoutes only accepts new donations; donation records are not public.
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(ratelimit.Limit(h.Submit)).Post("/", h.HandlePledge)
	return r
}

func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(models.RoleAdmin))

	r.Get("/", h.AdminList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.AdminShow)
	r.Put("/{id}", h.HandleUpdate)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
