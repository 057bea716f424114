// internal/app/features/contact/routes.go
package contact

import (
	"github.com/dalemusser/pesantrenhub/internal/app/system/auth"
	"github.com/dalemusser/pesantrenhub/internal/app/system/ratelimit"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(ratelimit.Limit(h.Submit)).Post("/", h.HandleSubmit)
	return r
}

// AdminRoutes has no create; messages only arrive through the public form.
func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(models.RoleAdmin))

	r.Get("/", h.AdminList)
	r.Get("/{id}", h.AdminShow)
	r.Put("/{id}", h.HandleUpdate)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
