// internal/app/features/campaigns/routes.go
package campaigns

import (
	"github.com/dalemusser/pesantrenhub/internal/app/system/auth"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{key}", h.ServeShow)
	return r
}

// AdminRoutes is restricted to admins; editors manage content only.
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
