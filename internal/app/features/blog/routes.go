// internal/app/features/blog/routes.go
package blog

import (
	"net/http"

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

func AdminRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(models.RoleAdmin, models.RoleEditor))

	r.Get("/", h.AdminList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.AdminShow)
	r.Put("/{id}", h.HandleUpdate)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}

func signedInName(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.Name
	}
	return ""
}
