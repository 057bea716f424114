// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/pesantrenhub/internal/app/system/auth"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes serves /summary and /dashboard under the admin mount point.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin, models.RoleEditor))
		pr.Get("/summary", h.ServeSummary)
		pr.Get("/dashboard", h.ServeDashboard)
	})
	return r
}
