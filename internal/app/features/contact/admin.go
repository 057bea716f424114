package contact

import (
	"context"
	"net/http"

	contactstore "github.com/dalemusser/pesantrenhub/internal/app/store/contacts"
	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/auth"
	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/paging"
	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var adminSorts = paging.Sorts{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"priority":  "priority",
	"name":      "name",
}

var adminDefaultSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// AdminList handles GET /api/admin/contacts with ?status and ?priority.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, adminSorts, adminDefaultSort)
	filter := p.Filter(contactstore.SearchFields...)
	if pr := normalize.Status(query.Get(r, "priority")); models.IsOneOf(pr, models.MessagePriorities) {
		filter["priority"] = pr
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := contactstore.New(h.DB).List(ctx, filter, p)
	if err != nil {
		respond.Error(w, h.Log, "contact: admin list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

// AdminShow handles GET /api/admin/contacts/{id}. Opening an unread
// message marks it read.
func (h *Handler) AdminShow(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "contact: admin show", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := contactstore.New(h.DB)
	if err := store.MarkRead(ctx, id); err != nil {
		respond.Error(w, h.Log, "contact: admin show", err)
		return
	}
	m, err := store.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "contact: admin show", err)
		return
	}
	respond.OK(w, m)
}

// HandleUpdate handles PUT and PATCH /api/admin/contacts/{id}. Moving a
// message to replied records the signed-in admin as the responder.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "contact: update", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := contactstore.New(h.DB)
	existing, err := store.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "contact: update", err)
		return
	}

	in := inputFrom(existing)
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "contact: update", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "contact: update", err)
		return
	}

	var by string
	if u, ok := auth.CurrentUser(r); ok {
		by = u.Email
	}

	m := existing
	in.applyTo(&m)
	updated, err := store.Update(ctx, m, existing.Status, by)
	if err != nil {
		respond.Error(w, h.Log, "contact: update", err)
		return
	}
	if updated.Status != existing.Status {
		h.Log.Info("contact message triaged",
			zap.String("id", updated.ID.Hex()),
			zap.String("from", existing.Status),
			zap.String("to", updated.Status),
			zap.String("by", by))
	}
	respond.OK(w, updated)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "contact: delete", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := contactstore.New(h.DB).Delete(ctx, id); err != nil {
		respond.Error(w, h.Log, "contact: delete", err)
		return
	}
	respond.Message(w, "Message deleted.")
}
