package testimonials

import (
	"context"
	"net/http"

	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	testimonialstore "github.com/dalemusser/pesantrenhub/internal/app/store/testimonials"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	"github.com/dalemusser/pesantrenhub/internal/app/system/media"
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
	"name":      "name",
	"rating":    "rating",
}

var adminDefaultSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, adminSorts, adminDefaultSort)
	filter := p.Filter(testimonialstore.SearchFields...)
	if src := normalize.Status(query.Get(r, "source")); models.IsOneOf(src, models.TestimonialSources) {
		filter["source"] = src
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := testimonialstore.New(h.DB).List(ctx, filter, p)
	if err != nil {
		respond.Error(w, h.Log, "testimonials: admin list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

func (h *Handler) AdminShow(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "testimonials: admin show", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := testimonialstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "testimonials: admin show", err)
		return
	}
	respond.OK(w, t)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in := newInput()
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "testimonials: create", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "testimonials: create", err)
		return
	}

	var t models.Testimonial
	in.applyTo(&t)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := testimonialstore.New(h.DB).Create(ctx, t)
	if err != nil {
		respond.Error(w, h.Log, "testimonials: create", err)
		return
	}
	respond.Created(w, created)
}

// HandleUpdate handles PUT and PATCH /api/admin/testimonials/{id}. Moving
// to approved stamps approvedAt.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "testimonials: update", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := testimonialstore.New(h.DB)
	existing, err := store.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "testimonials: update", err)
		return
	}

	in := inputFrom(existing)
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "testimonials: update", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "testimonials: update", err)
		return
	}

	t := existing
	in.applyTo(&t)
	updated, err := store.Update(ctx, t, existing.Status)
	if err != nil {
		respond.Error(w, h.Log, "testimonials: update", err)
		return
	}
	if updated.Status != existing.Status {
		h.Log.Info("testimonial moderated",
			zap.String("id", id.Hex()),
			zap.String("from", existing.Status),
			zap.String("to", updated.Status))
	}
	respond.OK(w, updated)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "testimonials: delete", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := testimonialstore.New(h.DB).Delete(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "testimonials: delete", err)
		return
	}
	media.DestroyURLs(ctx, h.Media, h.Log, deleted.Avatar)
	respond.Message(w, "Testimonial deleted.")
}
