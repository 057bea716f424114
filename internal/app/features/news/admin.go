package news

import (
	"context"
	"net/http"

	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	newsstore "github.com/dalemusser/pesantrenhub/internal/app/store/news"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	"github.com/dalemusser/pesantrenhub/internal/app/system/media"
	"github.com/dalemusser/pesantrenhub/internal/app/system/paging"
	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var adminSorts = paging.Sorts{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"publishedAt": "published_at",
	"title":       "title_ci",
	"views":       "views",
	"priority":    "priority",
}

var adminDefaultSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// AdminList handles GET /api/admin/news.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, adminSorts, adminDefaultSort)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := newsstore.New(h.DB).List(ctx, p.Filter(newsstore.SearchFields...), p)
	if err != nil {
		respond.Error(w, h.Log, "news: admin list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

// AdminShow handles GET /api/admin/news/{id}; drafts included.
func (h *Handler) AdminShow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := newsstore.New(h.DB).GetByKey(ctx, chi.URLParam(r, "id"), nil)
	if err != nil {
		respond.Error(w, h.Log, "news: admin show", err)
		return
	}
	respond.OK(w, n)
}

// HandleCreate handles POST /api/admin/news.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in := newInput()
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "news: create", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "news: create", err)
		return
	}

	var n models.News
	in.applyTo(&n)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := newsstore.New(h.DB).Create(ctx, n)
	if err != nil {
		respond.Error(w, h.Log, "news: create", err)
		return
	}
	h.Log.Info("news created", zap.String("id", created.ID.Hex()), zap.String("slug", created.Slug))
	respond.Created(w, created)
}

// HandleUpdate handles PUT and PATCH /api/admin/news/{id}. Fields missing
// from the body keep their stored value.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "news: update", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := newsstore.New(h.DB)
	existing, err := store.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "news: update", err)
		return
	}

	in := inputFrom(existing)
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "news: update", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "news: update", err)
		return
	}

	n := existing
	in.applyTo(&n)
	updated, err := store.Update(ctx, n)
	if err != nil {
		respond.Error(w, h.Log, "news: update", err)
		return
	}
	respond.OK(w, updated)
}

// HandleDelete handles DELETE /api/admin/news/{id} and then removes the
// featured image from the media host, best effort.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "news: delete", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := newsstore.New(h.DB).Delete(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "news: delete", err)
		return
	}
	media.DestroyURLs(ctx, h.Media, h.Log, deleted.FeaturedImage)

	h.Log.Info("news deleted", zap.String("id", id.Hex()))
	respond.Message(w, "News item deleted.")
}
