package blog

import (
	"context"
	"net/http"

	blogstore "github.com/dalemusser/pesantrenhub/internal/app/store/blog"
	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
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
	"readTime":    "read_time",
}

var adminDefaultSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// AdminList handles GET /api/admin/blog.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, adminSorts, adminDefaultSort)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := blogstore.New(h.DB).List(ctx, p.Filter(blogstore.SearchFields...), p)
	if err != nil {
		respond.Error(w, h.Log, "blog: admin list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

func (h *Handler) AdminShow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := blogstore.New(h.DB).GetByKey(ctx, chi.URLParam(r, "id"), nil)
	if err != nil {
		respond.Error(w, h.Log, "blog: admin show", err)
		return
	}
	respond.OK(w, b)
}

// HandleCreate handles POST /api/admin/blog. When no author is given the
// signed-in user's name is used.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in := newInput()
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "blog: create", err)
		return
	}
	if in.Author.Name == "" {
		in.Author.Name = signedInName(r)
	}
	in.normalize()
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "blog: create", err)
		return
	}

	var b models.BlogPost
	in.applyTo(&b)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := blogstore.New(h.DB).Create(ctx, b)
	if err != nil {
		respond.Error(w, h.Log, "blog: create", err)
		return
	}
	h.Log.Info("blog post created",
		zap.String("id", created.ID.Hex()),
		zap.String("slug", created.Slug),
		zap.Int("read_time", created.ReadTime))
	respond.Created(w, created)
}

// HandleUpdate handles PUT and PATCH /api/admin/blog/{id}. Read time is
// recomputed from the merged content.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "blog: update", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := blogstore.New(h.DB)
	existing, err := store.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "blog: update", err)
		return
	}

	in := inputFrom(existing)
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "blog: update", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "blog: update", err)
		return
	}

	b := existing
	in.applyTo(&b)
	updated, err := store.Update(ctx, b)
	if err != nil {
		respond.Error(w, h.Log, "blog: update", err)
		return
	}
	respond.OK(w, updated)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "blog: delete", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := blogstore.New(h.DB).Delete(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "blog: delete", err)
		return
	}
	media.DestroyURLs(ctx, h.Media, h.Log, deleted.FeaturedImage, deleted.Author.Avatar)

	h.Log.Info("blog post deleted", zap.String("id", id.Hex()))
	respond.Message(w, "Blog post deleted.")
}
