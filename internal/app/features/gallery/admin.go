package gallery

import (
	"context"
	"net/http"

	gallerystore "github.com/dalemusser/pesantrenhub/internal/app/store/gallery"
	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
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
	"title":     "title_ci",
	"views":     "view_count",
}

var adminDefaultSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, adminSorts, adminDefaultSort)
	filter := p.Filter(gallerystore.SearchFields...)
	if typ := normalize.Status(query.Get(r, "type")); models.IsOneOf(typ, models.GalleryTypes) {
		filter["type"] = typ
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := gallerystore.New(h.DB).List(ctx, filter, p)
	if err != nil {
		respond.Error(w, h.Log, "gallery: admin list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

func (h *Handler) AdminShow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := gallerystore.New(h.DB).GetByKey(ctx, chi.URLParam(r, "id"), nil)
	if err != nil {
		respond.Error(w, h.Log, "gallery: admin show", err)
		return
	}
	respond.OK(w, g)
}

// HandleCreate handles POST /api/admin/gallery. Album items are stored
// sorted by their order.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in := newInput()
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "gallery: create", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "gallery: create", err)
		return
	}

	var g models.GalleryItem
	in.applyTo(&g)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := gallerystore.New(h.DB).Create(ctx, g)
	if err != nil {
		respond.Error(w, h.Log, "gallery: create", err)
		return
	}
	h.Log.Info("gallery item created",
		zap.String("id", created.ID.Hex()),
		zap.String("type", created.Type),
		zap.Int("items", len(created.Items)))
	respond.Created(w, created)
}

// HandleUpdate handles PUT and PATCH /api/admin/gallery/{id}. Assets that
// the edit stops referencing are removed from the media host.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "gallery: update", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := gallerystore.New(h.DB)
	existing, err := store.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "gallery: update", err)
		return
	}

	in := inputFrom(existing)
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "gallery: update", err)
		return
	}
	if in.Items == nil {
		in.Items = itemsFrom(existing)
	}
	in.normalize()
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "gallery: update", err)
		return
	}

	g := existing
	in.applyTo(&g)
	updated, err := store.Update(ctx, g)
	if err != nil {
		respond.Error(w, h.Log, "gallery: update", err)
		return
	}
	media.DestroyURLs(ctx, h.Media, h.Log, dropped(existing.MediaURLs(), updated.MediaURLs())...)
	respond.OK(w, updated)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "gallery: delete", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := gallerystore.New(h.DB).Delete(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "gallery: delete", err)
		return
	}

	// Albums can reference many assets; give cleanup its own deadline.
	cleanup, cancelCleanup := context.WithTimeout(context.WithoutCancel(r.Context()), timeouts.Long())
	defer cancelCleanup()
	media.DestroyURLs(cleanup, h.Media, h.Log, deleted.MediaURLs()...)

	h.Log.Info("gallery item deleted", zap.String("id", id.Hex()), zap.String("type", deleted.Type))
	respond.Message(w, "Gallery item deleted.")
}

// dropped returns the urls in before that are absent from after.
func dropped(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, u := range after {
		keep[u] = struct{}{}
	}
	var out []string
	for _, u := range before {
		if _, ok := keep[u]; !ok {
			out = append(out, u)
		}
	}
	return out
}
