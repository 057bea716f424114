package gallery

import (
	"context"
	"net/http"

	gallerystore "github.com/dalemusser/pesantrenhub/internal/app/store/gallery"
	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/paging"
	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
)

var publicSorts = paging.Sorts{
	"createdAt": "created_at",
	"views":     "view_count",
	"title":     "title_ci",
}

// ServeList handles GET /api/gallery. Featured items come first unless
// ?sort= asks otherwise; ?type= narrows to image, video or album.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, publicSorts, gallerystore.PublicSort)
	p.Status = ""
	filter := p.Filter(gallerystore.SearchFields...)
	filter["status"] = models.StatusPublished
	if typ := normalize.Status(query.Get(r, "type")); models.IsOneOf(typ, models.GalleryTypes) {
		filter["type"] = typ
	}
	if query.Get(r, "featured") == "true" {
		filter["featured"] = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := gallerystore.New(h.DB).List(ctx, filter, p)
	if err != nil {
		respond.Error(w, h.Log, "gallery: public list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

// ServeShow handles GET /api/gallery/{key} and counts the view.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := gallerystore.New(h.DB).ReadPublished(ctx, chi.URLParam(r, "key"))
	if err != nil {
		respond.Error(w, h.Log, "gallery: public show", err)
		return
	}
	respond.OK(w, g)
}
