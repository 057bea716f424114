package blog

import (
	"context"
	"net/http"

	blogstore "github.com/dalemusser/pesantrenhub/internal/app/store/blog"
	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/paging"
	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
)

var publicSorts = paging.Sorts{
	"publishedAt": "published_at",
	"views":       "views",
	"title":       "title_ci",
}

var publicDefaultSort = bson.D{{Key: "published_at", Value: -1}, {Key: "_id", Value: -1}}

// ServeList handles GET /api/blog.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, publicSorts, publicDefaultSort)
	p.Status = ""
	filter := p.Filter(blogstore.SearchFields...)
	filter["status"] = models.StatusPublished
	if tag := normalize.Status(query.Get(r, "tag")); tag != "" {
		filter["tags"] = tag
	}
	if author := normalize.Name(query.Get(r, "author")); author != "" {
		filter["author.name"] = author
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := blogstore.New(h.DB).List(ctx, filter, p)
	if err != nil {
		respond.Error(w, h.Log, "blog: public list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

// ServeShow handles GET /api/blog/{key} and counts the view.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := blogstore.New(h.DB).ReadPublished(ctx, chi.URLParam(r, "key"))
	if err != nil {
		respond.Error(w, h.Log, "blog: public show", err)
		return
	}
	respond.OK(w, b)
}
