package news

import (
	"context"
	"net/http"

	newsstore "github.com/dalemusser/pesantrenhub/internal/app/store/news"
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
	"priority":    "priority",
	"title":       "title_ci",
}

var publicDefaultSort = bson.D{
	{Key: "priority", Value: -1},
	{Key: "published_at", Value: -1},
	{Key: "_id", Value: -1},
}

// ServeList handles GET /api/news: published items only.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, publicSorts, publicDefaultSort)
	p.Status = ""
	filter := p.Filter(newsstore.SearchFields...)
	filter["status"] = models.StatusPublished
	if query.Get(r, "featured") == "true" {
		filter["featured"] = true
	}
	if tag := normalize.Status(query.Get(r, "tag")); tag != "" {
		filter["tags"] = tag
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := newsstore.New(h.DB).List(ctx, filter, p)
	if err != nil {
		respond.Error(w, h.Log, "news: public list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

// ServeShow handles GET /api/news/{key} where key is an id or slug. Each
// read counts as a view.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := newsstore.New(h.DB).ReadPublished(ctx, chi.URLParam(r, "key"))
	if err != nil {
		respond.Error(w, h.Log, "news: public show", err)
		return
	}
	respond.OK(w, n)
}
