package events

import (
	"context"
	"net/http"
	"time"

	eventstore "github.com/dalemusser/pesantrenhub/internal/app/store/events"
	"github.com/dalemusser/pesantrenhub/internal/app/system/paging"
	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var publicSorts = paging.Sorts{
	"date":  "date",
	"title": "title_ci",
	"price": "price",
}

var publicDefaultSort = bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}

// ServeList handles GET /api/events. ?upcoming=true keeps events dated
// today or later; ?past=true keeps earlier ones, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, publicSorts, publicDefaultSort)
	p.Status = ""
	filter := p.Filter(eventstore.SearchFields...)
	filter["status"] = models.EventPublished

	today := time.Now().UTC().Truncate(24 * time.Hour)
	switch {
	case query.Get(r, "upcoming") == "true":
		filter["date"] = bson.M{"$gte": today}
	case query.Get(r, "past") == "true":
		filter["date"] = bson.M{"$lt": today}
		if query.Get(r, "sort") == "" {
			p.Sort = bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}
		}
	}
	if query.Get(r, "featured") == "true" {
		filter["featured"] = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := eventstore.New(h.DB).List(ctx, filter, p)
	if err != nil {
		respond.Error(w, h.Log, "events: public list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := eventstore.New(h.DB).GetPublished(ctx, chi.URLParam(r, "key"))
	if err != nil {
		respond.Error(w, h.Log, "events: public show", err)
		return
	}
	respond.OK(w, e)
}

type registration struct {
	Event      string `json:"event"`
	Registered int    `json:"registered"`
	Capacity   int    `json:"capacity"`
	Remaining  int    `json:"remaining"`
}

// HandleRegister handles POST /api/events/{key}/register by taking one
// seat. Full or closed events answer 409.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := eventstore.New(h.DB).Register(ctx, chi.URLParam(r, "key"))
	if err != nil {
		respond.Error(w, h.Log, "events: register", err)
		return
	}

	out := registration{
		Event:      e.Slug,
		Registered: e.Registered,
		Capacity:   e.Capacity,
		Remaining:  e.Capacity - e.Registered,
	}
	h.Log.Info("event registration", zap.String("event", e.Slug), zap.Int("registered", e.Registered))
	respond.Created(w, out)
}
