package events

import (
	"context"
	"net/http"

	eventstore "github.com/dalemusser/pesantrenhub/internal/app/store/events"
	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
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
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"date":       "date",
	"title":      "title_ci",
	"registered": "registered",
}

var adminDefaultSort = bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, adminSorts, adminDefaultSort)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := eventstore.New(h.DB).List(ctx, p.Filter(eventstore.SearchFields...), p)
	if err != nil {
		respond.Error(w, h.Log, "events: admin list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

func (h *Handler) AdminShow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := eventstore.New(h.DB).GetByKey(ctx, chi.URLParam(r, "id"), nil)
	if err != nil {
		respond.Error(w, h.Log, "events: admin show", err)
		return
	}
	respond.OK(w, e)
}

// HandleCreate handles POST /api/admin/events.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in := newInput()
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "events: create", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(in.validate()); err != nil {
		respond.Error(w, h.Log, "events: create", err)
		return
	}

	var e models.Event
	in.applyTo(&e)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := eventstore.New(h.DB).Create(ctx, e)
	if err != nil {
		respond.Error(w, h.Log, "events: create", err)
		return
	}
	h.Log.Info("event created", zap.String("id", created.ID.Hex()), zap.Time("date", created.Date))
	respond.Created(w, created)
}

// HandleUpdate handles PUT and PATCH /api/admin/events/{id}. Lowering the
// capacity below the current registrations answers 409.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "events: update", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := eventstore.New(h.DB)
	existing, err := store.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "events: update", err)
		return
	}

	in := inputFrom(existing)
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "events: update", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(in.validate()); err != nil {
		respond.Error(w, h.Log, "events: update", err)
		return
	}

	e := existing
	setRegistered := in.applyTo(&e)
	updated, err := store.Update(ctx, e, setRegistered)
	if err != nil {
		respond.Error(w, h.Log, "events: update", err)
		return
	}
	respond.OK(w, updated)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "events: delete", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := eventstore.New(h.DB).Delete(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "events: delete", err)
		return
	}
	media.DestroyURLs(ctx, h.Media, h.Log, deleted.Image)

	h.Log.Info("event deleted", zap.String("id", id.Hex()), zap.Int("registered", deleted.Registered))
	respond.Message(w, "Event deleted.")
}
