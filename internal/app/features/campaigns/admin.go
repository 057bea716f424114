package campaigns

import (
	"context"
	"net/http"

	campaignstore "github.com/dalemusser/pesantrenhub/internal/app/store/campaigns"
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
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title_ci",
	"progress":  "progress",
	"collected": "collected",
	"goal":      "goal",
}

var adminDefaultSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, adminSorts, adminDefaultSort)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := campaignstore.New(h.DB).List(ctx, p.Filter(campaignstore.SearchFields...), p)
	if err != nil {
		respond.Error(w, h.Log, "campaigns: admin list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

func (h *Handler) AdminShow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := campaignstore.New(h.DB).GetByKey(ctx, chi.URLParam(r, "id"), nil)
	if err != nil {
		respond.Error(w, h.Log, "campaigns: admin show", err)
		return
	}
	respond.OK(w, c)
}

// HandleCreate handles POST /api/admin/campaigns. Progress is derived from
// the initial totals.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in := newInput()
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "campaigns: create", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(in.validate()); err != nil {
		respond.Error(w, h.Log, "campaigns: create", err)
		return
	}

	var c models.Campaign
	in.applyTo(&c)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := campaignstore.New(h.DB).Create(ctx, c)
	if err != nil {
		respond.Error(w, h.Log, "campaigns: create", err)
		return
	}
	h.Log.Info("campaign created",
		zap.String("slug", created.Slug),
		zap.Float64("goal", created.Goal),
		zap.String("status", created.Status))
	respond.Created(w, created)
}

// HandleUpdate handles PUT and PATCH /api/admin/campaigns/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "campaigns: update", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := campaignstore.New(h.DB)
	existing, err := store.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "campaigns: update", err)
		return
	}

	in := inputFrom(existing)
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "campaigns: update", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(in.validate()); err != nil {
		respond.Error(w, h.Log, "campaigns: update", err)
		return
	}

	c := existing
	setTotals := in.applyTo(&c)
	updated, err := store.Update(ctx, c, setTotals)
	if err != nil {
		respond.Error(w, h.Log, "campaigns: update", err)
		return
	}
	if setTotals {
		h.Log.Info("campaign totals corrected",
			zap.String("slug", updated.Slug),
			zap.Float64("collected", updated.Collected),
			zap.Int64("donor_count", updated.DonorCount))
	}
	respond.OK(w, updated)
}

// HandleDelete handles DELETE /api/admin/campaigns/{id}. Donations keep
// the slug of a deleted campaign.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "campaigns: delete", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := campaignstore.New(h.DB).Delete(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "campaigns: delete", err)
		return
	}
	media.DestroyURLs(ctx, h.Media, h.Log, deleted.Image)

	h.Log.Info("campaign deleted", zap.String("slug", deleted.Slug), zap.Float64("collected", deleted.Collected))
	respond.Message(w, "Campaign deleted.")
}
