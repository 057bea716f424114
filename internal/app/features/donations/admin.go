package donations

import (
	"context"
	"net/http"

	donationstore "github.com/dalemusser/pesantrenhub/internal/app/store/donations"
	"github.com/dalemusser/pesantrenhub/internal/app/store/mongostore"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
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
	"createdAt":   "created_at",
	"amount":      "amount",
	"donorName":   "donor_name_ci",
	"paymentDate": "payment_date",
}

var adminDefaultSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// AdminList handles GET /api/admin/donations. ?status filters the payment
// status; ?campaign and ?reconciliation=orphaned narrow further.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, adminSorts, adminDefaultSort)
	status := p.Status
	p.Status = ""
	filter := p.Filter(donationstore.SearchFields...)
	if models.IsOneOf(status, models.PaymentStatuses) {
		filter["payment_status"] = status
	}
	if c := normalize.Status(query.Get(r, "campaign")); c != "" {
		filter["campaign"] = c
	}
	if normalize.Status(query.Get(r, "reconciliation")) == models.ReconciliationOrphaned {
		filter["reconciliation"] = models.ReconciliationOrphaned
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := donationstore.New(h.DB, h.Log).List(ctx, filter, p)
	if err != nil {
		respond.Error(w, h.Log, "donations: admin list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

func (h *Handler) AdminShow(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "donations: admin show", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := donationstore.New(h.DB, h.Log).GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "donations: admin show", err)
		return
	}
	respond.OK(w, d)
}

// HandleCreate handles POST /api/admin/donations, for gifts received
// outside the site. A campaign slug must name an active campaign.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in := newInput()
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "donations: create", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "donations: create", err)
		return
	}

	var d models.Donation
	in.applyTo(&d)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := donationstore.New(h.DB, h.Log).Create(ctx, d)
	if err != nil {
		respond.Error(w, h.Log, "donations: create", err)
		return
	}
	h.Log.Info("donation recorded",
		zap.String("receipt", created.ReceiptNumber),
		zap.String("campaign", created.Campaign),
		zap.Float64("amount", created.Amount),
		zap.String("status", created.PaymentStatus))
	respond.Created(w, created)
}

// HandleUpdate handles PUT and PATCH /api/admin/donations/{id}. Amount,
// campaign and receipt number are fixed once recorded.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "donations: update", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := donationstore.New(h.DB, h.Log)
	existing, err := store.GetByID(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "donations: update", err)
		return
	}

	in := inputFrom(existing)
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "donations: update", err)
		return
	}
	in.normalize()
	res := inputval.Validate(in)
	in.checkLocked(existing, res)
	if err := apperr.FromResult(res); err != nil {
		respond.Error(w, h.Log, "donations: update", err)
		return
	}

	d := existing
	in.applyTo(&d)
	updated, err := store.Update(ctx, d, existing.PaymentStatus)
	if err != nil {
		respond.Error(w, h.Log, "donations: update", err)
		return
	}
	if updated.PaymentStatus != existing.PaymentStatus {
		h.Log.Info("donation payment status changed",
			zap.String("receipt", updated.ReceiptNumber),
			zap.String("from", existing.PaymentStatus),
			zap.String("to", updated.PaymentStatus))
	}
	respond.OK(w, updated)
}

// HandleDelete handles DELETE /api/admin/donations/{id}. Campaign totals
// are not reversed; correct them on the campaign if needed.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := mongostore.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, "donations: delete", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := donationstore.New(h.DB, h.Log).Delete(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, "donations: delete", err)
		return
	}
	h.Log.Info("donation deleted",
		zap.String("receipt", deleted.ReceiptNumber),
		zap.String("campaign", deleted.Campaign),
		zap.Float64("amount", deleted.Amount))
	respond.Message(w, "Donation deleted.")
}
