package campaigns

import (
	"context"
	"net/http"
	"time"

	campaignstore "github.com/dalemusser/pesantrenhub/internal/app/store/campaigns"
	donationstore "github.com/dalemusser/pesantrenhub/internal/app/store/donations"
	"github.com/dalemusser/pesantrenhub/internal/app/system/normalize"
	"github.com/dalemusser/pesantrenhub/internal/app/system/paging"
	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// recentDonorLimit caps the donor list shown on a campaign page.
const recentDonorLimit = 10

var publicSorts = paging.Sorts{
	"createdAt": "created_at",
	"progress":  "progress",
	"collected": "collected",
	"endDate":   "end_date",
}

var publicDefaultSort = bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// ServeList handles GET /api/campaigns: active and completed campaigns,
// active first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, publicSorts, publicDefaultSort)
	p.Status = ""
	filter := p.Filter(campaignstore.SearchFields...)
	filter["status"] = bson.M{"$in": campaignstore.PublicStatuses}
	if st := normalize.Status(query.Get(r, "status")); models.IsOneOf(st, campaignstore.PublicStatuses) {
		filter["status"] = st
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := campaignstore.New(h.DB).List(ctx, filter, p)
	if err != nil {
		respond.Error(w, h.Log, "campaigns: public list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

type donor struct {
	Name    string    `json:"name"`
	Amount  float64   `json:"amount"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"createdAt"`
}

type campaignPage struct {
	models.Campaign
	RecentDonors []donor `json:"recentDonors"`
}

// ServeShow handles GET /api/campaigns/{key}. Completed donations to the
// campaign are listed newest first; anonymous donors are not named.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := campaignstore.New(h.DB).GetPublic(ctx, chi.URLParam(r, "key"))
	if err != nil {
		respond.Error(w, h.Log, "campaigns: public show", err)
		return
	}

	page := campaignPage{Campaign: c, RecentDonors: []donor{}}
	ds, err := donationstore.New(h.DB, h.Log).Find(ctx,
		bson.M{"campaign": c.Slug, "payment_status": models.PaymentCompleted},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
			SetLimit(recentDonorLimit))
	if err != nil {
		// The campaign itself is still worth showing.
		h.Log.Warn("campaigns: recent donors", zap.String("campaign", c.Slug), zap.Error(err))
	}
	for _, d := range ds {
		page.RecentDonors = append(page.RecentDonors, donor{
			Name:    d.PublicName(),
			Amount:  d.Amount,
			Message: d.Message,
			At:      d.CreatedAt,
		})
	}
	respond.OK(w, page)
}
