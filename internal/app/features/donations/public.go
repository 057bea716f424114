package donations

import (
	"context"
	"net/http"

	donationstore "github.com/dalemusser/pesantrenhub/internal/app/store/donations"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	"github.com/dalemusser/pesantrenhub/internal/app/system/payments"
	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"go.uber.org/zap"
)

type receipt struct {
	Donation models.Donation    `json:"donation"`
	Payment  *payments.Checkout `json:"payment,omitempty"`
}

// HandlePledge handles POST /api/donations. The donation is stored as
// pending and, for a campaign, added to its totals. When a payment gateway
// is configured the response carries a checkout token; a gateway failure
// does not undo the donation.
func (h *Handler) HandlePledge(w http.ResponseWriter, r *http.Request) {
	var in pledge
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "donations: pledge", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "donations: pledge", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := donationstore.New(h.DB, h.Log).Create(ctx, in.donation())
	if err != nil {
		respond.Error(w, h.Log, "donations: pledge", err)
		return
	}
	h.Log.Info("donation pledged",
		zap.String("receipt", d.ReceiptNumber),
		zap.String("campaign", d.Campaign),
		zap.Float64("amount", d.Amount))

	out := receipt{Donation: d}
	if h.Payments.Enabled() {
		co, err := h.Payments.Checkout(ctx, payments.Order{
			ID:     d.ReceiptNumber,
			Amount: d.Amount,
			Name:   d.DonorName,
			Email:  d.DonorEmail,
			Phone:  d.DonorPhone,
			Item:   itemName(d),
		})
		if err != nil {
			h.Log.Warn("payment checkout failed", zap.String("receipt", d.ReceiptNumber), zap.Error(err))
		} else {
			out.Payment = &co
		}
	}
	respond.Created(w, out)
}

func itemName(d models.Donation) string {
	if d.Campaign == "" {
		return "Donasi Pesantren"
	}
	return "Donasi " + d.Campaign
}
