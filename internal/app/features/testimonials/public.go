package testimonials

import (
	"context"
	"net/http"

	testimonialstore "github.com/dalemusser/pesantrenhub/internal/app/store/testimonials"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	"github.com/dalemusser/pesantrenhub/internal/app/system/paging"
	"github.com/dalemusser/pesantrenhub/internal/app/system/ratelimit"
	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var publicSorts = paging.Sorts{
	"createdAt": "created_at",
	"rating":    "rating",
}

// ServeList handles GET /api/testimonials: approved only, featured first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, publicSorts, testimonialstore.PublicSort)
	p.Status = ""
	filter := p.Filter(testimonialstore.SearchFields...)
	filter["status"] = models.TestimonialApproved
	if query.Get(r, "featured") == "true" {
		filter["featured"] = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := testimonialstore.New(h.DB).List(ctx, filter, p)
	if err != nil {
		respond.Error(w, h.Log, "testimonials: public list", err)
		return
	}
	respond.Page(w, rows, paging.NewPagination(p, total))
}

// ServeShow handles GET /api/testimonials/{id} for approved testimonials.
func (h *Handler) ServeShow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := testimonialstore.New(h.DB).GetByKey(ctx, chi.URLParam(r, "id"),
		bson.M{"status": models.TestimonialApproved})
	if err != nil {
		respond.Error(w, h.Log, "testimonials: public show", err)
		return
	}
	respond.OK(w, t)
}

// HandleSubmit handles POST /api/testimonials. The testimonial waits for
// moderation and is never featured.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var in submission
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "testimonials: submit", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "testimonials: submit", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := testimonialstore.New(h.DB).Create(ctx, in.testimonial())
	if err != nil {
		respond.Error(w, h.Log, "testimonials: submit", err)
		return
	}
	h.Log.Info("testimonial submitted",
		zap.String("id", created.ID.Hex()),
		zap.String("ip", ratelimit.ClientIP(r)))
	respond.JSON(w, http.StatusCreated, respond.Envelope{
		Success: true,
		Data:    created,
		Message: "Thank you. Your testimonial will appear after review.",
	})
}
