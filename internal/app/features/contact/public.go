package contact

import (
	"context"
	"net/http"

	contactstore "github.com/dalemusser/pesantrenhub/internal/app/store/contacts"
	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	"github.com/dalemusser/pesantrenhub/internal/app/system/ratelimit"
	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleSubmit handles POST /api/contact. The stored message is returned
// only by id; the visitor gets a confirmation.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var in messageInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "contact: submit", err)
		return
	}
	in.normalize()
	if err := apperr.FromResult(inputval.Validate(in)); err != nil {
		respond.Error(w, h.Log, "contact: submit", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := contactstore.New(h.DB).Create(ctx, in.message())
	if err != nil {
		respond.Error(w, h.Log, "contact: submit", err)
		return
	}
	h.Log.Info("contact message received",
		zap.String("id", m.ID.Hex()),
		zap.String("subject", m.Subject),
		zap.String("ip", ratelimit.ClientIP(r)))

	respond.JSON(w, http.StatusCreated, respond.Envelope{
		Success: true,
		Data:    map[string]string{"id": m.ID.Hex()},
		Message: "Thank you. Your message has been sent.",
	})
}
