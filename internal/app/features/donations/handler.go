// internal/app/features/donations/handler.go
package donations

import (
	"github.com/dalemusser/pesantrenhub/internal/app/system/payments"
	"github.com/dalemusser/pesantrenhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves donations. Payments starts a hosted checkout for public
// donations when a gateway is configured.
type Handler struct {
	DB       *mongo.Database
	Payments payments.Gateway
	Submit   *ratelimit.Limiter
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, gw payments.Gateway, submit *ratelimit.Limiter, logger *zap.Logger) *Handler {
	if gw == nil {
		gw = payments.Disabled{}
	}
	return &Handler{DB: db, Payments: gw, Submit: submit, Log: logger}
}
