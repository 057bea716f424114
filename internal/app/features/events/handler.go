// internal/app/features/events/handler.go
package events

import (
	"github.com/dalemusser/pesantrenhub/internal/app/system/media"
	"github.com/dalemusser/pesantrenhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves events. Submit throttles public registrations; nil
// disables the limit.
type Handler struct {
	DB     *mongo.Database
	Media  media.Store
	Submit *ratelimit.Limiter
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, ms media.Store, submit *ratelimit.Limiter, logger *zap.Logger) *Handler {
	if ms == nil {
		ms = media.Disabled{}
	}
	return &Handler{DB: db, Media: ms, Submit: submit, Log: logger}
}
