// internal/app/features/contact/handler.go
package contact

import (
	"github.com/dalemusser/pesantrenhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public contact form and the admin inbox.
type Handler struct {
	DB     *mongo.Database
	Submit *ratelimit.Limiter
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, submit *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Submit: submit, Log: logger}
}
