// internal/app/features/blog/handler.go
package blog

import (
	"github.com/dalemusser/pesantrenhub/internal/app/system/media"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB    *mongo.Database
	Media media.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, ms media.Store, logger *zap.Logger) *Handler {
	if ms == nil {
		ms = media.Disabled{}
	}
	return &Handler{DB: db, Media: ms, Log: logger}
}
