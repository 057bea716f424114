// internal/app/features/upload/handler.go
package upload

import (
	"github.com/dalemusser/pesantrenhub/internal/app/system/media"
	"go.uber.org/zap"
)

// MaxUploadSize caps a single upload request.
const MaxUploadSize = 10 << 20 // 10 MB

// Folders are the upload destinations an admin may choose.
var Folders = []string{"news", "blog", "events", "gallery", "testimonials", "campaigns", "misc"}

type Handler struct {
	Media media.Store
	Log   *zap.Logger
}

func NewHandler(ms media.Store, logger *zap.Logger) *Handler {
	if ms == nil {
		ms = media.Disabled{}
	}
	return &Handler{Media: ms, Log: logger}
}
