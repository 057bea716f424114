package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/pesantrenhub/internal/app/system/apperr"
	"github.com/dalemusser/pesantrenhub/internal/app/system/inputval"
	"github.com/dalemusser/pesantrenhub/internal/app/system/media"
	"github.com/dalemusser/pesantrenhub/internal/app/system/respond"
	"github.com/dalemusser/pesantrenhub/internal/app/system/timeouts"
	"github.com/dalemusser/pesantrenhub/internal/domain/models"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// HandleUpload handles POST /api/admin/upload. The multipart body carries
// the file under "file" and an optional "folder".
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, h.Log, "upload", apperr.Invalid("file", "File is too large. Maximum size is 10 MB."))
			return
		}
		respond.Error(w, h.Log, "upload", apperr.Invalid("file", "File is required."))
		return
	}
	defer file.Close()

	folder := strings.ToLower(strings.TrimSpace(r.FormValue("folder")))
	if folder == "" {
		folder = "misc"
	}
	if !models.IsOneOf(folder, Folders) {
		respond.Error(w, h.Log, "upload", apperr.Invalid("folder", "Folder is not one of "+strings.Join(Folders, ", ")+"."))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(w, h.Log, "upload", apperr.Invalid("file", "File could not be read."))
		return
	}
	mt := mimetype.Detect(data)
	if !isMedia(mt) {
		respond.Error(w, h.Log, "upload", apperr.Invalid("file", "Only image and video files can be uploaded."))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	asset, err := h.Media.Upload(ctx, bytes.NewReader(data), folder)
	if errors.Is(err, media.ErrNotConfigured) {
		respond.Fail(w, http.StatusServiceUnavailable, "Media storage is not configured.")
		return
	}
	if err != nil {
		respond.Error(w, h.Log, "upload", err)
		return
	}
	h.Log.Info("media uploaded",
		zap.String("public_id", asset.PublicID),
		zap.String("mime", mt.String()),
		zap.Int("bytes", len(data)))
	respond.Created(w, asset)
}

func isMedia(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") || strings.HasPrefix(m.String(), "video/") {
			return true
		}
	}
	return false
}

type destroyInput struct {
	URL          string `json:"url" validate:"omitempty,httpurl" label:"URL"`
	PublicID     string `json:"publicId" validate:"max=300" label:"Public id"`
	ResourceType string `json:"resourceType" validate:"omitempty,oneof=image video raw" label:"Resource type"`
}

// HandleDestroy handles DELETE /api/admin/upload with either the delivery
// URL or the public id of the asset.
func (h *Handler) HandleDestroy(w http.ResponseWriter, r *http.Request) {
	var in destroyInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Error(w, h.Log, "upload: destroy", err)
		return
	}
	in.URL = strings.TrimSpace(in.URL)
	in.PublicID = strings.Trim(strings.TrimSpace(in.PublicID), "/")
	res := inputval.Validate(in)
	if in.URL == "" && in.PublicID == "" {
		res.Add("url", "URL or public id is required.")
	}
	if err := apperr.FromResult(res); err != nil {
		respond.Error(w, h.Log, "upload: destroy", err)
		return
	}

	id, rt := in.PublicID, in.ResourceType
	if id == "" {
		var ok bool
		id, rt, ok = media.PublicIDFromURL(in.URL)
		if !ok {
			respond.Error(w, h.Log, "upload: destroy", apperr.Invalid("url", "URL is not a stored media URL."))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Media.Destroy(ctx, id, rt); err != nil {
		respond.Error(w, h.Log, "upload: destroy", err)
		return
	}
	h.Log.Info("media deleted", zap.String("public_id", id))
	respond.Message(w, "Media deleted.")
}
