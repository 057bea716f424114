// Package media stores uploaded images and videos in Cloudinary and removes
// them again when the content that references them is deleted. Only the
// delivery URL is persisted; the public id is derived from it.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by uploads when no Cloudinary credentials
// were provided.
var ErrNotConfigured = errors.New("media storage is not configured")

// Asset describes a stored file.
type Asset struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	ResourceType string `json:"resourceType"`
	Format       string `json:"format,omitempty"`
	Bytes        int    `json:"bytes,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// Store is the media backend used by handlers.
type Store interface {
	Upload(ctx context.Context, r io.Reader, folder string) (Asset, error)
	Destroy(ctx context.Context, publicID, resourceType string) error
}

// Cloudinary is a Store backed by the Cloudinary upload API.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinary builds a Cloudinary store. baseFolder prefixes every upload
// folder.
func NewCloudinary(cloudName, apiKey, apiSecret, baseFolder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &Cloudinary{cld: cld, folder: strings.Trim(baseFolder, "/")}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, folder string) (Asset, error) {
	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       path.Join(c.folder, strings.Trim(folder, "/")),
		ResourceType: "auto",
	})
	if err != nil {
		return Asset{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return Asset{}, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return Asset{
		URL:          resp.SecureURL,
		PublicID:     resp.PublicID,
		ResourceType: resp.ResourceType,
		Format:       resp.Format,
		Bytes:        resp.Bytes,
		Width:        resp.Width,
		Height:       resp.Height,
	}, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, publicID, resourceType string) error {
	if resourceType == "" {
		resourceType = "image"
	}
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", resp.Error.Message)
	}
	return nil
}

// Disabled is the Store used when Cloudinary is not configured: uploads
// fail with ErrNotConfigured and destroys succeed without doing anything.
type Disabled struct{}

func (Disabled) Upload(context.Context, io.Reader, string) (Asset, error) {
	return Asset{}, ErrNotConfigured
}

func (Disabled) Destroy(context.Context, string, string) error { return nil }

var versionSegment = regexp.MustCompile(`^v\d+$`)

// PublicIDFromURL derives the public id and resource type from a Cloudinary
// delivery URL such as
//
//	https://res.cloudinary.com/demo/image/upload/c_fill,w_300/v1712345678/pesantren/news/abc123.jpg
//
// which yields "pesantren/news/abc123" and "image". Transformation segments
// before the version are skipped. ok is false for non-Cloudinary URLs.
func PublicIDFromURL(raw string) (publicID, resourceType string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.HasSuffix(u.Host, "cloudinary.com") {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	// cloud / resource type / delivery type / [transformations] / [version] / id
	if len(parts) < 4 {
		return "", "", false
	}
	resourceType = parts[1]
	rest := parts[3:]

	start := 0
	for i, p := range rest {
		if versionSegment.MatchString(p) {
			start = i + 1
			break
		}
	}
	if start == 0 {
		for start < len(rest)-1 && isTransformation(rest[start]) {
			start++
		}
	}
	if start >= len(rest) {
		return "", "", false
	}
	id := strings.Join(rest[start:], "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", "", false
	}
	return id, resourceType, true
}

var transformationParam = regexp.MustCompile(`^[a-z]{1,3}_[^/]+$`)

func isTransformation(seg string) bool {
	for _, p := range strings.Split(seg, ",") {
		if !transformationParam.MatchString(p) {
			return false
		}
	}
	return true
}

// DestroyURLs removes every Cloudinary asset referenced by urls. Failures
// are logged and otherwise ignored; content deletion never waits on media
// cleanup succeeding.
func DestroyURLs(ctx context.Context, s Store, log *zap.Logger, urls ...string) {
	seen := make(map[string]struct{}, len(urls))
	for _, raw := range urls {
		id, rt, ok := PublicIDFromURL(raw)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if err := s.Destroy(ctx, id, rt); err != nil {
			log.Warn("media cleanup failed", zap.String("public_id", id), zap.Error(err))
		}
	}
}
