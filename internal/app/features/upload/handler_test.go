package upload_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dalemusser/pesantrenhub/internal/app/features/upload"
	"github.com/dalemusser/pesantrenhub/internal/app/system/auth"
	"github.com/dalemusser/pesantrenhub/internal/app/system/media"
	"github.com/dalemusser/pesantrenhub/internal/testutil"
	"go.uber.org/zap"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type memoryStore struct {
	mu        sync.Mutex
	folders   []string
	destroyed []string
}

func (s *memoryStore) Upload(_ context.Context, r io.Reader, folder string) (media.Asset, error) {
	if _, err := io.ReadAll(r); err != nil {
		return media.Asset{}, err
	}
	s.mu.Lock()
	s.folders = append(s.folders, folder)
	s.mu.Unlock()
	return media.Asset{
		URL:          "https://res.cloudinary.com/demo/image/upload/v1/pesantren/" + folder + "/abc.png",
		PublicID:     "pesantren/" + folder + "/abc",
		ResourceType: "image",
	}, nil
}

func (s *memoryStore) Destroy(_ context.Context, publicID, _ string) error {
	s.mu.Lock()
	s.destroyed = append(s.destroyed, publicID)
	s.mu.Unlock()
	return nil
}

func multipartRequest(t *testing.T, folder string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if folder != "" {
		if err := mw.WriteField("folder", folder); err != nil {
			t.Fatalf("write folder: %v", err)
		}
	}
	if content != nil {
		fw, err := mw.CreateFormFile("file", "foto.png")
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return auth.WithUser(req, testutil.AdminUser())
}

func router(t *testing.T, ms media.Store) http.Handler {
	t.Helper()
	return upload.Routes(upload.NewHandler(ms, zap.NewNop()), testutil.SessionManager(t))
}

func TestUpload_Image(t *testing.T) {
	ms := &memoryStore{}
	rec := testutil.Serve(router(t, ms), multipartRequest(t, "gallery", pngHeader))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d; body %s", rec.Code, rec.Body.String())
	}
	var got media.Asset
	testutil.DecodeData(t, rec, &got)
	if got.PublicID != "pesantren/gallery/abc" {
		t.Errorf("publicId: got %q", got.PublicID)
	}
	if len(ms.folders) != 1 || ms.folders[0] != "gallery" {
		t.Errorf("folders: %v", ms.folders)
	}
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		folder  string
		content []byte
		field   string
	}{
		{"no file", "news", nil, "file"},
		{"not media", "news", []byte("%PDF-1.4 bukan gambar"), "file"},
		{"unknown folder", "rahasia", pngHeader, "folder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.Serve(router(t, &memoryStore{}), multipartRequest(t, tt.folder, tt.content))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400; body %s", rec.Code, rec.Body.String())
			}
			if env := testutil.DecodeEnvelope(t, rec); !env.HasFieldError(tt.field) {
				t.Errorf("expected field error on %q, got %+v", tt.field, env.Errors)
			}
		})
	}
}

func TestUpload_NotConfigured(t *testing.T) {
	rec := testutil.Serve(router(t, nil), multipartRequest(t, "", pngHeader))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
}

func TestDestroy(t *testing.T) {
	ms := &memoryStore{}
	r := router(t, ms)

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"by url", map[string]any{"url": "https://res.cloudinary.com/demo/image/upload/v17/pesantren/news/x.jpg"}, http.StatusOK},
		{"by public id", map[string]any{"publicId": "pesantren/blog/y"}, http.StatusOK},
		{"foreign url", map[string]any{"url": "https://example.com/x.jpg"}, http.StatusBadRequest},
		{"empty", map[string]any{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.Serve(r, testutil.AdminRequest(t, http.MethodDelete, "/", tt.body))
			if rec.Code != tt.status {
				t.Fatalf("status: got %d, want %d; body %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
	if len(ms.destroyed) != 2 || ms.destroyed[0] != "pesantren/news/x" || ms.destroyed[1] != "pesantren/blog/y" {
		t.Errorf("destroyed: %v", ms.destroyed)
	}
}
