package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/pesantrenhub/internal/app/system/auth"
	"github.com/dalemusser/pesantrenhub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "pesantren_test",
		JWTSecret:           strings.Repeat("s", minJWTSecret),
		SessionTTL:          8 * time.Hour,
		SummaryCacheTTL:     30 * time.Second,
		ContactRateLimit:    5,
		SubmissionRateLimit: 10,
		RateLimitWindow:     time.Hour,
	}
}

func TestValidateApp(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid", "prod", func(*AppConfig) {}, ""},
		{"short secret in prod", "prod", func(c *AppConfig) { c.JWTSecret = "short" }, "at least 32"},
		{"short secret in dev", "dev", func(c *AppConfig) { c.JWTSecret = "short" }, ""},
		{"missing secret", "dev", func(c *AppConfig) { c.JWTSecret = "" }, "jwt_secret is required"},
		{"partial cloudinary", "dev", func(c *AppConfig) { c.CloudinaryCloudName = "demo" }, "set together"},
		{"full cloudinary", "dev", func(c *AppConfig) {
			c.CloudinaryCloudName, c.CloudinaryAPIKey, c.CloudinaryAPISecret = "demo", "key", "secret"
		}, ""},
		{"admin email without password", "dev", func(c *AppConfig) { c.AdminEmail = "a@b.id" }, "admin_email and admin_password"},
		{"weak admin password", "dev", func(c *AppConfig) { c.AdminEmail, c.AdminPassword = "a@b.id", "123" }, "admin_password"},
		{"zero rate limit", "dev", func(c *AppConfig) { c.ContactRateLimit = 0 }, "rate_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := validateApp(tt.env, cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error: got %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuildHandler_Routing(t *testing.T) {
	db := testutil.OfflineDB(t)
	cfg := validConfig()
	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, cfg, DBDeps{MongoClient: db.Client(), MongoDatabase: db}, zap.NewNop())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}

	sm, err := auth.NewSessionManager(cfg.JWTSecret, "", "", cfg.SessionTTL, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	tok, _, err := sm.Sign(auth.SessionUser{ID: "u1", Name: "Admin", Email: "admin@pesantren.id", Role: "admin"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"unknown route", http.MethodGet, "/api/nothing", "", http.StatusNotFound},
		{"admin without session", http.MethodGet, "/api/admin/news", "", http.StatusUnauthorized},
		{"summary without session", http.MethodGet, "/api/admin/summary", "", http.StatusUnauthorized},
		{"me with bearer", http.MethodGet, "/api/auth/me", tok, http.StatusOK},
		{"summary reaches the store", http.MethodGet, "/api/admin/summary", tok, http.StatusInternalServerError},
		{"public list reaches the store", http.MethodGet, "/api/news", "", http.StatusInternalServerError},
		{"health without database", http.MethodGet, "/health", "", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := testutil.Serve(h, req)
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d; body %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
