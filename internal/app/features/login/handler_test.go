package login_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/pesantrenhub/internal/app/features/login"
	"github.com/dalemusser/pesantrenhub/internal/app/system/auth"
	"github.com/dalemusser/pesantrenhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func router(t *testing.T, db *mongo.Database) (http.Handler, *auth.SessionManager) {
	t.Helper()
	sm := testutil.SessionManager(t)
	h := login.NewHandler(db, sm, nil, zap.NewNop())
	return sm.LoadSessionUser(login.Routes(h)), sm
}

func sessionCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin_SetsCookieAndMe(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	r, sm := router(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	testutil.NewFixtures(t, db).CreateAdminUser(ctx, "ustadz@pesantren.id")

	rec := testutil.Serve(r, testutil.JSONRequest(t, http.MethodPost, "/login", map[string]any{
		"email": " Ustadz@Pesantren.id ", "password": testutil.AdminPassword,
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body %s", rec.Code, rec.Body.String())
	}
	c := sessionCookie(rec, sm.CookieName())
	if c == nil || c.Value == "" || !c.HttpOnly || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("session cookie: %+v", c)
	}
	var got struct {
		User  auth.SessionUser `json:"user"`
		Token string           `json:"token"`
	}
	testutil.DecodeData(t, rec, &got)
	if got.User.Email != "ustadz@pesantren.id" || got.Token != c.Value {
		t.Errorf("session: %+v", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(c)
	rec = testutil.Serve(r, req)
	var me auth.SessionUser
	testutil.DecodeData(t, rec, &me)
	if me.Email != "ustadz@pesantren.id" || me.Role != "admin" {
		t.Errorf("me: %+v", me)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+got.Token)
	if rec := testutil.Serve(r, req); rec.Code != http.StatusOK {
		t.Errorf("bearer me: got %d", rec.Code)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	r, _ := router(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	testutil.NewFixtures(t, db).CreateAdminUser(ctx, "admin@pesantren.id")

	tests := []struct {
		name  string
		email string
	}{
		{"wrong password", "admin@pesantren.id"},
		{"unknown email", "siapa@pesantren.id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.Serve(r, testutil.JSONRequest(t, http.MethodPost, "/login", map[string]any{
				"email": tt.email, "password": "salah-sekali",
			}))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want 401", rec.Code)
			}
			if env := testutil.DecodeEnvelope(t, rec); env.Error != "Invalid email or password." {
				t.Errorf("error: got %q", env.Error)
			}
		})
	}
}

func TestLogin_Validation(t *testing.T) {
	r, _ := router(t, testutil.OfflineDB(t))

	rec := testutil.Serve(r, testutil.JSONRequest(t, http.MethodPost, "/login", map[string]any{"email": "bukan-email"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	env := testutil.DecodeEnvelope(t, rec)
	if !env.HasFieldError("email") || !env.HasFieldError("password") {
		t.Errorf("errors: %+v", env.Errors)
	}
}

func TestLogin_RateLimitedPerEmail(t *testing.T) {
	r, _ := router(t, testutil.OfflineDB(t))

	// validation failures still count as attempts
	var last int
	for i := 0; i < 6; i++ {
		rec := testutil.Serve(r, testutil.JSONRequest(t, http.MethodPost, "/login", map[string]any{"email": "target@pesantren.id"}))
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("sixth attempt: got %d, want 429", last)
	}
}

func TestLogoutAndMe(t *testing.T) {
	r, sm := router(t, testutil.OfflineDB(t))

	if rec := testutil.Serve(r, httptest.NewRequest(http.MethodGet, "/me", nil)); rec.Code != http.StatusUnauthorized {
		t.Errorf("me without session: got %d, want 401", rec.Code)
	}

	rec := testutil.Serve(r, httptest.NewRequest(http.MethodPost, "/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: got %d", rec.Code)
	}
	c := sessionCookie(rec, sm.CookieName())
	if c == nil || c.MaxAge >= 0 || c.Value != "" {
		t.Errorf("cleared cookie: %+v", c)
	}
}
